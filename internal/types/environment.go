package types

import (
	"sort"

	"github.com/samber/lo"
)

// Environment is the flat variable store of a session. It is not safe for
// concurrent use; callers own it exclusively while executing.
type Environment struct {
	values map[string]Value
}

func NewEnvironment() *Environment {
	return &Environment{
		values: map[string]Value{},
	}
}

// Define binds name, replacing any existing binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign replaces the binding of an existing name and reports whether the
// name was bound. It never creates a binding.
func (e *Environment) Assign(name string, value Value) bool {
	if _, ok := e.values[name]; !ok {
		return false
	}
	e.values[name] = value
	return true
}

func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

func (e *Environment) Len() int {
	return len(e.values)
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := lo.Keys(e.values)
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the bindings.
func (e *Environment) Snapshot() map[string]Value {
	return lo.Assign(map[string]Value{}, e.values)
}
