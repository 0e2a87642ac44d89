package types

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	reflect "github.com/goccy/go-reflect"
)

// Value is a runtime value: Number, Text, Boolean or Nil.
type Value interface {
	fmt.Stringer
	Kind() string
	value()
}

type Number float64

type Text string

type Boolean bool

type Nil struct{}

var (
	_ Value = Number(0)
	_ Value = Text("")
	_ Value = Boolean(false)
	_ Value = Nil{}
)

func (Number) value()  {}
func (Text) value()    {}
func (Boolean) value() {}
func (Nil) value()     {}

func (Number) Kind() string  { return "number" }
func (Text) Kind() string    { return "string" }
func (Boolean) Kind() string { return "boolean" }
func (Nil) Kind() string     { return "nil" }

func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

func (t Text) String() string {
	return string(t)
}

func (b Boolean) String() string {
	return strconv.FormatBool(bool(b))
}

func (Nil) String() string {
	return "nil"
}

// MarshalJSON encodes non-finite numbers as strings since JSON has no
// representation for them.
func (n Number) MarshalJSON() ([]byte, error) {
	if f := float64(n); math.IsInf(f, 0) || math.IsNaN(f) {
		return json.Marshal(n.String())
	}
	return json.Marshal(float64(n))
}

func (Nil) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Equal is structural equality. Values of different kinds are never equal and
// NaN is unequal to itself.
func Equal(a, b Value) bool {
	return a == b
}

// IsTruthy reports everything except false and nil as true.
func IsTruthy(v Value) bool {
	switch vv := v.(type) {
	case Nil:
		return false
	case Boolean:
		return bool(vv)
	default:
		return true
	}
}

// ValueOf converts a decoded Go scalar into a Value.
func ValueOf(v any) (Value, error) {
	switch vv := v.(type) {
	case nil:
		return Nil{}, nil
	case Value:
		return vv, nil
	case json.Number:
		f, err := vv.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", vv.String(), err)
		}
		return Number(f), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return Boolean(rv.Bool()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Nil{}, nil
		}
		return ValueOf(rv.Elem().Interface())
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
