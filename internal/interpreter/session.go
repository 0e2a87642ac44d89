package interpreter

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/golox/internal/ast"
	"github.com/karupanerura/golox/internal/lexer"
	"github.com/karupanerura/golox/internal/parser"
	"github.com/karupanerura/golox/internal/token"
	"github.com/karupanerura/golox/internal/types"
	"github.com/samber/lo"
)

// Session owns the environment shared by every source text it runs, so that
// bindings made by one Run are visible to the next.
type Session struct {
	Debug bool

	interpreter *Interpreter
}

func NewSession(stdout io.Writer) *Session {
	return &Session{
		interpreter: New(types.NewEnvironment(), stdout),
	}
}

func (s *Session) Environment() *types.Environment {
	return s.interpreter.Environment
}

// SetOutput redirects the output of print statements.
func (s *Session) SetOutput(w io.Writer) {
	s.interpreter.Stdout = w
}

// DefineGlobals binds each entry of globals, converting the values with
// types.ValueOf. Nothing is bound if any value cannot be converted.
func (s *Session) DefineGlobals(globals map[string]any) error {
	names := lo.Keys(globals)
	sort.Strings(names)

	values := make(map[string]types.Value, len(globals))
	for _, name := range names {
		if err := checkVariableName(name); err != nil {
			return fmt.Errorf("global %q: %w", name, err)
		}
		v, err := types.ValueOf(globals[name])
		if err != nil {
			return fmt.Errorf("global %q: %w", name, err)
		}
		values[name] = v
	}

	for _, name := range names {
		s.Environment().Define(name, values[name])
	}
	return nil
}

// Tokens returns the tokens of source.
func (s *Session) Tokens(source string) []token.Token {
	return lexer.Scan(source)
}

// AST parses source without executing it.
func (s *Session) AST(source string) ([]ast.Stmt, error) {
	tokens := lexer.Scan(source)
	if s.Debug {
		return parser.ParseWithDebugOutput(tokens)
	}
	return parser.Parse(tokens)
}

// Run parses and executes source. A parse error prevents any execution; a
// runtime error stops execution after the statements that already ran.
func (s *Session) Run(source string) error {
	stmts, err := s.AST(source)
	if err != nil {
		return err
	}

	err = s.interpreter.Execute(stmts)
	if s.Debug {
		pp.Println(s.Environment().Snapshot())
	}
	return err
}

// checkVariableName accepts name only if it scans as a single identifier.
func checkVariableName(name string) error {
	tokens := lexer.Scan(name)
	if len(tokens) != 2 || tokens[0].Lexeme != name {
		return errors.New("not a valid variable name")
	}
	if typ := tokens[0].Type; typ.IsKeyword() {
		return fmt.Errorf("reserved word %s", typ.Describe())
	} else if typ != token.Identifier {
		return errors.New("not a valid variable name")
	}
	return nil
}
