package interpreter

import (
	"fmt"
	"io"

	"github.com/karupanerura/golox/internal/ast"
	"github.com/karupanerura/golox/internal/token"
	"github.com/karupanerura/golox/internal/types"
)

// Interpreter executes statements against Environment and writes the output
// of print statements to Stdout, one line per statement.
type Interpreter struct {
	Environment *types.Environment
	Stdout      io.Writer
}

func New(env *types.Environment, stdout io.Writer) *Interpreter {
	return &Interpreter{Environment: env, Stdout: stdout}
}

// Execute runs stmts in order and stops at the first failure. Effects of the
// statements that already ran are kept.
func (in *Interpreter) Execute(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := in.Evaluate(s.Expr)
		return err

	case *ast.PrintStmt:
		v, err := in.Evaluate(s.Expr)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(in.Stdout, v.String()); err != nil {
			return fmt.Errorf("print: %w", err)
		}
		return nil

	case *ast.VarStmt:
		var value types.Value = types.Nil{}
		if s.Initializer != nil {
			v, err := in.Evaluate(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		in.Environment.Define(s.Name, value)
		return nil

	default:
		panic(fmt.Sprintf("unknown statement: %T", stmt))
	}
}

// Evaluate computes the value of expr.
func (in *Interpreter) Evaluate(expr ast.Expr) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return types.Number(e.Value), nil
	case *ast.StringLiteral:
		return types.Text(e.Value), nil
	case *ast.BooleanLiteral:
		return types.Boolean(e.Value), nil
	case *ast.NilLiteral:
		return types.Nil{}, nil
	case *ast.Grouping:
		return in.Evaluate(e.Inner)
	case *ast.Unary:
		return in.evaluateUnary(e)
	case *ast.Binary:
		return in.evaluateBinary(e)

	case *ast.Variable:
		v, ok := in.Environment.Get(e.Name)
		if !ok {
			return nil, undefinedVariableError(e.Name, e.Line)
		}
		return v, nil

	case *ast.Assign:
		v, err := in.Evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if !in.Environment.Assign(e.Name, v) {
			return nil, undefinedVariableError(e.Name, e.Line)
		}
		return v, nil

	default:
		panic(fmt.Sprintf("unknown expression: %T", expr))
	}
}

func (in *Interpreter) evaluateUnary(e *ast.Unary) (types.Value, error) {
	operand, err := in.Evaluate(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case token.Bang:
		return types.Boolean(!types.IsTruthy(operand)), nil
	case token.Minus:
		if n, ok := operand.(types.Number); ok {
			return -n, nil
		}
		return nil, typeError(e.Line, "negation on non-number: %s", operand.Kind())
	default:
		panic(fmt.Sprintf("unknown unary operator: %v", e.Operator))
	}
}

func (in *Interpreter) evaluateBinary(e *ast.Binary) (types.Value, error) {
	left, err := in.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case token.EqualEqual:
		return types.Boolean(types.Equal(left, right)), nil
	case token.BangEqual:
		return types.Boolean(!types.Equal(left, right)), nil
	}

	lhs, lok := left.(types.Number)
	rhs, rok := right.(types.Number)

	switch e.Operator {
	case token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		if !lok || !rok {
			return nil, typeError(e.Line, "comparison with non-number: %s %s %s", left.Kind(), e.Operator.Describe(), right.Kind())
		}
		switch e.Operator {
		case token.Less:
			return types.Boolean(lhs < rhs), nil
		case token.LessEqual:
			return types.Boolean(lhs <= rhs), nil
		case token.Greater:
			return types.Boolean(lhs > rhs), nil
		default:
			return types.Boolean(lhs >= rhs), nil
		}

	case token.Plus, token.Minus, token.Star, token.Slash:
		if !lok || !rok {
			return nil, typeError(e.Line, "arithmetic with non-number: %s %s %s", left.Kind(), e.Operator.Describe(), right.Kind())
		}
		switch e.Operator {
		case token.Plus:
			return lhs + rhs, nil
		case token.Minus:
			return lhs - rhs, nil
		case token.Star:
			return lhs * rhs, nil
		default:
			// IEEE-754: x/0 is ±inf or NaN, not an error
			return lhs / rhs, nil
		}

	default:
		panic(fmt.Sprintf("unknown binary operator: %v", e.Operator))
	}
}

func typeError(line int, format string, args ...any) error {
	return &types.Error{
		Phase: types.RuntimePhase,
		Tag:   types.TypeErrorTag,
		Line:  line,
		Err:   fmt.Errorf(format, args...),
	}
}

func undefinedVariableError(name string, line int) error {
	return &types.Error{
		Phase: types.RuntimePhase,
		Tag:   types.UndefinedVariableTag,
		Line:  line,
		Err:   fmt.Errorf("undefined variable '%s'", name),
	}
}
