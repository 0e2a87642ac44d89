package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/karupanerura/golox/internal/token"
)

var operatorSpellings = map[token.Type]string{
	token.Bang:         "!",
	token.Minus:        "-",
	token.Plus:         "+",
	token.Star:         "*",
	token.Slash:        "/",
	token.BangEqual:    "!=",
	token.EqualEqual:   "==",
	token.Greater:      ">",
	token.GreaterEqual: ">=",
	token.Less:         "<",
	token.LessEqual:    "<=",
}

// RenderExpr renders expr as an s-expression, e.g. (+ 1 (* 2 3)).
func RenderExpr(expr Expr) string {
	var b strings.Builder
	renderExpr(&b, expr)
	return b.String()
}

// RenderStmt renders stmt as an s-expression, e.g. (var x 1).
func RenderStmt(stmt Stmt) string {
	var b strings.Builder
	switch s := stmt.(type) {
	case *ExpressionStmt:
		b.WriteString("(expr ")
		renderExpr(&b, s.Expr)
		b.WriteByte(')')
	case *PrintStmt:
		b.WriteString("(print ")
		renderExpr(&b, s.Expr)
		b.WriteByte(')')
	case *VarStmt:
		b.WriteString("(var ")
		b.WriteString(s.Name)
		if s.Initializer != nil {
			b.WriteByte(' ')
			renderExpr(&b, s.Initializer)
		}
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("unknown statement: %T", stmt))
	}
	return b.String()
}

func renderExpr(b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *NumberLiteral:
		b.WriteString(strconv.FormatFloat(e.Value, 'f', -1, 64))
	case *StringLiteral:
		b.WriteString(strconv.Quote(e.Value))
	case *BooleanLiteral:
		b.WriteString(strconv.FormatBool(e.Value))
	case *NilLiteral:
		b.WriteString("nil")
	case *Unary:
		b.WriteByte('(')
		b.WriteString(operatorSpellings[e.Operator])
		b.WriteByte(' ')
		renderExpr(b, e.Operand)
		b.WriteByte(')')
	case *Binary:
		b.WriteByte('(')
		b.WriteString(operatorSpellings[e.Operator])
		b.WriteByte(' ')
		renderExpr(b, e.Left)
		b.WriteByte(' ')
		renderExpr(b, e.Right)
		b.WriteByte(')')
	case *Grouping:
		b.WriteString("(group ")
		renderExpr(b, e.Inner)
		b.WriteByte(')')
	case *Variable:
		b.WriteString(e.Name)
	case *Assign:
		b.WriteString("(= ")
		b.WriteString(e.Name)
		b.WriteByte(' ')
		renderExpr(b, e.Value)
		b.WriteByte(')')
	case nil:
		b.WriteString("<nil>")
	default:
		panic(fmt.Sprintf("unknown expression: %T", expr))
	}
}
