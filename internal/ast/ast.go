// Package ast defines the syntax tree produced by the parser. Expr and Stmt
// are closed sets: only the types in this package implement them.
package ast

import (
	"github.com/karupanerura/golox/internal/token"
)

type Expr interface {
	expr()
}

type NumberLiteral struct {
	Value float64
}

type StringLiteral struct {
	Value string
}

type BooleanLiteral struct {
	Value bool
}

type NilLiteral struct{}

type Unary struct {
	Operator token.Type
	Operand  Expr
	Line     int
}

type Binary struct {
	Left     Expr
	Operator token.Type
	Right    Expr
	Line     int
}

type Grouping struct {
	Inner Expr
}

type Variable struct {
	Name string
	Line int
}

type Assign struct {
	Name  string
	Value Expr
	Line  int
}

func (*NumberLiteral) expr()  {}
func (*StringLiteral) expr()  {}
func (*BooleanLiteral) expr() {}
func (*NilLiteral) expr()     {}
func (*Unary) expr()          {}
func (*Binary) expr()         {}
func (*Grouping) expr()       {}
func (*Variable) expr()       {}
func (*Assign) expr()         {}

type Stmt interface {
	stmt()
}

// ExpressionStmt evaluates Expr and discards the result.
type ExpressionStmt struct {
	Expr Expr
}

type PrintStmt struct {
	Expr Expr
}

// VarStmt declares Name. Initializer is nil when the declaration has none.
type VarStmt struct {
	Name        string
	Initializer Expr
	Line        int
}

func (*ExpressionStmt) stmt() {}
func (*PrintStmt) stmt()      {}
func (*VarStmt) stmt()        {}
