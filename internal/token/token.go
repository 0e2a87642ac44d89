package token

import (
	"fmt"

	"github.com/samber/lo"
)

type Type int

const (
	// single-character tokens
	LeftParen Type = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// one or two character tokens
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// literals
	Identifier
	String
	Number

	// keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
	Unknown
)

var typeNames = map[Type]string{
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	Comma:        "Comma",
	Dot:          "Dot",
	Minus:        "Minus",
	Plus:         "Plus",
	Semicolon:    "Semicolon",
	Slash:        "Slash",
	Star:         "Star",
	Bang:         "Bang",
	BangEqual:    "BangEqual",
	Equal:        "Equal",
	EqualEqual:   "EqualEqual",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Identifier:   "Identifier",
	String:       "String",
	Number:       "Number",
	And:          "And",
	Class:        "Class",
	Else:         "Else",
	False:        "False",
	Fun:          "Fun",
	For:          "For",
	If:           "If",
	Nil:          "Nil",
	Or:           "Or",
	Print:        "Print",
	Return:       "Return",
	Super:        "Super",
	This:         "This",
	True:         "True",
	Var:          "Var",
	While:        "While",
	EOF:          "EOF",
	Unknown:      "Unknown",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keywords maps reserved words to their token types.
var Keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"fun":    Fun,
	"for":    For,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

var keywordSpellings = lo.Invert(Keywords)

// LookupIdent classifies an identifier-shaped lexeme.
func LookupIdent(ident string) Type {
	if t, ok := Keywords[ident]; ok {
		return t
	}
	return Identifier
}

// IsKeyword reports whether t is one of the reserved word types.
func (t Type) IsKeyword() bool {
	_, ok := keywordSpellings[t]
	return ok
}

var punctuationSpellings = map[Type]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Minus:        "-",
	Plus:         "+",
	Semicolon:    ";",
	Slash:        "/",
	Star:         "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
}

// Describe returns the form used in diagnostics: the fixed spelling for
// punctuation and keywords, a kind name otherwise.
func (t Type) Describe() string {
	if s, ok := punctuationSpellings[t]; ok {
		return fmt.Sprintf("'%s'", s)
	}
	if s, ok := keywordSpellings[t]; ok {
		return fmt.Sprintf("'%s'", s)
	}
	switch t {
	case Identifier:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	case EOF:
		return "end of input"
	default:
		return t.String()
	}
}

// Token is a single lexical unit. Lexeme is a substring of the scanned source
// starting at byte offset Pos.
type Token struct {
	Type    Type
	Lexeme  string
	Literal string
	Line    int
	Pos     int
}

func (t Token) String() string {
	return fmt.Sprintf("(%s, %q, %q, ln %d)", t.Type, t.Lexeme, t.Literal, t.Line)
}

// EndsPos returns the byte offset just past the lexeme.
func (t Token) EndsPos() int {
	return t.Pos + len(t.Lexeme)
}
