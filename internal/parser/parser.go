package parser

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/golox/internal/ast"
	"github.com/karupanerura/golox/internal/lexer"
	"github.com/karupanerura/golox/internal/token"
	"github.com/karupanerura/golox/internal/types"
	"github.com/samber/lo"
)

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("GOLOX_PARSER_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type parser struct {
	tokens  []token.Token
	current int
	debug   bool
}

// Parse builds the statements of a program from the output of lexer.Scan.
// The first syntax error aborts the whole parse; no partial result is
// returned. Errors are *types.Error values in the parse phase.
func Parse(tokens []token.Token) ([]ast.Stmt, error) {
	p := &parser{tokens: tokens, debug: parserDebugLog}
	return p.parse()
}

func ParseWithDebugOutput(tokens []token.Token) ([]ast.Stmt, error) {
	p := &parser{tokens: tokens, debug: true}
	return p.parse()
}

// ParseSource scans and parses source.
func ParseSource(source string) ([]ast.Stmt, error) {
	return Parse(lexer.Scan(source))
}

func (p *parser) parse() ([]ast.Stmt, error) {
	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Type != token.EOF {
		p.tokens = append(p.tokens, token.Token{Type: token.EOF})
	}
	if p.debug {
		pp.Println(p.tokens)
	}

	var stmts []ast.Stmt
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			if p.debug {
				log.Println("parse failed: ", err)
			}
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	if p.debug {
		pp.Println(stmts)
		for _, stmt := range stmts {
			log.Println(ast.RenderStmt(stmt))
		}
	}
	return stmts, nil
}

func (p *parser) declaration() (ast.Stmt, error) {
	if p.match(token.Var) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "variable name")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.Semicolon, "';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarStmt{Name: name.Lexeme, Initializer: initializer, Line: name.Line}, nil
}

func (p *parser) statement() (ast.Stmt, error) {
	if p.match(token.Print) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Semicolon, "';' after value"); err != nil {
			return nil, err
		}
		return &ast.PrintStmt{Expr: expr}, nil
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expr: expr}, nil
}

func (p *parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}

	if p.match(token.Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: value, Line: v.Line}, nil
		}
		return nil, p.createError(types.InvalidAssignmentTargetTag, equals, fmt.Errorf("invalid assignment target"))
	}

	return expr, nil
}

// binaryLevel parses one left-associative precedence level: an operand of
// the next level followed by any number of (operator, operand) pairs.
func (p *parser) binaryLevel(next func() (ast.Expr, error), operators ...token.Type) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}

	for p.match(operators...) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: operator.Type, Right: right, Line: operator.Line}
	}
	return expr, nil
}

func (p *parser) equality() (ast.Expr, error) {
	return p.binaryLevel(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *parser) comparison() (ast.Expr, error) {
	return p.binaryLevel(p.addition, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *parser) addition() (ast.Expr, error) {
	return p.binaryLevel(p.multiplication, token.Minus, token.Plus)
}

func (p *parser) multiplication() (ast.Expr, error) {
	return p.binaryLevel(p.unary, token.Slash, token.Star)
}

func (p *parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: operator.Type, Operand: operand, Line: operator.Line}, nil
	}
	return p.primary()
}

func (p *parser) primary() (ast.Expr, error) {
	switch tok := p.peek(); tok.Type {
	case token.False:
		p.advance()
		return &ast.BooleanLiteral{Value: false}, nil
	case token.True:
		p.advance()
		return &ast.BooleanLiteral{Value: true}, nil
	case token.Nil:
		p.advance()
		return &ast.NilLiteral{}, nil
	case token.String:
		p.advance()
		return &ast.StringLiteral{Value: tok.Literal}, nil
	case token.Number:
		p.advance()
		// out of range literals keep the ±Inf or 0 that ParseFloat rounds them to
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, p.createError(types.InvalidNumberTag, tok, fmt.Errorf("invalid number %s: %w", tok.Lexeme, err))
		}
		return &ast.NumberLiteral{Value: v}, nil
	case token.LeftParen:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "')' after expression"); err != nil {
			return nil, err
		}
		return &ast.Grouping{Inner: expr}, nil
	case token.Identifier:
		p.advance()
		return &ast.Variable{Name: tok.Lexeme, Line: tok.Line}, nil
	case token.Unknown:
		return nil, p.createUnknownTokenError(tok)
	default:
		return nil, p.createError(types.ExpectedExpressionTag, tok, fmt.Errorf("expected expression but got %s", describe(tok)))
	}
}

func (p *parser) match(candidates ...token.Type) bool {
	if p.isAtEnd() || !lo.Contains(candidates, p.peek().Type) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(typ token.Type, expected string) (token.Token, error) {
	if tok := p.peek(); tok.Type == typ {
		return p.advance(), nil
	} else if tok.Type == token.Unknown {
		return token.Token{}, p.createUnknownTokenError(tok)
	} else {
		return token.Token{}, p.createError(types.UnexpectedTokenTag, tok, fmt.Errorf("expected %s but got %s", expected, describe(tok)))
	}
}

func (p *parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *parser) createError(tag types.ErrorTag, tok token.Token, err error) error {
	if p.debug {
		log.Printf("error at token %v: %v", tok, err)
	}
	return &types.Error{
		Phase: types.ParsePhase,
		Tag:   tag,
		Line:  tok.Line,
		Err:   err,
	}
}

func (p *parser) createUnknownTokenError(tok token.Token) error {
	if len(tok.Lexeme) != 0 && tok.Lexeme[0] == '"' {
		return p.createError(types.UnterminatedStringTag, tok, fmt.Errorf("unterminated string"))
	}
	return p.createError(types.UnrecognizedCharacterTag, tok, fmt.Errorf("unrecognized character %q", tok.Lexeme))
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.Identifier, token.Number:
		return fmt.Sprintf("%s %s", tok.Type.Describe(), tok.Lexeme)
	case token.String:
		return fmt.Sprintf("string %s", tok.Lexeme)
	default:
		return tok.Type.Describe()
	}
}
