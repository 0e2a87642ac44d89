package lexer

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/karupanerura/golox/internal/token"
)

// Scan tokenizes source. It never fails: characters it cannot classify become
// token.Unknown tokens and are rejected by the parser. The result always ends
// with a token.EOF token.
func Scan(source string) []token.Token {
	lex := newLexer(source)

	var tokens []token.Token
	for {
		tok, err := lex.consume()
		if err == io.EOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return append(tokens, token.Token{Type: token.EOF, Line: lex.line, Pos: len(source)})
}

type lexer struct {
	source string
	index  int
	line   int
	stack  []lexerContext
}

func newLexer(source string) *lexer {
	return &lexer{
		source: source,
		index:  0,
		line:   1,
		stack: []lexerContext{
			{kind: defaultLexerContext},
		},
	}
}

type lexerContextKind int

const (
	defaultLexerContext lexerContextKind = iota
	stringLiteralLexerContext
	numericLiteralLexerContext
	symbolLiteralLexerContext
	commentLexerContext
)

type lexerContext struct {
	kind            lexerContextKind
	rangeBeginsIdx  int
	rangeBeginsLine int
	dotFound        bool
}

var singleCharTokens = map[byte]token.Type{
	'(': token.LeftParen,
	')': token.RightParen,
	'{': token.LeftBrace,
	'}': token.RightBrace,
	',': token.Comma,
	'.': token.Dot,
	'-': token.Minus,
	'+': token.Plus,
	';': token.Semicolon,
	'*': token.Star,
}

// oneOrTwoCharTokens maps a prefix character to its lone type and the type it
// takes when followed by '='.
var oneOrTwoCharTokens = map[byte][2]token.Type{
	'!': {token.Bang, token.BangEqual},
	'=': {token.Equal, token.EqualEqual},
	'<': {token.Less, token.LessEqual},
	'>': {token.Greater, token.GreaterEqual},
}

func (l *lexer) push(kind lexerContextKind) {
	l.stack = append(l.stack, lexerContext{kind: kind, rangeBeginsIdx: l.index, rangeBeginsLine: l.line})
}

func (l *lexer) pop() lexerContext {
	context := l.stack[len(l.stack)-1]
	l.stack = l.stack[:len(l.stack)-1]
	return context
}

func (l *lexer) peekNext() byte {
	if l.index+1 >= len(l.source) {
		return 0
	}
	return l.source[l.index+1]
}

func (l *lexer) emit(typ token.Type, begins int, line int, literal string) token.Token {
	return token.Token{
		Type:    typ,
		Lexeme:  l.source[begins:l.index],
		Literal: literal,
		Line:    line,
		Pos:     begins,
	}
}

// consume returns the next token, or io.EOF once the source is exhausted.
func (l *lexer) consume() (token.Token, error) {
	if len(l.stack) == 0 {
		panic(fmt.Sprintf("should not reach here: source=%q", l.source))
	}

	for l.index != len(l.source) {
		context := &l.stack[len(l.stack)-1]
		c := l.source[l.index]

		switch context.kind {
		case defaultLexerContext:
			switch {
			case c == ' ' || c == '\t' || c == '\r':
				l.index++
			case c == '\n':
				l.line++
				l.index++
			case c == '"':
				l.push(stringLiteralLexerContext)
				l.index++
			case isDigit(c):
				l.push(numericLiteralLexerContext)
				l.index++
			case isAlpha(c):
				l.push(symbolLiteralLexerContext)
				l.index++
			case c == '/':
				if l.peekNext() == '/' {
					l.push(commentLexerContext)
					l.index += 2
					continue
				}
				l.index++
				return l.emit(token.Slash, l.index-1, l.line, ""), nil
			default:
				if typ, ok := singleCharTokens[c]; ok {
					l.index++
					return l.emit(typ, l.index-1, l.line, ""), nil
				}
				if pair, ok := oneOrTwoCharTokens[c]; ok {
					if l.peekNext() == '=' {
						l.index += 2
						return l.emit(pair[1], l.index-2, l.line, ""), nil
					}
					l.index++
					return l.emit(pair[0], l.index-1, l.line, ""), nil
				}

				begins := l.index
				_, size := utf8.DecodeRuneInString(l.source[l.index:])
				l.index += size
				return l.emit(token.Unknown, begins, l.line, ""), nil
			}

		case stringLiteralLexerContext:
			switch c {
			case '"':
				l.index++
				l.pop()
				return l.emit(token.String, context.rangeBeginsIdx, context.rangeBeginsLine, l.source[context.rangeBeginsIdx+1:l.index-1]), nil
			case '\n':
				l.line++
			}
			l.index++

		case numericLiteralLexerContext:
			if isDigit(c) {
				l.index++
				continue
			}
			if c == '.' && !context.dotFound && isDigit(l.peekNext()) {
				context.dotFound = true
				l.index++
				continue
			}
			l.pop()
			return l.emit(token.Number, context.rangeBeginsIdx, context.rangeBeginsLine, l.source[context.rangeBeginsIdx:l.index]), nil

		case symbolLiteralLexerContext:
			if isAlpha(c) || isDigit(c) {
				l.index++
				continue
			}
			l.pop()
			return l.emitSymbol(*context), nil

		case commentLexerContext:
			if c == '\n' {
				// the newline itself is left for the default context to count
				l.pop()
				continue
			}
			l.index++
		}
	}

	return l.flush()
}

// flush closes whatever context is still open at the end of the source.
func (l *lexer) flush() (token.Token, error) {
	switch context := l.stack[len(l.stack)-1]; context.kind {
	case defaultLexerContext:
		return token.Token{}, io.EOF
	case commentLexerContext:
		l.pop()
		return token.Token{}, io.EOF
	case stringLiteralLexerContext:
		// unterminated: hand the remainder to the parser as an unknown token
		l.pop()
		return l.emit(token.Unknown, context.rangeBeginsIdx, context.rangeBeginsLine, ""), nil
	case numericLiteralLexerContext:
		l.pop()
		return l.emit(token.Number, context.rangeBeginsIdx, context.rangeBeginsLine, l.source[context.rangeBeginsIdx:l.index]), nil
	case symbolLiteralLexerContext:
		l.pop()
		return l.emitSymbol(context), nil
	default:
		panic(fmt.Sprintf("should not reach here: source=%q", l.source))
	}
}

func (l *lexer) emitSymbol(context lexerContext) token.Token {
	lexeme := l.source[context.rangeBeginsIdx:l.index]
	return l.emit(token.LookupIdent(lexeme), context.rangeBeginsIdx, context.rangeBeginsLine, "")
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}
