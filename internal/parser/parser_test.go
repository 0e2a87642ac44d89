package parser_test

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/golox/internal/ast"
	"github.com/karupanerura/golox/internal/lexer"
	"github.com/karupanerura/golox/internal/parser"
	"github.com/karupanerura/golox/internal/token"
	"github.com/karupanerura/golox/internal/types"
)

func render(stmts []ast.Stmt) []string {
	result := make([]string, len(stmts))
	for i, stmt := range stmts {
		result[i] = ast.RenderStmt(stmt)
	}
	return result
}

func TestParse(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source   string
		expected []string
	}{
		{source: "", expected: []string{}},
		{source: "// only a comment", expected: []string{}},
		{source: "1;", expected: []string{"(expr 1)"}},
		{source: `"s";`, expected: []string{`(expr "s")`}},
		{source: "true; false; nil;", expected: []string{"(expr true)", "(expr false)", "(expr nil)"}},
		{source: "print 1 + 2 * 3;", expected: []string{"(print (+ 1 (* 2 3)))"}},
		{source: "print (1 + 2) * 3;", expected: []string{"(print (* (group (+ 1 2)) 3))"}},
		{source: "1 - 2 - 3;", expected: []string{"(expr (- (- 1 2) 3))"}},
		{source: "8 / 4 / 2;", expected: []string{"(expr (/ (/ 8 4) 2))"}},
		{source: "1 < 2 == 3 >= 4;", expected: []string{"(expr (== (< 1 2) (>= 3 4)))"}},
		{source: "1 != 2 == 3;", expected: []string{"(expr (== (!= 1 2) 3))"}},
		{source: "-1 + 2;", expected: []string{"(expr (+ (- 1) 2))"}},
		{source: "!!true;", expected: []string{"(expr (! (! true)))"}},
		{source: "- -x;", expected: []string{"(expr (- (- x)))"}},
		{source: "a * -b <= c;", expected: []string{"(expr (<= (* a (- b)) c))"}},
		{source: "var x;", expected: []string{"(var x)"}},
		{source: "var x = 5;", expected: []string{"(var x 5)"}},
		{source: "x = x + 1;", expected: []string{"(expr (= x (+ x 1)))"}},
		{source: "a = b = c;", expected: []string{"(expr (= a (= b c)))"}},
		{source: "var x = 5; x = x + 1; print x;", expected: []string{"(var x 5)", "(expr (= x (+ x 1)))", "(print x)"}},
		{source: "((1));", expected: []string{"(expr (group (group 1)))"}},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			stmts, err := parser.ParseSource(tt.source)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, render(stmts)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source  string
		tag     types.ErrorTag
		line    int
		message string
	}{
		{
			source:  "1 = 2;",
			tag:     types.InvalidAssignmentTargetTag,
			line:    1,
			message: "Parse error: invalid assignment target at line 1",
		},
		{
			source: "(a) = 2;",
			tag:    types.InvalidAssignmentTargetTag,
			line:   1,
		},
		{
			source: "a + b = 2;",
			tag:    types.InvalidAssignmentTargetTag,
			line:   1,
		},
		{
			source:  "print 1",
			tag:     types.UnexpectedTokenTag,
			line:    1,
			message: "Parse error: expected ';' after value but got end of input at line 1",
		},
		{
			source:  "1;\n2",
			tag:     types.UnexpectedTokenTag,
			line:    2,
			message: "Parse error: expected ';' after expression but got end of input at line 2",
		},
		{
			source:  "var = 1;",
			tag:     types.UnexpectedTokenTag,
			line:    1,
			message: "Parse error: expected variable name but got '=' at line 1",
		},
		{
			source: "var x = 1",
			tag:    types.UnexpectedTokenTag,
			line:   1,
		},
		{
			source:  "(1 + 2;",
			tag:     types.UnexpectedTokenTag,
			line:    1,
			message: "Parse error: expected ')' after expression but got ';' at line 1",
		},
		{
			source:  "1 +;",
			tag:     types.ExpectedExpressionTag,
			line:    1,
			message: "Parse error: expected expression but got ';' at line 1",
		},
		{
			source: ";",
			tag:    types.ExpectedExpressionTag,
			line:   1,
		},
		{
			source:  "print;",
			tag:     types.ExpectedExpressionTag,
			line:    1,
			message: "Parse error: expected expression but got ';' at line 1",
		},
		{
			source: "if;",
			tag:    types.ExpectedExpressionTag,
			line:   1,
		},
		{
			source:  "1 2;",
			tag:     types.UnexpectedTokenTag,
			line:    1,
			message: "Parse error: expected ';' after expression but got number 2 at line 1",
		},
		{
			source:  "1.;",
			tag:     types.UnexpectedTokenTag,
			line:    1,
			message: "Parse error: expected ';' after expression but got '.' at line 1",
		},
		{
			source:  "print @;",
			tag:     types.UnrecognizedCharacterTag,
			line:    1,
			message: `Parse error: unrecognized character "@" at line 1`,
		},
		{
			source: "1 # 2;",
			tag:    types.UnrecognizedCharacterTag,
			line:   1,
		},
		{
			source:  "\nprint \"abc;",
			tag:     types.UnterminatedStringTag,
			line:    2,
			message: "Parse error: unterminated string at line 2",
		},
		{
			source: "print 1; print 2 print 3;",
			tag:    types.UnexpectedTokenTag,
			line:   1,
		},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			stmts, err := parser.ParseSource(tt.source)
			if err == nil {
				t.Fatalf("expected error, got %v", render(stmts))
			}
			if stmts != nil {
				t.Errorf("partial result must not be returned: %v", render(stmts))
			}

			var perr *types.Error
			if !errors.As(err, &perr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if perr.Phase != types.ParsePhase {
				t.Errorf("phase: want %v, got %v", types.ParsePhase, perr.Phase)
			}
			if perr.Tag != tt.tag {
				t.Errorf("tag: want %s, got %s (%v)", tt.tag, perr.Tag, err)
			}
			if perr.Line != tt.line {
				t.Errorf("line: want %d, got %d", tt.line, perr.Line)
			}
			if tt.message != "" && err.Error() != tt.message {
				t.Errorf("message: want %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestParseNumberLiteral(t *testing.T) {
	t.Parallel()

	for _, source := range []string{"0", "7", "42", "3.14", "0.5", "10.25", "123456789012345678", "00012", "1.000001"} {
		stmts, err := parser.ParseSource(source + ";")
		if err != nil {
			t.Errorf("%s: unexpected error: %v", source, err)
			continue
		}
		if len(stmts) != 1 {
			t.Errorf("%s: want 1 statement, got %d", source, len(stmts))
			continue
		}

		stmt, ok := stmts[0].(*ast.ExpressionStmt)
		if !ok {
			t.Errorf("%s: unexpected statement %T", source, stmts[0])
			continue
		}
		lit, ok := stmt.Expr.(*ast.NumberLiteral)
		if !ok {
			t.Errorf("%s: unexpected expression %T", source, stmt.Expr)
			continue
		}

		expected, _ := strconv.ParseFloat(source, 64)
		if lit.Value != expected {
			t.Errorf("%s: want %v, got %v", source, expected, lit.Value)
		}
	}
}

func TestParseOutOfRangeNumberLiteral(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source   string
		expected float64
	}{
		{source: strings.Repeat("9", 400), expected: math.Inf(1)},
		{source: "0." + strings.Repeat("0", 400) + "1", expected: 0},
	} {
		stmts, err := parser.ParseSource(tt.source + ";")
		if err != nil {
			t.Errorf("%.20s...: unexpected error: %v", tt.source, err)
			continue
		}

		lit, ok := stmts[0].(*ast.ExpressionStmt).Expr.(*ast.NumberLiteral)
		if !ok {
			t.Errorf("%.20s...: unexpected expression %T", tt.source, stmts[0].(*ast.ExpressionStmt).Expr)
			continue
		}
		if lit.Value != tt.expected {
			t.Errorf("%.20s...: want %v, got %v", tt.source, tt.expected, lit.Value)
		}
	}
}

func TestParseLines(t *testing.T) {
	t.Parallel()

	stmts, err := parser.ParseSource("var a = 1;\n\na =\n-b;")
	if err != nil {
		t.Fatal(err)
	}

	decl := stmts[0].(*ast.VarStmt)
	if decl.Line != 1 {
		t.Errorf("var line: want 1, got %d", decl.Line)
	}

	assign := stmts[1].(*ast.ExpressionStmt).Expr.(*ast.Assign)
	if assign.Line != 3 {
		t.Errorf("assign line: want 3, got %d", assign.Line)
	}
	neg := assign.Value.(*ast.Unary)
	if neg.Line != 4 || neg.Operator != token.Minus {
		t.Errorf("unary: want line 4 '-', got line %d %v", neg.Line, neg.Operator)
	}
}

func TestParseWithoutTrailingEOF(t *testing.T) {
	t.Parallel()

	tokens := lexer.Scan("print 1;")
	stmts, err := parser.Parse(tokens[:len(tokens)-1])
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"(print 1)"}, render(stmts)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Errorf("empty token list: unexpected error: %v", err)
	}
}

func TestParseWithDebugOutput(t *testing.T) {
	t.Parallel()

	stmts, err := parser.ParseWithDebugOutput(lexer.Scan("print 1 / 0;"))
	if err != nil {
		t.Fatal(err)
	}
	bin := stmts[0].(*ast.PrintStmt).Expr.(*ast.Binary)
	if bin.Operator != token.Slash || bin.Right.(*ast.NumberLiteral).Value != 0 {
		t.Errorf("unexpected tree: %s", ast.RenderStmt(stmts[0]))
	}
}
