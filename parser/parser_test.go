package parser

import (
	stderrors "errors"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/google/go-cmp/cmp"

	"github.com/pontaoski/tinybasic/ast"
	"github.com/pontaoski/tinybasic/errors"
	"github.com/pontaoski/tinybasic/lexer"
	"github.com/pontaoski/tinybasic/types"
)

func lineNo(n uint32) *uint32 { return &n }

func single(o ast.Operand) ast.Expression {
	return ast.Expression{Terms: []ast.Term{{Factors: []ast.Factor{{Operand: o}}}}}
}

func mustTokenize(t *testing.T, src string) []types.Token {
	t.Helper()
	tokens, err := lexer.Tokenize(src, nil)
	if err != nil {
		t.Fatalf("Tokenize(%q) error = %v", src, err)
	}
	return tokens
}

func TestParse(t *testing.T) {
	onePlusTwo := ast.Expression{Terms: []ast.Term{
		{Factors: []ast.Factor{{Operand: ast.Number(1)}}},
		{Op: ast.Plus, Factors: []ast.Factor{{Operand: ast.Number(2)}}},
	}}

	tests := []struct {
		name  string
		input string
		want  *ast.Line
	}{
		{
			name:  "numbered goto",
			input: "1 goto 1",
			want:  &ast.Line{Number: lineNo(1), Statement: ast.Goto{Target: single(ast.Number(1))}},
		},
		{
			name:  "unnumbered goto",
			input: "goto 1",
			want:  &ast.Line{Statement: ast.Goto{Target: single(ast.Number(1))}},
		},
		{
			name:  "variable target",
			input: "20 GOTO x",
			want:  &ast.Line{Number: lineNo(20), Statement: ast.Goto{Target: single(ast.Var('x'))}},
		},
		{
			name:  "unary minus",
			input: "GOTO -A+3",
			want: &ast.Line{Statement: ast.Goto{Target: ast.Expression{Terms: []ast.Term{
				{Op: ast.Minus, Factors: []ast.Factor{{Operand: ast.Var('A')}}},
				{Op: ast.Plus, Factors: []ast.Factor{{Operand: ast.Number(3)}}},
			}}}},
		},
		{
			name:  "precedence",
			input: "GOTO 1+2*3/A-4",
			want: &ast.Line{Statement: ast.Goto{Target: ast.Expression{Terms: []ast.Term{
				{Factors: []ast.Factor{{Operand: ast.Number(1)}}},
				{Op: ast.Plus, Factors: []ast.Factor{
					{Operand: ast.Number(2)},
					{Op: ast.Times, Operand: ast.Number(3)},
					{Op: ast.Divide, Operand: ast.Var('A')},
				}},
				{Op: ast.Minus, Factors: []ast.Factor{{Operand: ast.Number(4)}}},
			}}}},
		},
		{
			name:  "brackets",
			input: "100 GOTO (1+2)*10",
			want: &ast.Line{Number: lineNo(100), Statement: ast.Goto{Target: ast.Expression{Terms: []ast.Term{
				{Factors: []ast.Factor{
					{Operand: ast.Paren{Inner: &onePlusTwo}},
					{Op: ast.Times, Operand: ast.Number(10)},
				}},
			}}}},
		},
		{
			name:  "nested brackets",
			input: "GOTO ((7))",
			want: &ast.Line{Statement: ast.Goto{Target: single(ast.Paren{Inner: &ast.Expression{
				Terms: []ast.Term{{Factors: []ast.Factor{{Operand: ast.Paren{Inner: &ast.Expression{
					Terms: []ast.Term{{Factors: []ast.Factor{{Operand: ast.Number(7)}}}},
				}}}}}},
			}})}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(mustTokenize(t, tt.input))
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s\ngot: %s", tt.input, diff, repr.String(got))
			}
		})
	}
}

func TestParseIsRepeatable(t *testing.T) {
	tokens := mustTokenize(t, "10 GOTO (A-1)*(B+2)/-3")
	first, err := Parse(tokens)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second parse differs (-first +second):\n%s", diff)
	}
}

func TestFactorBrackets(t *testing.T) {
	p := NewParser(mustTokenize(t, "(1+2)"))
	f, err := p.factor()
	if err != nil {
		t.Fatalf("factor() error = %v", err)
	}
	paren, ok := f.Operand.(ast.Paren)
	if !ok {
		t.Fatalf("factor() operand = %s, want ast.Paren", repr.String(f.Operand))
	}
	if got, want := len(paren.Inner.Terms), 2; got != want {
		t.Errorf("inner terms: got %d want %d", got, want)
	}
	if got, want := p.cursor(), 5; got != want {
		t.Errorf("cursor after factor: got %d want %d", got, want)
	}

	p = NewParser(mustTokenize(t, "(1+2"))
	_, err = p.factor()
	var unbalanced errors.UnbalancedBrackets
	if !stderrors.As(err, &unbalanced) {
		t.Fatalf("factor() error = %v, want UnbalancedBrackets", err)
	}
	if got, want := p.cursor(), 0; got != want {
		t.Errorf("cursor after failed factor: got %d want %d", got, want)
	}
}

func TestFailedAlternativesRestoreCursor(t *testing.T) {
	p := NewParser(mustTokenize(t, "1*+"))
	term, err := p.term()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(term.Factors), 1; got != want {
		t.Errorf("factors: got %d want %d", got, want)
	}
	if got, want := p.cursor(), 1; got != want {
		t.Errorf("cursor: got %d want %d", got, want)
	}

	p = NewParser(mustTokenize(t, "-*"))
	_, err = p.expression()
	var invalid errors.InvalidTerm
	if !stderrors.As(err, &invalid) {
		t.Fatalf("expression() error = %v, want InvalidTerm", err)
	}
	var factor errors.InvalidFactor
	if !stderrors.As(err, &factor) {
		t.Errorf("InvalidTerm should wrap InvalidFactor, got %v", invalid.Cause)
	}
	if got, want := p.cursor(), 0; got != want {
		t.Errorf("cursor: got %d want %d", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"no statement", "1 + 2", func(err error) bool {
			var e errors.InvalidStatement
			return stderrors.As(err, &e) && e.Got != nil && e.Got.Kind == types.PLUS && e.Cursor == 1
		}},
		{"variable first", "A", func(err error) bool {
			var e errors.InvalidStatement
			return stderrors.As(err, &e)
		}},
		{"only a number", "10", func(err error) bool {
			var e errors.InvalidStatement
			return stderrors.As(err, &e) && e.Got == nil
		}},
		{"empty", "", func(err error) bool {
			var e errors.InvalidStatement
			return stderrors.As(err, &e)
		}},
		{"unsupported keyword", "10 PRINT A", func(err error) bool {
			var e errors.UnsupportedStatement
			return stderrors.As(err, &e) && e.Keyword == types.PRINT
		}},
		{"missing target", "10 GOTO", func(err error) bool {
			var e errors.UnexpectedEOF
			return stderrors.As(err, &e) && e.Rule == "factor" && e.Cursor == 2
		}},
		{"sign without term", "GOTO -", func(err error) bool {
			var e errors.InvalidTerm
			var eof errors.UnexpectedEOF
			return stderrors.As(err, &e) && stderrors.As(err, &eof)
		}},
		{"bad factor", "GOTO *2", func(err error) bool {
			var e errors.InvalidFactor
			return stderrors.As(err, &e) && e.Got.Kind == types.STAR
		}},
		{"unbalanced", "GOTO (1+2", func(err error) bool {
			var e errors.UnbalancedBrackets
			return stderrors.As(err, &e) && e.Cursor == 1 && e.Location.From.Column == 6
		}},
		{"unbalanced at end", "GOTO (1+2", func(err error) bool {
			var e errors.UnbalancedBrackets
			return stderrors.As(err, &e) && e.Cause == nil
		}},
		{"bracket after dangling operator", "GOTO (1+)", func(err error) bool {
			var e errors.UnbalancedBrackets
			var bad errors.InvalidFactor
			return stderrors.As(err, &e) && e.Cursor == 1 && e.Cause != nil &&
				stderrors.As(e.Cause, &bad) && bad.Got.Kind == types.RPAREN && bad.Cursor == 4
		}},
		{"string target", `GOTO "x"`, func(err error) bool {
			var e errors.InvalidFactor
			return stderrors.As(err, &e) && e.Got.Kind == types.STRING
		}},
		{"trailing number", "1 goto 1 2", func(err error) bool {
			var e errors.TrailingTokens
			return stderrors.As(err, &e) && e.Got.Kind == types.NUMBER && e.Cursor == 3 && e.Cause == nil
		}},
		{"trailing bracket", "GOTO 1)", func(err error) bool {
			var e errors.TrailingTokens
			return stderrors.As(err, &e) && e.Got.Kind == types.RPAREN
		}},
		{"dangling operator", "GOTO 1+", func(err error) bool {
			var e errors.TrailingTokens
			var eof errors.UnexpectedEOF
			return stderrors.As(err, &e) && e.Got.Kind == types.PLUS && stderrors.As(err, &eof)
		}},
		{"continuation stopped inside brackets", "GOTO (1)+(2+)", func(err error) bool {
			var e errors.TrailingTokens
			var unbalanced errors.UnbalancedBrackets
			var bad errors.InvalidFactor
			return stderrors.As(err, &e) && e.Got.Kind == types.PLUS && e.Cursor == 4 &&
				stderrors.As(e.Cause, &unbalanced) && unbalanced.Cursor == 5 &&
				stderrors.As(unbalanced.Cause, &bad) && bad.Cursor == 8
		}},
		{"unbalanced continuation", "GOTO 1+(2", func(err error) bool {
			var e errors.TrailingTokens
			var unbalanced errors.UnbalancedBrackets
			return stderrors.As(err, &e) && stderrors.As(err, &unbalanced)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(mustTokenize(t, tt.input))
			if err == nil {
				t.Fatalf("Parse(%q) = %s, want error", tt.input, repr.String(got))
			}
			if got != nil {
				t.Errorf("Parse(%q) returned a partial tree", tt.input)
			}
			if !tt.check(err) {
				t.Errorf("Parse(%q) error = %#v", tt.input, err)
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	line, err := ParseSource("10 goto 20", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := line.String(), "10 GOTO 20"; got != want {
		t.Errorf("got %q want %q", got, want)
	}

	_, err = ParseSource("10 goto 20;", nil)
	var lexErr errors.UnknownCharacter
	if !stderrors.As(err, &lexErr) {
		t.Errorf("ParseSource error = %v, want UnknownCharacter", err)
	}
}
