// Package parser turns the tokens of one program line into an ast.Line.
//
// It is a recursive-descent parser over an immutable token slice. The parser
// reads tokens[index+lookahead]; optional continuations save the lookahead
// with mark and put it back with reset when they do not match, so a failed
// attempt leaves the cursor exactly where it started.
package parser

import (
	"github.com/coreos/pkg/capnslog"

	"github.com/pontaoski/tinybasic/ast"
	"github.com/pontaoski/tinybasic/config"
	"github.com/pontaoski/tinybasic/errors"
	"github.com/pontaoski/tinybasic/lexer"
	"github.com/pontaoski/tinybasic/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tinybasic", "parser")

type Parser struct {
	tokens    []types.Token
	index     int
	lookahead int

	// last continuation rolled back at each lookahead, reported as the
	// cause of whatever stops at that token
	abandoned map[int]error
}

func NewParser(tokens []types.Token) *Parser {
	return &Parser{tokens: tokens, abandoned: map[int]error{}}
}

// Parse parses exactly one line and requires every token to be consumed.
func Parse(tokens []types.Token) (*ast.Line, error) {
	return NewParser(tokens).ParseLine()
}

// ParseSource tokenizes and parses a single line of source.
func ParseSource(source string, cfg *config.Config) (*ast.Line, error) {
	tokens, err := lexer.Tokenize(source, cfg)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (p *Parser) ParseLine() (*ast.Line, error) {
	line, err := p.line()
	if err != nil {
		plog.Debugf("parse failed: %v", err)
		return nil, err
	}
	return line, nil
}

func (p *Parser) cursor() int { return p.index + p.lookahead }

func (p *Parser) current() (types.Token, bool) {
	if p.cursor() >= len(p.tokens) {
		return types.Token{}, false
	}
	return p.tokens[p.cursor()], true
}

func (p *Parser) currentIs(k ...types.TokenKind) (types.Token, bool) {
	tok, ok := p.current()
	if !ok {
		return tok, false
	}
	for _, kind := range k {
		if tok.Kind == kind {
			return tok, true
		}
	}
	return tok, false
}

func (p *Parser) advance() { p.lookahead++ }

func (p *Parser) mark() int { return p.lookahead }

func (p *Parser) reset(m int) { p.lookahead = m }

// rollback abandons an optional continuation that started at m.
func (p *Parser) rollback(m int, err error) {
	plog.Tracef("rolling back to token %d: %v", p.index+m, err)
	p.abandoned[m] = err
	p.reset(m)
}

// eofSpan points just past the last token.
func (p *Parser) eofSpan() types.Span {
	if len(p.tokens) == 0 {
		return types.Span{}
	}
	end := p.tokens[len(p.tokens)-1].Location.To
	end.Column++
	return types.SingleCharSpan(end)
}

func operatorOf(k types.TokenKind) ast.Operator {
	switch k {
	case types.PLUS:
		return ast.Plus
	case types.MINUS:
		return ast.Minus
	case types.STAR:
		return ast.Times
	case types.SLASH:
		return ast.Divide
	}
	return ast.NoOp
}

// line ::= [number] statement
func (p *Parser) line() (*ast.Line, error) {
	ret := &ast.Line{}

	if tok, ok := p.currentIs(types.NUMBER); ok {
		n := tok.Number
		ret.Number = &n
		p.advance()
	}

	stmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	ret.Statement = stmt

	if tok, ok := p.current(); ok {
		trailing := errors.TrailingTokens{
			Got:      tok,
			Rule:     "line",
			Cursor:   p.cursor(),
			Location: tok.Location,
		}
		trailing.Cause = p.abandoned[p.lookahead]
		return nil, trailing
	}

	return ret, nil
}

// statement ::= RESERVED payload
func (p *Parser) statement() (ast.Statement, error) {
	tok, ok := p.current()
	if !ok {
		return nil, errors.InvalidStatement{
			Rule:     "statement",
			Cursor:   p.cursor(),
			Location: p.eofSpan(),
		}
	}
	if tok.Kind != types.RESERVED {
		return nil, errors.InvalidStatement{
			Got:      &tok,
			Rule:     "statement",
			Cursor:   p.cursor(),
			Location: tok.Location,
		}
	}

	switch tok.Keyword {
	case types.GOTO:
		start := p.mark()
		p.advance()
		target, err := p.expression()
		if err != nil {
			p.reset(start)
			return nil, err
		}
		return ast.Goto{Target: target}, nil
	}

	return nil, errors.UnsupportedStatement{
		Keyword:  tok.Keyword,
		Rule:     "statement",
		Cursor:   p.cursor(),
		Location: tok.Location,
	}
}

// expression ::= ('+' | '-' | ε) term (('+' | '-') term)*
func (p *Parser) expression() (ast.Expression, error) {
	var ret ast.Expression
	start := p.mark()

	if sign, ok := p.currentIs(types.PLUS, types.MINUS); ok {
		p.advance()
		first, err := p.term()
		if err != nil {
			p.reset(start)
			return ast.Expression{}, errors.InvalidTerm{
				Rule:     "expression",
				Cursor:   p.index + start,
				Location: sign.Location,
				Cause:    err,
			}
		}
		first.Op = operatorOf(sign.Kind)
		ret.Terms = append(ret.Terms, first)
	} else {
		first, err := p.term()
		if err != nil {
			return ast.Expression{}, err
		}
		ret.Terms = append(ret.Terms, first)
	}

	for {
		m := p.mark()
		op, ok := p.currentIs(types.PLUS, types.MINUS)
		if !ok {
			break
		}
		p.advance()
		next, err := p.term()
		if err != nil {
			p.rollback(m, err)
			break
		}
		next.Op = operatorOf(op.Kind)
		ret.Terms = append(ret.Terms, next)
	}

	return ret, nil
}

// term ::= factor (('*' | '/') factor)*
func (p *Parser) term() (ast.Term, error) {
	first, err := p.factor()
	if err != nil {
		return ast.Term{}, err
	}
	ret := ast.Term{Factors: []ast.Factor{first}}

	for {
		m := p.mark()
		op, ok := p.currentIs(types.STAR, types.SLASH)
		if !ok {
			break
		}
		p.advance()
		next, err := p.factor()
		if err != nil {
			p.rollback(m, err)
			break
		}
		next.Op = operatorOf(op.Kind)
		ret.Factors = append(ret.Factors, next)
	}

	return ret, nil
}

// factor ::= NUMBER | VAR | '(' expression ')'
func (p *Parser) factor() (ast.Factor, error) {
	tok, ok := p.current()
	if !ok {
		return ast.Factor{}, errors.UnexpectedEOF{
			Rule:     "factor",
			Cursor:   p.cursor(),
			Location: p.eofSpan(),
		}
	}

	switch tok.Kind {
	case types.NUMBER:
		p.advance()
		return ast.Factor{Operand: ast.Number(tok.Number)}, nil
	case types.VAR:
		p.advance()
		return ast.Factor{Operand: ast.Var(tok.Var)}, nil
	case types.LPAREN:
		start := p.mark()
		p.advance()
		inner, err := p.expression()
		if err != nil {
			p.reset(start)
			return ast.Factor{}, err
		}
		if _, ok := p.currentIs(types.RPAREN); !ok {
			cause := p.abandoned[p.lookahead]
			p.reset(start)
			return ast.Factor{}, errors.UnbalancedBrackets{
				Rule:     "factor",
				Cursor:   p.index + start,
				Location: tok.Location,
				Cause:    cause,
			}
		}
		p.advance()
		return ast.Factor{Operand: ast.Paren{Inner: &inner}}, nil
	}

	return ast.Factor{}, errors.InvalidFactor{
		Got:      tok,
		Rule:     "factor",
		Cursor:   p.cursor(),
		Location: tok.Location,
	}
}
