package lexer

import (
	"bufio"
	"io"
	"math"
	"strings"

	"github.com/coreos/pkg/capnslog"

	"github.com/pontaoski/tinybasic/config"
	"github.com/pontaoski/tinybasic/errors"
	"github.com/pontaoski/tinybasic/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tinybasic", "lexer")

type Lexer struct {
	pos    types.Position
	reader *bufio.Reader
	cfg    *config.Config
	// column before the last newline, so a backup over '\n' restores it
	lastColumn int
}

func NewLexer(reader io.Reader, filename string, cfg *config.Config) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
		cfg:    cfg,
	}
}

// Tokenize lexes a whole line. Any error discards the tokens read so far.
func Tokenize(source string, cfg *config.Config) ([]types.Token, error) {
	l := NewLexer(strings.NewReader(source), "", cfg)

	var tokens []types.Token
	for {
		tok, err := l.Lex()
		if err == io.EOF {
			break
		}
		if err != nil {
			plog.Debugf("lexing %q failed: %v", source, err)
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	plog.Debugf("lexed %d tokens from %q", len(tokens), source)
	return tokens, nil
}

func (l *Lexer) read() (rune, bool, error) {
	r, _, err := l.reader.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if r == '\n' {
		l.lastColumn = l.pos.Column
		l.pos.Line++
		l.pos.Column = 0
	} else {
		l.pos.Column++
	}
	return r, true, nil
}

func (l *Lexer) backup(r rune) {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}
	if r == '\n' {
		l.pos.Line--
		l.pos.Column = l.lastColumn
	} else {
		l.pos.Column--
	}
}

// peek reads one rune ahead and unreads it again.
func (l *Lexer) peek() (rune, bool, error) {
	r, ok, err := l.read()
	if err != nil || !ok {
		return 0, ok, err
	}
	l.backup(r)
	return r, true, nil
}

func (l *Lexer) kinded(t types.TokenKind, from types.Position) types.Token {
	return types.Token{
		Kind:     t,
		Location: types.Span{From: from, To: l.pos},
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Lex returns the next token, or io.EOF once the input is exhausted.
func (l *Lexer) Lex() (types.Token, error) {
	for {
		r, ok, err := l.read()
		if err != nil {
			return types.Token{}, err
		}
		if !ok {
			return types.Token{}, io.EOF
		}

		from := l.pos

		switch {
		case r == '\n':
			continue
		case r == ' ' || r == '\t' || r == '\r':
			continue
		case isLetter(r):
			return l.lexIdent(r, from)
		case isDigit(r):
			return l.lexNumber(r, from)
		}

		data := map[rune]types.TokenKind{
			'(': types.LPAREN,
			')': types.RPAREN,
			'+': types.PLUS,
			'-': types.MINUS,
			'*': types.STAR,
			'/': types.SLASH,
		}

		if kind, ok := data[r]; ok {
			return l.kinded(kind, from), nil
		}

		switch r {
		case '"':
			return l.lexString(from)
		case '=':
			return l.relop(types.Equal, from), nil
		case '<':
			return l.lexAngle(from, map[rune]types.Relop{
				'=': types.LessThanOrEqual,
				'>': types.NotEqual,
			}, types.LessThan)
		case '>':
			return l.lexAngle(from, map[rune]types.Relop{
				'=': types.GreaterThanOrEqual,
				'<': types.NotEqual,
			}, types.GreaterThan)
		}

		return types.Token{}, errors.UnknownCharacter{
			Char:     r,
			Location: types.SingleCharSpan(from),
		}
	}
}

func (l *Lexer) relop(op types.Relop, from types.Position) types.Token {
	tok := l.kinded(types.RELOP, from)
	tok.Relop = op
	return tok
}

// lexAngle handles '<' and '>'. The peeked rune is only consumed when it
// forms a two character operator.
func (l *Lexer) lexAngle(from types.Position, pairs map[rune]types.Relop, single types.Relop) (types.Token, error) {
	next, ok, err := l.peek()
	if err != nil {
		return types.Token{}, err
	}
	if ok {
		if op, paired := pairs[next]; paired {
			if _, _, err := l.read(); err != nil {
				return types.Token{}, err
			}
			return l.relop(op, from), nil
		}
	}
	return l.relop(single, from), nil
}

func (l *Lexer) lexIdent(first rune, from types.Position) (types.Token, error) {
	var sb strings.Builder
	sb.WriteRune(first)

	for {
		r, ok, err := l.read()
		if err != nil {
			return types.Token{}, err
		}
		if !ok {
			break
		}
		if !isLetter(r) {
			l.backup(r)
			break
		}
		sb.WriteRune(r)
	}

	lit := sb.String()
	if len(lit) == 1 {
		tok := l.kinded(types.VAR, from)
		tok.Var = first
		return tok, nil
	}

	kw, ok := types.LookupKeyword(lit)
	if !ok {
		return types.Token{}, errors.UnknownIdentifier{
			Name:     lit,
			Location: types.Span{From: from, To: l.pos},
		}
	}

	tok := l.kinded(types.RESERVED, from)
	tok.Keyword = kw
	return tok, nil
}

func (l *Lexer) lexNumber(first rune, from types.Position) (types.Token, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	value := uint64(first - '0')
	overflow := false

	for {
		r, ok, err := l.read()
		if err != nil {
			return types.Token{}, err
		}
		if !ok {
			break
		}
		if !isDigit(r) {
			l.backup(r)
			break
		}
		sb.WriteRune(r)
		if !overflow {
			value = value*10 + uint64(r-'0')
			overflow = value > math.MaxUint32
		}
	}

	tok := l.kinded(types.NUMBER, from)
	if overflow {
		if !l.cfg.Saturates() {
			return types.Token{}, errors.NumberOverflow{
				Literal:  sb.String(),
				Location: tok.Location,
			}
		}
		plog.Warningf("number %s saturated to %d", sb.String(), uint32(math.MaxUint32))
		value = math.MaxUint32
	}
	tok.Number = uint32(value)
	return tok, nil
}

// lexString is called after the opening quote. No escapes are processed.
func (l *Lexer) lexString(from types.Position) (types.Token, error) {
	var sb strings.Builder

	for {
		r, ok, err := l.read()
		if err != nil {
			return types.Token{}, err
		}
		if !ok {
			if !l.cfg.IsLenientStrings() {
				return types.Token{}, errors.UnterminatedString{
					Location: types.Span{From: from, To: l.pos},
				}
			}
			break
		}
		if r == '"' {
			break
		}
		sb.WriteRune(r)
	}

	tok := l.kinded(types.STRING, from)
	tok.Text = sb.String()
	return tok, nil
}
