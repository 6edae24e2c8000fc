package types

import (
	"fmt"
	"strings"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	ILLEGAL TokenKind = iota

	VAR
	RESERVED
	NUMBER
	STRING
	RELOP

	LPAREN
	RPAREN

	PLUS
	MINUS
	STAR
	SLASH
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		ILLEGAL:  "ILLEGAL",
		VAR:      "VAR",
		RESERVED: "RESERVED",
		NUMBER:   "NUMBER",
		STRING:   "STRING",
		RELOP:    "RELOP",
		LPAREN:   "LPAREN",
		RPAREN:   "RPAREN",
		PLUS:     "PLUS",
		MINUS:    "MINUS",
		STAR:     "STAR",
		SLASH:    "SLASH",
	}
	if s, ok := data[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// Keyword is one of the reserved statement words.
type Keyword int

const (
	NoKeyword Keyword = iota
	PRINT
	IF
	THEN
	GOTO
	INPUT
	LET
	GOSUB
	RETURN
	CLEAR
	LIST
	RUN
	END
)

var keywords = map[string]Keyword{
	"PRINT":  PRINT,
	"IF":     IF,
	"THEN":   THEN,
	"GOTO":   GOTO,
	"INPUT":  INPUT,
	"LET":    LET,
	"GOSUB":  GOSUB,
	"RETURN": RETURN,
	"CLEAR":  CLEAR,
	"LIST":   LIST,
	"RUN":    RUN,
	"END":    END,
}

var keywordNames = make(map[Keyword]string)

func init() {
	for name, kw := range keywords {
		keywordNames[kw] = name
	}
}

// LookupKeyword resolves an identifier against the reserved words, ignoring case.
func LookupKeyword(ident string) (Keyword, bool) {
	kw, ok := keywords[strings.ToUpper(ident)]
	return kw, ok
}

// Keywords returns every reserved word in its canonical spelling.
func Keywords() []string {
	ret := make([]string, 0, len(keywords))
	for kw := PRINT; kw <= END; kw++ {
		ret = append(ret, keywordNames[kw])
	}
	return ret
}

func (k Keyword) String() string {
	if s, ok := keywordNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Keyword(%d)", int(k))
}

type Relop int

const (
	Equal Relop = iota
	NotEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
)

func (r Relop) String() string {
	switch r {
	case Equal:
		return "="
	case NotEqual:
		return "<>"
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessThanOrEqual:
		return "<="
	case GreaterThanOrEqual:
		return ">="
	}
	return fmt.Sprintf("Relop(%d)", int(r))
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Token is one lexical unit. Only the payload field matching Kind is set.
type Token struct {
	Kind     TokenKind
	Location Span

	Var     rune
	Keyword Keyword
	Number  uint32
	Text    string
	Relop   Relop
}

func (t Token) String() string {
	switch t.Kind {
	case VAR:
		return string(t.Var)
	case RESERVED:
		return t.Keyword.String()
	case NUMBER:
		return fmt.Sprintf("%d", t.Number)
	case STRING:
		return fmt.Sprintf("%q", t.Text)
	case RELOP:
		return t.Relop.String()
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	}
	return t.Kind.String()
}
