package errors

import (
	"fmt"

	"github.com/pontaoski/tinybasic/types"
)

// Located is implemented by every lexing and parsing error.
type Located interface {
	error
	Span() types.Span
}

// Lexing errors.

type UnknownCharacter struct {
	Char     rune
	Location types.Span
}

func (e UnknownCharacter) Error() string {
	return fmt.Sprintf("unknown character %q. %s", e.Char, e.Location)
}

func (e UnknownCharacter) Span() types.Span { return e.Location }

type UnknownIdentifier struct {
	Name     string
	Location types.Span
}

func (e UnknownIdentifier) Error() string {
	return fmt.Sprintf("unknown identifier %q, variables are a single letter. %s", e.Name, e.Location)
}

func (e UnknownIdentifier) Span() types.Span { return e.Location }

type UnterminatedString struct {
	Location types.Span
}

func (e UnterminatedString) Error() string {
	return fmt.Sprintf("unterminated string literal. %s", e.Location)
}

func (e UnterminatedString) Span() types.Span { return e.Location }

type NumberOverflow struct {
	Literal  string
	Location types.Span
}

func (e NumberOverflow) Error() string {
	return fmt.Sprintf("number %s does not fit in 32 bits. %s", e.Literal, e.Location)
}

func (e NumberOverflow) Span() types.Span { return e.Location }

// Parsing errors. Rule names the grammar rule that failed and Cursor the
// absolute index of the token it was looking at.

type InvalidStatement struct {
	Got      *types.Token
	Rule     string
	Cursor   int
	Location types.Span
}

func (e InvalidStatement) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("%s: expected a statement, got end of line", e.Rule)
	}
	return fmt.Sprintf("%s: expected a statement keyword, got %s (token %d). %s", e.Rule, e.Got.Kind, e.Cursor, e.Location)
}

func (e InvalidStatement) Span() types.Span { return e.Location }

type UnsupportedStatement struct {
	Keyword  types.Keyword
	Rule     string
	Cursor   int
	Location types.Span
}

func (e UnsupportedStatement) Error() string {
	return fmt.Sprintf("%s: %s statements are not supported yet. %s", e.Rule, e.Keyword, e.Location)
}

func (e UnsupportedStatement) Span() types.Span { return e.Location }

type InvalidTerm struct {
	Rule     string
	Cursor   int
	Location types.Span
	Cause    error
}

func (e InvalidTerm) Error() string {
	return fmt.Sprintf("%s: expected a term after sign (token %d): %s", e.Rule, e.Cursor, e.Cause)
}

func (e InvalidTerm) Span() types.Span { return e.Location }
func (e InvalidTerm) Unwrap() error    { return e.Cause }

type InvalidFactor struct {
	Got      types.Token
	Rule     string
	Cursor   int
	Location types.Span
}

func (e InvalidFactor) Error() string {
	return fmt.Sprintf("%s: expected a number, variable or '(', got %s (token %d). %s", e.Rule, e.Got.Kind, e.Cursor, e.Location)
}

func (e InvalidFactor) Span() types.Span { return e.Location }

type UnexpectedEOF struct {
	Rule     string
	Cursor   int
	Location types.Span
}

func (e UnexpectedEOF) Error() string {
	return fmt.Sprintf("%s: unexpected end of line (token %d)", e.Rule, e.Cursor)
}

func (e UnexpectedEOF) Span() types.Span { return e.Location }

// UnbalancedBrackets is located at the opening bracket. Cause is set when a
// rolled back continuation stopped the expression short of its ')'.
type UnbalancedBrackets struct {
	Rule     string
	Cursor   int
	Location types.Span
	Cause    error
}

func (e UnbalancedBrackets) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: '(' at token %d is not closed where the expression stops. %s: %s", e.Rule, e.Cursor, e.Location, e.Cause)
	}
	return fmt.Sprintf("%s: '(' at token %d is never closed. %s", e.Rule, e.Cursor, e.Location)
}

func (e UnbalancedBrackets) Span() types.Span { return e.Location }
func (e UnbalancedBrackets) Unwrap() error    { return e.Cause }

type TrailingTokens struct {
	Got      types.Token
	Rule     string
	Cursor   int
	Location types.Span
	// Cause is the last optional continuation rolled back at Cursor, if any.
	Cause error
}

func (e TrailingTokens) Error() string {
	msg := fmt.Sprintf("%s: unexpected %s after end of statement (token %d). %s", e.Rule, e.Got.Kind, e.Cursor, e.Location)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e TrailingTokens) Span() types.Span { return e.Location }
func (e TrailingTokens) Unwrap() error    { return e.Cause }

// DuplicateLine is reported by code generation when two lines share a number.
type DuplicateLine struct {
	Number uint32
}

func (e DuplicateLine) Error() string {
	return fmt.Sprintf("line %d defined more than once", e.Number)
}

type UnsupportedLowering struct {
	Keyword types.Keyword
}

func (e UnsupportedLowering) Error() string {
	return fmt.Sprintf("no code generation for %s statements", e.Keyword)
}
