// Package ast holds the parse tree of a single program line.
//
// The tree is owned top down: a Line owns its Statement, which owns its
// Expression, down to the Factors. Nothing is shared and nothing is mutated
// after the parser returns it.
package ast

import "github.com/pontaoski/tinybasic/types"

type Operator int

const (
	NoOp Operator = iota
	Plus
	Minus
	Times
	Divide
)

type Line struct {
	// Number is nil when the line has no leading line number.
	Number    *uint32
	Statement Statement
}

type Statement interface {
	is_Statement()
	Keyword() types.Keyword
}

type Goto struct {
	Target Expression
}

func (v Goto) is_Statement()          {}
func (v Goto) Keyword() types.Keyword { return types.GOTO }

// Expression is a sum of terms. The first term's Op is its unary sign, if any.
type Expression struct {
	Terms []Term
}

// Term is a product of factors. The first factor's Op is always NoOp.
type Term struct {
	Op      Operator
	Factors []Factor
}

type Factor struct {
	Op      Operator
	Operand Operand
}

type Operand interface {
	is_Operand()
}

type Number uint32

func (v Number) is_Operand() {}

type Var rune

func (v Var) is_Operand() {}

type Paren struct {
	Inner *Expression
}

func (v Paren) is_Operand() {}
