package ast

import (
	"fmt"
	"strings"
)

func (o Operator) String() string {
	switch o {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Times:
		return "*"
	case Divide:
		return "/"
	}
	return ""
}

// String renders the line as canonical source, e.g. "10 GOTO (A+1)*2".
func (l Line) String() string {
	var sb strings.Builder
	if l.Number != nil {
		fmt.Fprintf(&sb, "%d ", *l.Number)
	}
	if l.Statement != nil {
		sb.WriteString(statementString(l.Statement))
	}
	return sb.String()
}

func statementString(s Statement) string {
	switch v := s.(type) {
	case Goto:
		return fmt.Sprintf("%s %s", v.Keyword(), v.Target)
	}

	panic("unhandled")
}

func (e Expression) String() string {
	var sb strings.Builder
	for _, t := range e.Terms {
		sb.WriteString(t.Op.String())
		sb.WriteString(t.String())
	}
	return sb.String()
}

// String renders the factors only; the term's own operator belongs to the
// enclosing expression.
func (t Term) String() string {
	var sb strings.Builder
	for _, f := range t.Factors {
		sb.WriteString(f.Op.String())
		sb.WriteString(operandString(f.Operand))
	}
	return sb.String()
}

func operandString(o Operand) string {
	switch v := o.(type) {
	case Number:
		return fmt.Sprintf("%d", uint32(v))
	case Var:
		return string(rune(v))
	case Paren:
		return "(" + v.Inner.String() + ")"
	}

	panic("unhandled")
}
