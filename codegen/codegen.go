// Package codegen lowers parsed lines to an LLVM IR module.
//
// Each GOTO line becomes two functions: goto_<n> returns the jump target and
// line_<n> hands it to the runtime's basic_jump. Variables are i64 globals.
package codegen

import (
	"fmt"
	"strconv"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/pontaoski/tinybasic/ast"
	"github.com/pontaoski/tinybasic/errors"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tinybasic", "codegen")

type ctx struct {
	module   *ir.Module
	vars     map[rune]*ir.Global
	builtins map[string]value.Value
	table    LineTable
}

func (c *ctx) variable(r rune) *ir.Global {
	if g, ok := c.vars[r]; ok {
		return g
	}
	g := c.module.NewGlobalDef("var_"+string(r), wordConst(0))
	c.vars[r] = g
	return g
}

func codegenOperand(c *ctx, o ast.Operand, b *ir.Block) value.Value {
	switch v := o.(type) {
	case ast.Number:
		return wordConst(int64(v))
	case ast.Var:
		return b.NewLoad(Word, c.variable(rune(v)))
	case ast.Paren:
		return codegenExpression(c, *v.Inner, b)
	}

	panic("unhandled")
}

func codegenTerm(c *ctx, t ast.Term, b *ir.Block) value.Value {
	var acc value.Value
	for _, f := range t.Factors {
		v := codegenOperand(c, f.Operand, b)
		switch f.Op {
		case ast.Times:
			acc = b.NewMul(acc, v)
		case ast.Divide:
			acc = b.NewSDiv(acc, v)
		default:
			acc = v
		}
	}
	return acc
}

func codegenExpression(c *ctx, e ast.Expression, b *ir.Block) value.Value {
	var acc value.Value
	for i, t := range e.Terms {
		v := codegenTerm(c, t, b)
		switch {
		case i == 0 && t.Op == ast.Minus:
			acc = b.NewSub(wordConst(0), v)
		case i == 0:
			acc = v
		case t.Op == ast.Minus:
			acc = b.NewSub(acc, v)
		default:
			acc = b.NewAdd(acc, v)
		}
	}
	return acc
}

func codegenLine(c *ctx, suffix string, line *ast.Line) error {
	switch stmt := line.Statement.(type) {
	case ast.Goto:
		target := c.module.NewFunc("goto_"+suffix, Word)
		entry := target.NewBlock("entry")
		entry.NewRet(codegenExpression(c, stmt.Target, entry))

		run := c.module.NewFunc("line_"+suffix, types.Void)
		body := run.NewBlock("entry")
		body.NewCall(c.builtins["jump"], body.NewCall(target))
		body.NewRet(nil)

		plog.Debugf("emitted %s and %s", target.Name(), run.Name())
		return nil
	}

	return errors.UnsupportedLowering{Keyword: line.Statement.Keyword()}
}

// Generate builds one module for a whole program. Line numbers must be unique.
func Generate(lines []*ast.Line) (*ir.Module, error) {
	m := ir.NewModule()
	c := &ctx{
		module:   m,
		vars:     make(map[rune]*ir.Global),
		builtins: addBuiltins(m),
		table:    LineTable{Lines: make(map[string]string)},
	}

	direct := 0
	for _, line := range lines {
		var key, suffix string
		if line.Number != nil {
			key = strconv.FormatUint(uint64(*line.Number), 10)
			suffix = key
			if _, ok := c.table.Lines[key]; ok {
				return nil, errors.DuplicateLine{Number: *line.Number}
			}
		} else {
			key = fmt.Sprintf("direct/%d", direct)
			suffix = fmt.Sprintf("direct_%d", direct)
			direct++
		}

		if err := codegenLine(c, suffix, line); err != nil {
			return nil, err
		}
		c.table.Lines[key] = "line_" + suffix
	}

	if err := registerLineTable(c.table, m); err != nil {
		return nil, err
	}
	return m, nil
}
