package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Builtins are declared here and provided by whatever runtime links the module.
func addBuiltins(m *ir.Module) (ret map[string]value.Value) {
	ret = make(map[string]value.Value)

	funcs := []func(*ir.Module) (string, value.Value){
		addJump,
	}
	for _, fn := range funcs {
		k, v := fn(m)
		ret[k] = v
	}

	return
}

// basic_jump(target) transfers control to the line numbered target.
func addJump(m *ir.Module) (string, value.Value) {
	fn := m.NewFunc("basic_jump", types.Void, ir.NewParam("target", Word))
	return "jump", fn
}
