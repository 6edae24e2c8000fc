package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// Word is the type of every BASIC value.
var Word = types.I64

func wordConst(v int64) *constant.Int {
	return constant.NewInt(Word, v)
}
