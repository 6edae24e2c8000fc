package codegen

import (
	"bytes"
	"encoding/json"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/pkg/errors"
)

const lineTableGlobal = "__basic_lines"

// LineTable maps a line number (or "direct/<i>" for unnumbered lines) to the
// function that runs it.
type LineTable struct {
	Lines map[string]string `json:"lines"`
}

func registerLineTable(t LineTable, m *ir.Module) error {
	data, err := json.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "encoding line table")
	}

	g := m.NewGlobalDef(lineTableGlobal, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
	return nil
}

// ReadLineTable decodes the line table embedded in a generated module.
func ReadLineTable(m *ir.Module) (LineTable, error) {
	for _, g := range m.Globals {
		if g.Name() != lineTableGlobal {
			continue
		}
		arr, ok := g.Init.(*constant.CharArray)
		if !ok {
			return LineTable{}, errors.Errorf("%s is not a character array", lineTableGlobal)
		}
		var t LineTable
		if err := json.Unmarshal(bytes.TrimRight(arr.X, "\x00"), &t); err != nil {
			return LineTable{}, errors.Wrapf(err, "decoding %s", lineTableGlobal)
		}
		return t, nil
	}

	return LineTable{}, errors.Errorf("module has no %s global", lineTableGlobal)
}
