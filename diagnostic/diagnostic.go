// Package diagnostic prints lexing and parsing errors against the source
// line they came from.
package diagnostic

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pontaoski/tinybasic/config"
	"github.com/pontaoski/tinybasic/errors"
)

const (
	red   = "\033[31m"
	green = "\033[32m"
	reset = "\033[0m"
)

// UseColor decides whether output to f gets ANSI colours.
func UseColor(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Render writes "file:line:col: error: msg" followed by the source line and a
// caret under the span. firstLine is the file line that source starts on.
// Errors without a location get the header only.
func Render(w io.Writer, filename string, firstLine int, source string, err error, color bool) {
	located, ok := err.(errors.Located)
	if !ok {
		header(w, filename, 0, 0, err, color)
		return
	}

	span := located.Span()
	if span.From.Line == 0 {
		header(w, filename, 0, 0, err, color)
		return
	}
	header(w, filename, firstLine+span.From.Line-1, span.From.Column, err, color)

	lines := strings.Split(source, "\n")
	if span.From.Line > len(lines) {
		return
	}
	text := lines[span.From.Line-1]
	fmt.Fprintf(w, "  %s\n", text)

	col := span.From.Column
	if col < 1 {
		col = 1
	}
	width := 1
	if span.To.Line == span.From.Line && span.To.Column > span.From.Column {
		width = span.To.Column - span.From.Column + 1
	}

	caret := strings.Repeat(" ", col-1) + "^" + strings.Repeat("~", width-1)
	if color {
		fmt.Fprintf(w, "  %s%s%s\n", green, caret, reset)
	} else {
		fmt.Fprintf(w, "  %s\n", caret)
	}
}

func header(w io.Writer, filename string, line, col int, err error, color bool) {
	if filename == "" {
		filename = "<input>"
	}
	label := "error:"
	if color {
		label = red + label + reset
	}
	if line == 0 {
		fmt.Fprintf(w, "%s: %s %s\n", filename, label, err)
		return
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s\n", filename, line, col, label, err)
}
