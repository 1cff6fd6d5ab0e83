// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     render
// Description: Two-pass renderer. Pass one formats every line into rows and
//              measures them; pass two appends comments at a shared column.
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	asmast "github.com/msto63/asmfmt/internal/ast"
)

const (
	// LabelWidth is the width of the label field, colon included
	LabelWidth = 8

	// MnemonicWidth is the width of the prefix and mnemonic field
	MnemonicWidth = 8

	// MinGap separates a field that fills its width from the next one
	MinGap = 2

	// CommentGap separates the longest row from the comment column
	CommentGap = 2
)

// widths are measured without East Asian ambiguity so the result does not
// depend on the locale
var cellWidth = &runewidth.Condition{EastAsianWidth: false}

type row struct {
	text       string
	comment    string
	hasComment bool
	measured   bool
}

// Renderer turns parsed lines into formatted text. It holds no state
// between calls.
type Renderer struct{}

// New creates a renderer
func New() *Renderer {
	return &Renderer{}
}

// Render formats lines and returns the text, every row newline-terminated
func Render(lines []asmast.Line) string {
	var b strings.Builder
	for _, r := range New().Lines(lines) {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	return b.String()
}

// Write formats lines to w
func (r *Renderer) Write(w io.Writer, lines []asmast.Line) error {
	bw := bufio.NewWriter(w)
	for _, text := range r.Lines(lines) {
		if _, err := bw.WriteString(text); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Lines returns the formatted rows without line terminators. Rows are
// measured with their field padding; trailing blanks are trimmed only on
// output.
func (r *Renderer) Lines(lines []asmast.Line) []string {
	// pass 1
	var rows []row
	longest := 0
	for _, l := range lines {
		for _, rw := range r.lineRows(l) {
			if rw.measured {
				if n := Width(rw.text); n > longest {
					longest = n
				}
			}
			rows = append(rows, rw)
		}
	}

	// pass 2
	column := longest + CommentGap
	out := make([]string, len(rows))
	for i, rw := range rows {
		if !rw.hasComment {
			out[i] = strings.TrimRight(rw.text, " ")
			continue
		}
		out[i] = strings.TrimRight(pad(rw.text, column)+formatComment(rw.comment), " \t")
	}
	return out
}

func (r *Renderer) lineRows(l asmast.Line) []row {
	switch n := l.(type) {
	case *asmast.CodeLine:
		return []row{codeRow(n)}

	case *asmast.DirectiveLine:
		text := n.Name + " " + Expr(n.Arg)
		if n.Bracketed {
			text = "[" + text + "]"
		}
		return []row{commented(text, n.Comment)}

	case *asmast.MacroDefineLine:
		text := "%define " + n.Name
		if n.Value != nil {
			text += " " + Expr(n.Value)
		}
		return []row{commented(text, n.Comment)}

	case *asmast.MacroAssignLine:
		return []row{commented("%assign "+n.Name+" "+Expr(n.Value), n.Comment)}

	case *asmast.StructDefinition:
		rows := []row{{text: "struc " + n.Name, measured: true}}
		for _, f := range n.Fields {
			rows = append(rows, codeRow(f))
		}
		return append(rows, row{text: "endstruc", measured: true})

	case *asmast.StructInstantiation:
		rows := []row{{text: "istruc " + n.Name, measured: true}}
		for _, f := range n.Fields {
			text := strings.Repeat(" ", LabelWidth)
			if f.IsEntry() {
				text += field("at", MnemonicWidth) + f.Name + ", " + instruction(f.Instruction)
			}
			rows = append(rows, commented(text, f.Comment))
		}
		return append(rows, row{text: "iend", measured: true})

	case *asmast.ErrorLine:
		rows := []row{{text: "; error: " + n.Message}}
		for i := len(n.Trace) - 1; i >= 0; i-- {
			rows = append(rows, row{text: ";   at " + n.Trace[i]})
		}
		return rows

	default:
		panic(fmt.Sprintf("render: unexpected line type %T", l))
	}
}

// codeRow lays out label, mnemonic and operands in their columns
func codeRow(l *asmast.CodeLine) row {
	var b strings.Builder

	if l.Label != "" {
		b.WriteString(field(l.Label+":", LabelWidth))
	} else {
		b.WriteString(strings.Repeat(" ", LabelWidth))
	}

	if in := l.Instruction; in != nil {
		b.WriteString(field(head(in), MnemonicWidth))
		b.WriteString(operands(in))
	}

	return commented(b.String(), l.Comment)
}

// commented builds a measured row that carries c, when present, in the
// comment column
func commented(text string, c *asmast.Comment) row {
	rw := row{text: text, measured: true}
	if c != nil {
		rw.comment = c.Text
		rw.hasComment = true
	}
	return rw
}

// instruction renders an instruction inline, without column padding
func instruction(in *asmast.Instruction) string {
	if len(in.Operands) == 0 {
		return head(in)
	}
	return head(in) + " " + operands(in)
}

// head is the prefix and mnemonic joined by a space
func head(in *asmast.Instruction) string {
	switch p := in.Prefix.(type) {
	case *asmast.NamedPrefix:
		return p.Name + " " + in.Mnemonic
	case *asmast.TimesPrefix:
		return p.Keyword + " " + Expr(p.Count) + " " + in.Mnemonic
	default:
		return in.Mnemonic
	}
}

func operands(in *asmast.Instruction) string {
	parts := make([]string, len(in.Operands))
	for i, op := range in.Operands {
		parts[i] = Expr(op)
	}
	return strings.Join(parts, ", ")
}

func formatComment(text string) string {
	if text == "" {
		return ";"
	}
	return "; " + text
}

// field pads text to width, or appends MinGap spaces when it does not fit
func field(text string, width int) string {
	if Width(text) >= width {
		return text + strings.Repeat(" ", MinGap)
	}
	return pad(text, width)
}

func pad(text string, width int) string {
	if n := Width(text); n < width {
		return text + strings.Repeat(" ", width-n)
	}
	return text
}

// Width returns the display width of s in terminal cells
func Width(s string) int {
	return cellWidth.StringWidth(s)
}

// Expr renders an expression. Binary operators are surrounded by single
// spaces, unary operators bind directly to their operand.
func Expr(e asmast.Expr) string {
	switch n := e.(type) {
	case *asmast.Ident:
		return n.Name
	case *asmast.Number:
		return n.Text
	case *asmast.Char:
		return "'" + n.Value + "'"
	case *asmast.String:
		return `"` + n.Value + `"`
	case *asmast.EffectiveAddress:
		if n.Size != "" {
			return n.Size + " [" + Expr(n.Inner) + "]"
		}
		return "[" + Expr(n.Inner) + "]"
	case *asmast.Unary:
		return n.Op + Expr(n.Operand)
	case *asmast.Binary:
		return Expr(n.Left) + " " + n.Op + " " + Expr(n.Right)
	case *asmast.Paren:
		return "(" + Expr(n.Inner) + ")"
	case *asmast.Dollar:
		if n.Double {
			return "$$"
		}
		return "$"
	default:
		panic(fmt.Sprintf("render: unexpected expression type %T", e))
	}
}
