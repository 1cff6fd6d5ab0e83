package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented tree of lines, one node per row, for debugging
func Dump(w io.Writer, lines []Line) error {
	for _, l := range lines {
		if err := dumpNode(w, l, 0); err != nil {
			return err
		}
	}
	return nil
}

func dumpNode(w io.Writer, node Node, depth int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), Describe(node)); err != nil {
		return err
	}
	for _, child := range Children(node) {
		if err := dumpNode(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Describe returns a one-line summary of a node without its children
func Describe(node Node) string {
	pos := node.Pos()

	switch n := node.(type) {
	case *CodeLine:
		if n.IsEmpty() {
			return fmt.Sprintf("CodeLine %s (blank)", pos)
		}
		if n.Label != "" {
			return fmt.Sprintf("CodeLine %s label=%q", pos, n.Label)
		}
		return fmt.Sprintf("CodeLine %s", pos)
	case *DirectiveLine:
		if n.Bracketed {
			return fmt.Sprintf("DirectiveLine %s name=%q bracketed", pos, n.Name)
		}
		return fmt.Sprintf("DirectiveLine %s name=%q", pos, n.Name)
	case *MacroDefineLine:
		return fmt.Sprintf("MacroDefineLine %s name=%q", pos, n.Name)
	case *MacroAssignLine:
		return fmt.Sprintf("MacroAssignLine %s name=%q", pos, n.Name)
	case *StructDefinition:
		return fmt.Sprintf("StructDefinition %s name=%q fields=%d", pos, n.Name, len(n.Fields))
	case *StructInstantiation:
		return fmt.Sprintf("StructInstantiation %s name=%q fields=%d", pos, n.Name, len(n.Fields))
	case *StructField:
		if !n.IsEntry() && n.Comment == nil {
			return fmt.Sprintf("StructField %s (blank)", pos)
		}
		if !n.IsEntry() {
			return fmt.Sprintf("StructField %s (comment)", pos)
		}
		return fmt.Sprintf("StructField %s name=%q", pos, n.Name)
	case *ErrorLine:
		return fmt.Sprintf("ErrorLine %s %q trace=%s", pos, n.Message, strings.Join(n.Trace, " > "))
	case *Instruction:
		return fmt.Sprintf("Instruction %s mnemonic=%q operands=%d", pos, n.Mnemonic, len(n.Operands))
	case *NamedPrefix:
		return fmt.Sprintf("Prefix %s %q", pos, n.Name)
	case *TimesPrefix:
		return fmt.Sprintf("TimesPrefix %s", pos)
	case *Comment:
		return fmt.Sprintf("Comment %s %q", pos, n.Text)
	case *Ident:
		return fmt.Sprintf("Ident %s %q", pos, n.Name)
	case *Number:
		return fmt.Sprintf("Number %s %s", pos, n.Text)
	case *Char:
		return fmt.Sprintf("Char %s '%s'", pos, n.Value)
	case *String:
		return fmt.Sprintf("String %s %q", pos, n.Value)
	case *EffectiveAddress:
		if n.Size != "" {
			return fmt.Sprintf("EffectiveAddress %s size=%s", pos, n.Size)
		}
		return fmt.Sprintf("EffectiveAddress %s", pos)
	case *Unary:
		return fmt.Sprintf("Unary %s %s", pos, n.Op)
	case *Binary:
		return fmt.Sprintf("Binary %s %s", pos, n.Op)
	case *Paren:
		return fmt.Sprintf("Paren %s", pos)
	case *Dollar:
		if n.Double {
			return fmt.Sprintf("Dollar %s $$", pos)
		}
		return fmt.Sprintf("Dollar %s $", pos)
	default:
		return fmt.Sprintf("%T %s", node, pos)
	}
}
