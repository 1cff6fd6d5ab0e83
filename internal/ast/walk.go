package ast

// Inspect traverses the tree rooted at node in depth-first order. It calls
// f(node); when f returns true, Inspect continues with the children.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// InspectLines calls Inspect for every line in order
func InspectLines(lines []Line, f func(Node) bool) {
	for _, l := range lines {
		Inspect(l, f)
	}
}

// Children returns the direct children of node in source order
func Children(node Node) []Node {
	var out []Node

	switch n := node.(type) {
	case *CodeLine:
		if n.Instruction != nil {
			out = append(out, n.Instruction)
		}
		out = appendComment(out, n.Comment)
	case *DirectiveLine:
		out = appendExpr(out, n.Arg)
		out = appendComment(out, n.Comment)
	case *MacroDefineLine:
		out = appendExpr(out, n.Value)
		out = appendComment(out, n.Comment)
	case *MacroAssignLine:
		out = appendExpr(out, n.Value)
		out = appendComment(out, n.Comment)
	case *StructDefinition:
		for _, f := range n.Fields {
			out = append(out, f)
		}
	case *StructInstantiation:
		for _, f := range n.Fields {
			out = append(out, f)
		}
	case *StructField:
		if n.Instruction != nil {
			out = append(out, n.Instruction)
		}
		out = appendComment(out, n.Comment)
	case *Instruction:
		if n.Prefix != nil {
			out = append(out, n.Prefix)
		}
		for _, op := range n.Operands {
			out = appendExpr(out, op)
		}
	case *TimesPrefix:
		out = appendExpr(out, n.Count)
	case *EffectiveAddress:
		out = appendExpr(out, n.Inner)
	case *Unary:
		out = appendExpr(out, n.Operand)
	case *Binary:
		out = appendExpr(out, n.Left)
		out = appendExpr(out, n.Right)
	case *Paren:
		out = appendExpr(out, n.Inner)
	}

	return out
}

func appendExpr(out []Node, e Expr) []Node {
	if e == nil {
		return out
	}
	return append(out, e)
}

func appendComment(out []Node, c *Comment) []Node {
	if c == nil {
		return out
	}
	return append(out, c)
}
