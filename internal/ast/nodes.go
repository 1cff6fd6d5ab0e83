// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     ast
// Description: Line and expression node families produced by the parser
//              and consumed by the renderer
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package ast

import "fmt"

// Position is a source location: Line is 1-based, Column is 0-based
type Position struct {
	Line   int
	Column int
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is implemented by every AST node
type Node interface {
	Pos() Position
}

// Line is one logical source line. The set of implementations is closed:
// *CodeLine, *DirectiveLine, *MacroDefineLine, *MacroAssignLine,
// *StructDefinition, *StructInstantiation and *ErrorLine.
type Line interface {
	Node
	lineNode()
}

// Expr is an operand expression. The set of implementations is closed:
// *Ident, *Number, *Char, *String, *EffectiveAddress, *Unary, *Binary,
// *Paren and *Dollar.
type Expr interface {
	Node
	exprNode()
}

// Prefix is an instruction prefix, either *NamedPrefix or *TimesPrefix
type Prefix interface {
	Node
	prefixNode()
}

// ----------------------------------------------------------------------------
// Lines
// ----------------------------------------------------------------------------

// CodeLine is a label, an instruction and a comment, each optional. A
// CodeLine with none of them is a blank line.
type CodeLine struct {
	Label       string
	Instruction *Instruction
	Comment     *Comment
	Start       Position
}

// IsEmpty reports whether the line is blank
func (l *CodeLine) IsEmpty() bool {
	return l.Label == "" && l.Instruction == nil && l.Comment == nil
}

// DirectiveLine is an assembler directive with one argument. Bracketed
// records whether it was written as "[name arg]" or as "name arg".
type DirectiveLine struct {
	Name      string
	Arg       Expr
	Bracketed bool
	Comment   *Comment
	Start     Position
}

// MacroDefineLine is "%define NAME value"; Value is nil for an empty define
type MacroDefineLine struct {
	Name    string
	Value   Expr
	Comment *Comment
	Start   Position
}

// MacroAssignLine is "%assign NAME value"
type MacroAssignLine struct {
	Name    string
	Value   Expr
	Comment *Comment
	Start   Position
}

// StructDefinition is a struc ... endstruc block
type StructDefinition struct {
	Name   string
	Fields []*CodeLine
	Start  Position
}

// StructField is one body line of an istruc block: an "at name,
// instruction" entry with an optional comment, or a comment-only or blank
// line, in which case Name is empty and Instruction nil.
type StructField struct {
	Name        string
	Instruction *Instruction
	Comment     *Comment
	Start       Position
}

// IsEntry reports whether f is an "at" entry rather than a comment or blank line
func (f *StructField) IsEntry() bool {
	return f.Name != ""
}

// StructInstantiation is an istruc ... iend block
type StructInstantiation struct {
	Name   string
	Fields []*StructField
	Start  Position
}

// ErrorLine marks where parsing stopped. Trace lists the grammar rules that
// were active, outermost first.
type ErrorLine struct {
	Message string
	Trace   []string
	Start   Position
}

func (l *CodeLine) Pos() Position            { return l.Start }
func (l *DirectiveLine) Pos() Position       { return l.Start }
func (l *MacroDefineLine) Pos() Position     { return l.Start }
func (l *MacroAssignLine) Pos() Position     { return l.Start }
func (l *StructDefinition) Pos() Position    { return l.Start }
func (l *StructInstantiation) Pos() Position { return l.Start }
func (l *ErrorLine) Pos() Position           { return l.Start }
func (f *StructField) Pos() Position         { return f.Start }

func (*CodeLine) lineNode()            {}
func (*DirectiveLine) lineNode()       {}
func (*MacroDefineLine) lineNode()     {}
func (*MacroAssignLine) lineNode()     {}
func (*StructDefinition) lineNode()    {}
func (*StructInstantiation) lineNode() {}
func (*ErrorLine) lineNode()           {}

// ----------------------------------------------------------------------------
// Instructions
// ----------------------------------------------------------------------------

// Instruction is an optional prefix, a mnemonic and its operands in
// source order
type Instruction struct {
	Prefix   Prefix
	Mnemonic string
	Operands []Expr
	Start    Position
}

// NamedPrefix is a plain prefix such as lock or rep
type NamedPrefix struct {
	Name  string
	Start Position
}

// TimesPrefix is the "times <count>" repeat prefix
type TimesPrefix struct {
	Keyword string
	Count   Expr
	Start   Position
}

// Comment is the text after ';' with leading spaces removed
type Comment struct {
	Text  string
	Start Position
}

func (i *Instruction) Pos() Position { return i.Start }
func (p *NamedPrefix) Pos() Position { return p.Start }
func (p *TimesPrefix) Pos() Position { return p.Start }
func (c *Comment) Pos() Position     { return c.Start }

func (*NamedPrefix) prefixNode() {}
func (*TimesPrefix) prefixNode() {}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// Ident is a symbol or register reference
type Ident struct {
	Name  string
	Start Position
}

// Number keeps the literal text, radix markers and separators included
type Number struct {
	Text  string
	Start Position
}

// Char is a character literal; Value is the text between the quotes,
// e.g. "a" or `\n`
type Char struct {
	Value string
	Start Position
}

// String is a double-quoted string literal without the quotes
type String struct {
	Value string
	Start Position
}

// EffectiveAddress is a bracketed memory operand. Size is the qualifier
// as written (byte, dword, ...) or empty.
type EffectiveAddress struct {
	Size  string
	Inner Expr
	Start Position
}

// Unary is a prefix operator applied to an operand
type Unary struct {
	Op      string
	Operand Expr
	Start   Position
}

// Binary is "Left Op Right". Operators have no precedence: the right side
// holds everything after the operator.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Start Position
}

// Paren keeps explicit grouping
type Paren struct {
	Inner Expr
	Start Position
}

// Dollar is $ (current position) or $$ (section start) when Double is set
type Dollar struct {
	Double bool
	Start  Position
}

func (e *Ident) Pos() Position            { return e.Start }
func (e *Number) Pos() Position           { return e.Start }
func (e *Char) Pos() Position             { return e.Start }
func (e *String) Pos() Position           { return e.Start }
func (e *EffectiveAddress) Pos() Position { return e.Start }
func (e *Unary) Pos() Position            { return e.Start }
func (e *Binary) Pos() Position           { return e.Start }
func (e *Paren) Pos() Position            { return e.Start }
func (e *Dollar) Pos() Position           { return e.Start }

func (*Ident) exprNode()            {}
func (*Number) exprNode()           {}
func (*Char) exprNode()             {}
func (*String) exprNode()           {}
func (*EffectiveAddress) exprNode() {}
func (*Unary) exprNode()            {}
func (*Binary) exprNode()           {}
func (*Paren) exprNode()            {}
func (*Dollar) exprNode()           {}
