// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     keywords
// Description: Read-only keyword table (instructions, prefixes, directives)
//              queried by the lexer to classify identifiers
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package keywords

import (
	"sort"
	"strings"
)

// Kind names one of the three keyword sets
type Kind int

const (
	// None means the name is in no set
	None Kind = iota
	Instruction
	Prefix
	Directive
)

// String returns the set name as used in table documents
func (k Kind) String() string {
	switch k {
	case Instruction:
		return "instruction"
	case Prefix:
		return "prefix"
	case Directive:
		return "directive"
	default:
		return "none"
	}
}

// Table holds the upper-cased keyword sets. It is never mutated after
// construction and may be shared between lexers.
type Table struct {
	version      string
	instructions map[string]struct{}
	prefixes     map[string]struct{}
	directives   map[string]struct{}
}

// NewTable builds a table from plain name lists. Names are upper-cased. The
// result is not validated; use Parse for untrusted input.
func NewTable(instructions, prefixes, directives []string) *Table {
	return &Table{
		instructions: toSet(instructions),
		prefixes:     toSet(prefixes),
		directives:   toSet(directives),
	}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToUpper(n)] = struct{}{}
	}
	return set
}

// IsInstruction reports whether name is an instruction mnemonic
func (t *Table) IsInstruction(name string) bool {
	_, ok := t.instructions[strings.ToUpper(name)]
	return ok
}

// IsPrefix reports whether name is an instruction prefix
func (t *Table) IsPrefix(name string) bool {
	_, ok := t.prefixes[strings.ToUpper(name)]
	return ok
}

// IsDirective reports whether name is an assembler directive
func (t *Table) IsDirective(name string) bool {
	_, ok := t.directives[strings.ToUpper(name)]
	return ok
}

// Classify returns the set a name belongs to, checking instructions first,
// then prefixes, then directives.
func (t *Table) Classify(name string) Kind {
	upper := strings.ToUpper(name)
	if _, ok := t.instructions[upper]; ok {
		return Instruction
	}
	if _, ok := t.prefixes[upper]; ok {
		return Prefix
	}
	if _, ok := t.directives[upper]; ok {
		return Directive
	}
	return None
}

// Version returns the schema version declared by the source document
func (t *Table) Version() string {
	return t.version
}

// Len returns the number of names in the given set
func (t *Table) Len(kind Kind) int {
	switch kind {
	case Instruction:
		return len(t.instructions)
	case Prefix:
		return len(t.prefixes)
	case Directive:
		return len(t.directives)
	default:
		return 0
	}
}

// Names returns the sorted names of a set
func (t *Table) Names(kind Kind) []string {
	var set map[string]struct{}
	switch kind {
	case Instruction:
		set = t.instructions
	case Prefix:
		set = t.prefixes
	case Directive:
		set = t.directives
	}

	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
