// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     error
// Description: Error codes used across the formatter
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeIO           Code = "IO_ERROR"

	// Source analysis
	CodeUnexpectedCharacter Code = "UNEXPECTED_CHARACTER"
	CodeSyntax              Code = "SYNTAX_ERROR"

	// Keyword tables
	CodeInvalidKeywordTable      Code = "INVALID_KEYWORD_TABLE"
	CodeIncompatibleKeywordTable Code = "INCOMPATIBLE_KEYWORD_TABLE"

	// Configuration
	CodeConfigError Code = "CONFIG_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsSourceError reports whether the code describes a problem in the
// formatted source rather than in the tool or its environment
func (c Code) IsSourceError() bool {
	return c == CodeUnexpectedCharacter || c == CodeSyntax
}
