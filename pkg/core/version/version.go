// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     version
// Description: Central version information, overridable at link time
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package version

import "fmt"

// Tool version
const Tool = "1.0.0"

// KeywordSchema is the keyword table schema version this build reads
const KeywordSchema = "1.0.0"

// Set with -ldflags "-X github.com/msto63/asmfmt/pkg/core/version.GitCommit=..."
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns the one-line version banner
func String() string {
	return fmt.Sprintf("asmfmt %s (commit %s, built %s)", Tool, GitCommit, BuildDate)
}
