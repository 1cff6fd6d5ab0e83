package format

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DiffContext is the number of unchanged lines shown around a change
const DiffContext = 3

// Diff returns a unified diff from before to after, or "" when they are equal
func Diff(name string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: name + ".orig",
		ToFile:   name,
		Context:  DiffContext,
	})
}

// Diff returns the unified diff between the input and the formatted output
func (r *Result) Diff() (string, error) {
	return Diff(r.Name, r.Input, r.Output)
}
