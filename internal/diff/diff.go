// Package diff renders compact unified diffs for validation failure reasons.
// It uses github.com/pmezard/go-difflib/difflib to produce classic unified
// patches (---/+++ headers, @@ hunks, lines prefixed with ' ', '-', '+'),
// trimmed to a size a retry-feedback prompt can absorb.
package diff

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// maxChars caps the rendered diff; mismatches are usually a few characters,
// but a badly offset span can drag in most of a paragraph.
const maxChars = 600

// Compact produces a small unified diff between the expected and actual
// text. Returns "" when the diff cannot be rendered or the inputs are equal.
func Compact(expected, actual string) string {
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(expected),
		B:        splitLinesKeepNL(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  1,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return ""
	}
	if len(s) > maxChars {
		s = s[:maxChars] + "\n… (truncated)"
	}
	return strings.TrimRight(s, "\n")
}

// splitLinesKeepNL splits into lines keeping newline characters, which
// produces better unified hunks.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}
