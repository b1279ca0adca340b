// Package patch implements unified-diff generation, parse-and-apply, and
// multi-step replay. Diff generation and the patch grammar itself are a
// deliberate "full-file replacement" equivalence, not a real line-level
// LCS diff (spec.md §4.9, §9): the entire before/after content forms a
// single hunk.
//
// Grounded on the teacher's cmd/got/cmd_diff.go for the unified-diff
// header textures (`--- a/path`, `+++ b/path`, `@@ -a,b +c,d @@`),
// adapted away from the teacher's real LCS-backed diff3.LineDiff since
// spec.md §4.9 calls for the simpler full-file hunk instead.
package patch

import (
	"strconv"
	"strings"
)

// SplitLines splits text into lines by LF after normalizing CRLF to LF.
// Empty input yields an empty slice (spec.md §4.9).
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}

// GenerateUnifiedDiff emits a single-hunk unified patch that replaces
// before's lines with after's lines wholesale (spec.md §4.9).
func GenerateUnifiedDiff(path string, before, after []byte) string {
	beforeLines := SplitLines(string(before))
	afterLines := SplitLines(string(after))

	var b strings.Builder
	b.WriteString("--- a/")
	b.WriteString(path)
	b.WriteString("\n+++ b/")
	b.WriteString(path)
	b.WriteString("\n@@ -1,")
	b.WriteString(strconv.Itoa(len(beforeLines)))
	b.WriteString(" +1,")
	b.WriteString(strconv.Itoa(len(afterLines)))
	b.WriteString(" @@\n")

	for _, l := range beforeLines {
		b.WriteString("-")
		b.WriteString(l)
		b.WriteString("\n")
	}
	for _, l := range afterLines {
		b.WriteString("+")
		b.WriteString(l)
		b.WriteString("\n")
	}

	return b.String()
}
