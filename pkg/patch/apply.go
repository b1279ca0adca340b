package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/gitcore/internal/pathsafe"
)

// ParseTarget finds the "+++ b/<path>" line in patchText and returns its
// path, asserting path safety.
func ParseTarget(patchText string) (string, error) {
	for _, line := range SplitLines(patchText) {
		if path, ok := strings.CutPrefix(line, "+++ b/"); ok {
			if !pathsafe.IsSafe(path) {
				return "", fmt.Errorf("apply patch: unsafe target path %q", path)
			}
			return path, nil
		}
	}
	return "", fmt.Errorf("apply patch: no \"+++ b/<path>\" line found")
}

// collectSides returns the minus-lines and plus-lines of a unified patch,
// ignoring "---", "+++", and "@@" header lines (spec.md §4.9).
func collectSides(patchText string) (minus, plus []string) {
	for _, line := range SplitLines(patchText) {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "@@"):
			continue
		case strings.HasPrefix(line, "-"):
			minus = append(minus, line[1:])
		case strings.HasPrefix(line, "+"):
			plus = append(plus, line[1:])
		}
	}
	return minus, plus
}

// Content returns the bytes ApplyUnifiedPatch would write for patchText:
// the plus-lines joined by LF when forward, the minus-lines when reverse
// (spec.md §4.9). The patch parser treats this as a full-file replacement,
// not hunk merging.
func Content(patchText string, reverse bool) []byte {
	minus, plus := collectSides(patchText)
	lines := plus
	if reverse {
		lines = minus
	}
	return []byte(strings.Join(lines, "\n"))
}

// ApplyUnifiedPatch parses patchText's target path, validates it, and
// writes the forward ("+") or reverse ("-") side of the patch to that path
// under worktreeRoot (spec.md §4.9).
func ApplyUnifiedPatch(worktreeRoot, patchText string, reverse bool) (string, error) {
	target, err := ParseTarget(patchText)
	if err != nil {
		return "", err
	}

	full := filepath.Join(worktreeRoot, filepath.FromSlash(target))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("apply patch %q: mkdir: %w", target, err)
	}
	if err := os.WriteFile(full, Content(patchText, reverse), 0o644); err != nil {
		return "", fmt.Errorf("apply patch %q: write: %w", target, err)
	}
	return target, nil
}
