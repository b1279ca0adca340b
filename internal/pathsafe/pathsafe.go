// Package pathsafe validates worktree-relative paths, grounded in style on
// the teacher's path-normalization helpers in pkg/repo/ignore.go.
package pathsafe

import (
	"regexp"
	"strings"
)

var driveLetter = regexp.MustCompile(`^[A-Za-z]:[/\\]`)

// IsSafe reports whether p is a safe worktree-relative path: non-empty, no
// NUL byte, not absolute (leading "/" or "\"), not a Windows drive path,
// and — after normalizing backslashes to forward slashes — containing no
// empty, ".", or ".." segment.
func IsSafe(p string) bool {
	if p == "" {
		return false
	}
	if strings.ContainsRune(p, 0) {
		return false
	}
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") {
		return false
	}
	if driveLetter.MatchString(p) {
		return false
	}

	normalized := strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(normalized, "/") {
		switch seg {
		case "", ".", "..":
			return false
		}
	}
	return true
}
