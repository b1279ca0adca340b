// Package pathmatch implements the glob grammar shared by ignore
// evaluation, attributes evaluation, and sparse-checkout pattern mode
// (spec.md §4.8), plus the cone-mode prefix matcher and rule normalization
// those three layers share.
//
// Grounded on the teacher's pkg/repo/ignore.go (globToRegex), simplified
// to the plainer three-token grammar spec.md §4.8 defines — the teacher's
// `**/ ` directory-segment special case and its literal/wildcard
// pattern-index fast paths are dropped in favor of one anchored regex per
// pattern, since this spec has no performance requirement tying ignore
// evaluation to repository size.
package pathmatch

import (
	"regexp"
	"strings"
)

// CompileGlob turns a pattern into an anchored regular expression per
// spec.md §4.8: "**" matches any characters including "/"; "*" matches any
// character except "/"; "?" matches a single non-"/" character; all other
// characters are literal.
func CompileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch ch {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		default:
			if strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)) {
				b.WriteByte('\\')
			}
			b.WriteByte(ch)
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
