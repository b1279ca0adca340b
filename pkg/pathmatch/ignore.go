package pathmatch

import (
	"regexp"
	"strings"
)

// IgnoreRule is one parsed line of an ignore file.
type IgnoreRule struct {
	Pattern string
	Negated bool
	re      *regexp.Regexp
}

// ParseIgnoreRules parses ignore-file text: blank lines and "#"-led
// comments are skipped, a leading "!" negates the rule (spec.md §4.8).
func ParseIgnoreRules(text string) ([]IgnoreRule, error) {
	var rules []IgnoreRule
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		negated := false
		if strings.HasPrefix(trimmed, "!") {
			negated = true
			trimmed = trimmed[1:]
		}

		re, err := CompileGlob(trimmed)
		if err != nil {
			return nil, err
		}
		rules = append(rules, IgnoreRule{Pattern: trimmed, Negated: negated, re: re})
	}
	return rules, nil
}

// IsIgnored evaluates path against rules in order; the final matching rule
// wins (spec.md §4.8).
func IsIgnored(rules []IgnoreRule, path string) bool {
	path = strings.ReplaceAll(path, "\\", "/")
	ignored := false
	for _, r := range rules {
		if r.re.MatchString(path) {
			ignored = !r.Negated
		}
	}
	return ignored
}
