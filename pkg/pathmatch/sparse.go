package pathmatch

import (
	"regexp"
	"sort"
	"strings"
)

// SparseMode selects cone vs pattern matching for a SparseSelector.
type SparseMode int

const (
	ModeCone SparseMode = iota
	ModePattern
)

// SparseSelector selects worktree paths under sparse-checkout (spec.md
// §4.8).
type SparseSelector struct {
	mode  SparseMode
	rules []string
	globs []*compiledSparseGlob
}

type compiledSparseGlob struct {
	rule string
	re   *regexp.Regexp
}

// NewSparseSelector builds a selector from already-normalized rules (see
// NormalizeSparseRules).
func NewSparseSelector(mode SparseMode, rules []string) (*SparseSelector, error) {
	s := &SparseSelector{mode: mode, rules: rules}
	if mode == ModePattern {
		for _, r := range rules {
			re, err := CompileGlob(r)
			if err != nil {
				return nil, err
			}
			s.globs = append(s.globs, &compiledSparseGlob{rule: r, re: re})
		}
	}
	return s, nil
}

// Matches reports whether path is selected by the sparse-checkout rules.
func (s *SparseSelector) Matches(path string) bool {
	path = strings.ReplaceAll(path, "\\", "/")
	if s.mode == ModePattern {
		for _, g := range s.globs {
			if g.re.MatchString(path) {
				return true
			}
		}
		return false
	}
	return s.matchesCone(path)
}

// matchesCone implements the cone-mode rule: a rule is either "." (root,
// matches everything) or a slash-separated prefix, and a path matches iff
// its segment prefix equals the rule's segments (spec.md §4.8).
func (s *SparseSelector) matchesCone(path string) bool {
	pathSegs := strings.Split(path, "/")
	for _, rule := range s.rules {
		if rule == "." {
			return true
		}
		ruleSegs := strings.Split(rule, "/")
		if len(ruleSegs) > len(pathSegs) {
			continue
		}
		match := true
		for i, seg := range ruleSegs {
			if pathSegs[i] != seg {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// NormalizeSparseRules trims, forward-slashes, strips leading/trailing
// slashes (except the literal "."), deduplicates, and sorts rules
// lexicographically (spec.md §4.8).
func NormalizeSparseRules(rules []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rules {
		r = strings.TrimSpace(r)
		r = strings.ReplaceAll(r, "\\", "/")
		if r != "." {
			r = strings.Trim(r, "/")
		}
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
