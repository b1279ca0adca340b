package pathmatch

import (
	"regexp"
	"strings"
)

// AttrRule pairs a glob pattern with the key/value assignments a matching
// path receives.
type AttrRule struct {
	Pattern     string
	Assignments map[string]string
	re          *regexp.Regexp
}

// ParseAttrRules parses attributes-file text. Each non-blank, non-comment
// line is "<pattern> <assignment>...", where an assignment is "[-]key" or
// "key=value" (spec.md §4.8). "-key" assigns the literal value "unset";
// bare "key" assigns "set".
func ParseAttrRules(text string) ([]AttrRule, error) {
	var rules []AttrRule
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}

		assignments := make(map[string]string)
		for _, f := range fields[1:] {
			switch {
			case strings.HasPrefix(f, "-"):
				assignments[f[1:]] = "unset"
			case strings.Contains(f, "="):
				k, v, _ := strings.Cut(f, "=")
				assignments[k] = v
			default:
				assignments[f] = "set"
			}
		}

		re, err := CompileGlob(fields[0])
		if err != nil {
			return nil, err
		}
		rules = append(rules, AttrRule{Pattern: fields[0], Assignments: assignments, re: re})
	}
	return rules, nil
}

// MatchAttributes collects the union of assignments from every rule whose
// pattern matches path, later rules overriding earlier ones for the same
// key (spec.md §4.8).
func MatchAttributes(rules []AttrRule, path string) map[string]string {
	out := make(map[string]string)
	for _, r := range rules {
		if r.re.MatchString(path) {
			for k, v := range r.Assignments {
				out[k] = v
			}
		}
	}
	return out
}
