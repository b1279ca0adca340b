package wire

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/gitcore/pkg/giterr"
)

// NormalizeCapabilities trims each entry and drops empties, per spec.md
// §4.11. Order is not otherwise touched here; callers that need the
// sorted-lex form call SortCapabilities or Intersect.
func NormalizeCapabilities(caps []string) []string {
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// SortCapabilities returns a sorted copy of caps.
func SortCapabilities(caps []string) []string {
	out := append([]string(nil), caps...)
	sort.Strings(out)
	return out
}

// Intersect normalizes both lists and returns their sorted lexicographic
// intersection (spec.md §4.11: "normalize each capability list, then
// return the sorted lex intersection").
func Intersect(a, b []string) []string {
	an := NormalizeCapabilities(a)
	bn := NormalizeCapabilities(b)
	bset := make(map[string]bool, len(bn))
	for _, c := range bn {
		bset[c] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range an {
		if bset[c] && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return SortCapabilities(out)
}

// DedupSort returns a sorted copy of caps with duplicates removed.
func DedupSort(caps []string) []string {
	seen := make(map[string]bool, len(caps))
	var out []string
	for _, c := range NormalizeCapabilities(caps) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return SortCapabilities(out)
}

// RequireFilterCapability validates spec.md §4.11's partial-clone filter
// negotiation precondition: filter must be non-empty after trimming, and
// caps must contain "filter" or a "filter=" prefixed entry.
func RequireFilterCapability(filter string, caps []string) error {
	if strings.TrimSpace(filter) == "" {
		return giterr.New(giterr.InvalidArgument, "wire.RequireFilterCapability", fmt.Errorf("filter must not be empty"))
	}
	for _, c := range NormalizeCapabilities(caps) {
		if c == "filter" || strings.HasPrefix(c, "filter=") {
			return nil
		}
	}
	return giterr.New(giterr.Unsupported, "wire.RequireFilterCapability", fmt.Errorf("no filter capability advertised"))
}
