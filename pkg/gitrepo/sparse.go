package gitrepo

import (
	"fmt"

	"github.com/odvcencio/gitcore/pkg/pathmatch"
	"github.com/odvcencio/gitcore/pkg/sidecar"
)

const sparseStateFile = "info/sparse-checkout-codex.json"

// SparseState is the persisted sparse-checkout sidecar: whether sparse
// mode is enabled, cone-vs-pattern mode, and the normalized rule set
// (spec.md §3, §4.8).
type SparseState struct {
	Enabled bool     `json:"enabled"`
	Cone    bool     `json:"cone"`
	Rules   []string `json:"rules,omitempty"`
}

func sparseStatePath(gitDir string) string {
	return sidecar.Path(gitDir, sparseStateFile)
}

// SparseCheckoutState loads the persisted sparse-checkout sidecar.
func (r *Repo) SparseCheckoutState() (*SparseState, error) {
	var s SparseState
	if err := sidecar.Load(sparseStatePath(r.GitDir), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSparseCheckout normalizes and persists a sparse-checkout rule set
// (spec.md §4.8).
func (r *Repo) SetSparseCheckout(cone bool, rules []string) (*SparseState, error) {
	s := &SparseState{Enabled: true, Cone: cone, Rules: pathmatch.NormalizeSparseRules(rules)}
	if err := sidecar.Store(sparseStatePath(r.GitDir), s); err != nil {
		return nil, fmt.Errorf("set sparse checkout: %w", err)
	}
	return s, nil
}

// DisableSparseCheckout clears sparse-checkout state.
func (r *Repo) DisableSparseCheckout() error {
	return sidecar.Store(sparseStatePath(r.GitDir), &SparseState{Enabled: false})
}

// Selector builds a pathmatch.SparseSelector from the persisted state, or
// nil if sparse-checkout is not enabled.
func (s *SparseState) Selector() (*pathmatch.SparseSelector, error) {
	if s == nil || !s.Enabled {
		return nil, nil
	}
	mode := pathmatch.ModePattern
	if s.Cone {
		mode = pathmatch.ModeCone
	}
	return pathmatch.NewSparseSelector(mode, s.Rules)
}

// SelectSparsePaths filters paths by the persisted sparse-checkout rules,
// returning all of them unfiltered if sparse-checkout is disabled.
func (r *Repo) SelectSparsePaths(paths []string) ([]string, error) {
	state, err := r.SparseCheckoutState()
	if err != nil {
		return nil, err
	}
	selector, err := state.Selector()
	if err != nil {
		return nil, err
	}
	if selector == nil {
		return paths, nil
	}
	var out []string
	for _, p := range paths {
		if selector.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
