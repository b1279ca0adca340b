package gitrepo

import "github.com/odvcencio/gitcore/pkg/sidecar"

const replaceStateFile = "replace-codex.json"

// ReplaceState is the persisted replace sidecar: a map of original OID to
// its replacement OID, mirroring Git's refs/replace/ namespace.
type ReplaceState struct {
	Replacements map[string]string `json:"replacements,omitempty"`
}

func replaceStatePath(gitDir string) string { return sidecar.Path(gitDir, replaceStateFile) }

// Replacements loads the persisted replace sidecar.
func (r *Repo) Replacements() (*ReplaceState, error) {
	var s ReplaceState
	if err := sidecar.Load(replaceStatePath(r.GitDir), &s); err != nil {
		return nil, err
	}
	if s.Replacements == nil {
		s.Replacements = make(map[string]string)
	}
	return &s, nil
}

// SetReplacement records that original resolves to replacement for
// history-rewriting consumers.
func (r *Repo) SetReplacement(original, replacement string) error {
	s, err := r.Replacements()
	if err != nil {
		return err
	}
	s.Replacements[original] = replacement
	return sidecar.Store(replaceStatePath(r.GitDir), s)
}

// RemoveReplacement deletes a recorded replacement, if any.
func (r *Repo) RemoveReplacement(original string) error {
	s, err := r.Replacements()
	if err != nil {
		return err
	}
	delete(s.Replacements, original)
	return sidecar.Store(replaceStatePath(r.GitDir), s)
}

// ResolveReplacement follows a single replacement hop for oid, returning
// oid unchanged if it has no recorded replacement.
func (r *Repo) ResolveReplacement(oid string) (string, error) {
	s, err := r.Replacements()
	if err != nil {
		return "", err
	}
	if rep, ok := s.Replacements[oid]; ok {
		return rep, nil
	}
	return oid, nil
}
