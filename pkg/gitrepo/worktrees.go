package gitrepo

import "github.com/odvcencio/gitcore/pkg/sidecar"

const worktreesStateFile = "worktrees-codex.json"

// WorktreeEntry records one linked worktree. Prunable is toggled by
// MarkWorktreePrunable and consumed by PruneWorktrees — the small state
// machine spec.md §4.14 names alongside rebase's.
type WorktreeEntry struct {
	Path     string `json:"path"`
	Branch   string `json:"branch,omitempty"`
	HeadOID  string `json:"headOid,omitempty"`
	Prunable bool   `json:"prunable,omitempty"`
}

// WorktreesState is the persisted worktree-list sidecar.
type WorktreesState struct {
	Worktrees []WorktreeEntry `json:"worktrees,omitempty"`
}

func worktreesStatePath(gitDir string) string { return sidecar.Path(gitDir, worktreesStateFile) }

// Worktrees loads the persisted worktree list.
func (r *Repo) Worktrees() (*WorktreesState, error) {
	var s WorktreesState
	if err := sidecar.Load(worktreesStatePath(r.GitDir), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AddWorktree registers a new linked worktree entry.
func (r *Repo) AddWorktree(entry WorktreeEntry) (*WorktreesState, error) {
	s, err := r.Worktrees()
	if err != nil {
		return nil, err
	}
	s.Worktrees = append(s.Worktrees, entry)
	if err := sidecar.Store(worktreesStatePath(r.GitDir), s); err != nil {
		return nil, err
	}
	return s, nil
}

// MarkWorktreePrunable sets the prunable flag on the entry at path.
func (r *Repo) MarkWorktreePrunable(path string, prunable bool) error {
	s, err := r.Worktrees()
	if err != nil {
		return err
	}
	for i := range s.Worktrees {
		if s.Worktrees[i].Path == path {
			s.Worktrees[i].Prunable = prunable
		}
	}
	return sidecar.Store(worktreesStatePath(r.GitDir), s)
}

// PruneWorktrees removes every entry flagged prunable, returning the
// paths that were pruned.
func (r *Repo) PruneWorktrees() ([]string, error) {
	s, err := r.Worktrees()
	if err != nil {
		return nil, err
	}
	var pruned []string
	kept := s.Worktrees[:0]
	for _, wt := range s.Worktrees {
		if wt.Prunable {
			pruned = append(pruned, wt.Path)
			continue
		}
		kept = append(kept, wt)
	}
	s.Worktrees = kept
	if err := sidecar.Store(worktreesStatePath(r.GitDir), s); err != nil {
		return nil, err
	}
	return pruned, nil
}
