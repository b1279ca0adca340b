package gitrepo

import "github.com/odvcencio/gitcore/pkg/sidecar"

const stashStateFile = "stash-codex.json"

// StashEntry records one stashed working-tree snapshot: the tree it
// captured, the commit it was taken on top of, and a free-form message.
type StashEntry struct {
	Message   string `json:"message"`
	TreeOID   string `json:"treeOid"`
	ParentOID string `json:"parentOid"`
	CreatedAt int64  `json:"createdAt"`
}

// StashState is the persisted stash sidecar: a LIFO list of entries.
type StashState struct {
	Entries []StashEntry `json:"entries,omitempty"`
}

func stashStatePath(gitDir string) string { return sidecar.Path(gitDir, stashStateFile) }

// StashList loads the persisted stash list, most-recent first (index 0).
func (r *Repo) StashList() (*StashState, error) {
	var s StashState
	if err := sidecar.Load(stashStatePath(r.GitDir), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// StashPush prepends a new stash entry.
func (r *Repo) StashPush(entry StashEntry) (*StashState, error) {
	s, err := r.StashList()
	if err != nil {
		return nil, err
	}
	s.Entries = append([]StashEntry{entry}, s.Entries...)
	if err := sidecar.Store(stashStatePath(r.GitDir), s); err != nil {
		return nil, err
	}
	return s, nil
}

// StashPop removes and returns the most recent stash entry (nil, nil if
// the stash is empty).
func (r *Repo) StashPop() (*StashEntry, error) {
	s, err := r.StashList()
	if err != nil {
		return nil, err
	}
	if len(s.Entries) == 0 {
		return nil, nil
	}
	top := s.Entries[0]
	s.Entries = s.Entries[1:]
	if err := sidecar.Store(stashStatePath(r.GitDir), s); err != nil {
		return nil, err
	}
	return &top, nil
}

// StashDrop removes the entry at index without returning it.
func (r *Repo) StashDrop(index int) error {
	s, err := r.StashList()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(s.Entries) {
		return nil
	}
	s.Entries = append(s.Entries[:index], s.Entries[index+1:]...)
	return sidecar.Store(stashStatePath(r.GitDir), s)
}
