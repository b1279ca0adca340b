package gitrepo

import (
	"github.com/odvcencio/gitcore/pkg/index"
)

// Add stages paths from the worktree into the index (spec.md §4.7).
func (r *Repo) Add(paths []string) error {
	return index.Add(r.Store, r.GitDir, r.WorktreeRoot, paths)
}

// ReadIndex loads the current staging index.
func (r *Repo) ReadIndex() (*index.Index, error) { return index.Read(r.GitDir) }

// WriteIndex persists idx as the staging index.
func (r *Repo) WriteIndex(idx *index.Index) error { return index.Write(r.GitDir, idx) }

// Status reports staged/unstaged paths (spec.md §4.7).
func (r *Repo) Status() (*index.Status, error) {
	return index.Compute(r.Store, r.GitDir, r.WorktreeRoot)
}

// CheckoutFiles writes files into the worktree, sorted, rejecting unsafe
// paths (spec.md §4.7, §4.3).
func (r *Repo) CheckoutFiles(files []index.File) error {
	return index.Checkout(r.WorktreeRoot, files)
}

// CheckoutTree materializes the tree at oid into the worktree and writes
// a matching index (used by Clone and by a future "git checkout").
func (r *Repo) CheckoutTree(oid string) error {
	mat, err := r.MaterializeTree(oid)
	if err != nil {
		return err
	}

	files := make([]index.File, 0, len(mat.Files))
	for path, data := range mat.Files {
		files = append(files, index.File{Path: path, Payload: data})
	}
	if err := index.Checkout(r.WorktreeRoot, files); err != nil {
		return err
	}
	for _, gl := range mat.Gitlinks {
		if err := mkdirForGitlink(r.WorktreeRoot, gl.Path); err != nil {
			return err
		}
	}

	entries := make([]index.Entry, 0, len(mat.Files))
	for path := range mat.Files {
		oid, err := r.Store.WriteBlob(mat.Files[path])
		if err != nil {
			return err
		}
		entries = append(entries, index.Entry{Path: path, OID: oid, Mode: index.DefaultMode})
	}
	return index.Write(r.GitDir, &index.Index{Version: 2, Entries: entries})
}
