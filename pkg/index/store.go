package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/internal/pathsafe"
	"github.com/odvcencio/gitcore/pkg/object"
)

func indexPath(gitDir string) string {
	return filepath.Join(gitDir, "index")
}

// Read loads the index from gitDir/index. A missing file yields an empty
// index, not an error (spec.md §4.7).
func Read(gitDir string) (*Index, error) {
	data, err := os.ReadFile(indexPath(gitDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{Version: 2}, nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	idx, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return idx, nil
}

// Write atomically persists idx to gitDir/index via temp-file-then-rename,
// grounded on the teacher's staging.go WriteStaging.
func Write(gitDir string, idx *Index) error {
	data, err := Encode(idx)
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	tmp, err := os.CreateTemp(gitDir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write index: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: close: %w", err)
	}
	if err := os.Rename(tmpName, indexPath(gitDir)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: rename: %w", err)
	}
	return nil
}

// Add stages paths: each path's worktree bytes are written as a blob, and
// the index entry is upserted with the resulting OID and DefaultMode, then
// the index is written back sorted (spec.md §4.7).
func Add(store *object.Store, gitDir, worktreeRoot string, paths []string) error {
	idx, err := Read(gitDir)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	byPath := make(map[string]Entry, len(idx.Entries))
	for _, e := range idx.Entries {
		byPath[e.Path] = e
	}

	for _, p := range paths {
		if !pathsafe.IsSafe(p) {
			return fmt.Errorf("add: unsafe path %q", p)
		}
		data, err := os.ReadFile(filepath.Join(worktreeRoot, filepath.FromSlash(p)))
		if err != nil {
			return fmt.Errorf("add: read %q: %w", p, err)
		}
		oid, err := store.WriteBlob(data)
		if err != nil {
			return fmt.Errorf("add: write blob %q: %w", p, err)
		}
		byPath[p] = Entry{Path: p, OID: oid, Mode: DefaultMode}
	}

	idx.Entries = idx.Entries[:0]
	for _, e := range byPath {
		idx.Entries = append(idx.Entries, e)
	}
	sortEntries(idx.Entries)

	return Write(gitDir, idx)
}

// Status reports staged (all index paths) and unstaged (index paths whose
// worktree content is unreadable or hashes differently than staged),
// sorted and de-duplicated (spec.md §4.7).
type Status struct {
	Staged   []string
	Unstaged []string
}

// Compute reports the working-tree status of gitDir's index against the
// files under worktreeRoot.
func Compute(store *object.Store, gitDir, worktreeRoot string) (*Status, error) {
	idx, err := Read(gitDir)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	st := &Status{}
	seen := make(map[string]bool)
	for _, e := range idx.Entries {
		if !seen[e.Path] {
			st.Staged = append(st.Staged, e.Path)
			seen[e.Path] = true
		}

		data, err := os.ReadFile(filepath.Join(worktreeRoot, filepath.FromSlash(e.Path)))
		if err != nil {
			st.Unstaged = append(st.Unstaged, e.Path)
			continue
		}
		oid := objhash.Hash(string(object.TypeBlob), data, store.Algo())
		if oid != e.OID {
			st.Unstaged = append(st.Unstaged, e.Path)
		}
	}

	sort.Strings(st.Staged)
	st.Unstaged = dedupSorted(st.Unstaged)
	return st, nil
}

func dedupSorted(paths []string) []string {
	sort.Strings(paths)
	out := paths[:0]
	var prev string
	for i, p := range paths {
		if i == 0 || p != prev {
			out = append(out, p)
		}
		prev = p
	}
	return out
}

// File is a single materialized worktree write target for Checkout.
type File struct {
	Path    string
	Payload []byte
}

// Checkout writes each file's payload to worktreeRoot, creating parent
// directories, in path-sorted order, rejecting unsafe paths (spec.md §4.7,
// §4.3).
func Checkout(worktreeRoot string, files []File) error {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	for _, f := range files {
		if !pathsafe.IsSafe(f.Path) {
			return fmt.Errorf("checkout: unsafe path %q", f.Path)
		}
		full := filepath.Join(worktreeRoot, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("checkout: mkdir %q: %w", f.Path, err)
		}
		if err := os.WriteFile(full, f.Payload, 0o644); err != nil {
			return fmt.Errorf("checkout: write %q: %w", f.Path, err)
		}
	}
	return nil
}
