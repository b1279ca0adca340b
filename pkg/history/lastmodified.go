// Package history implements the history-walk helpers layered on top of
// the object store and ref store: lastModified's change-point walk, and a
// supplemental whole-file Blame built the same way.
//
// Grounded on the teacher's pkg/repo/tree_lookup.go (treeEntryAtPath's
// segment-by-segment tree descent, generalized here into lookupPathOID)
// and pkg/repo/blame.go's walk-and-compare-against-parent shape, stripped
// of the teacher's entity-selector and entity-cache machinery since this
// spec's history helpers operate on whole-path blob OIDs, not entities.
package history

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/pkg/index"
	"github.com/odvcencio/gitcore/pkg/object"
	"github.com/odvcencio/gitcore/pkg/refs"
)

// resolveStartCommit accepts "HEAD", a raw OID, or any ref name refs.Store
// understands (bare name, "refs/<X>", "refs/heads/<X>", "refs/tags/<X>"),
// per spec.md §4.10.
func resolveStartCommit(refStore *refs.Store, ref string) (string, error) {
	if ref == "" || ref == "HEAD" {
		return refStore.ResolveHead()
	}
	if objhash.Valid(ref) {
		return ref, nil
	}
	return refStore.ResolveRef(ref)
}

// lookupPathOID walks tree segment by segment from treeOID, returning the
// blob OID at path. It aborts (returns false) on any gitlink or missing
// mid-path segment.
func lookupPathOID(store *object.Store, treeOID, path string) (string, bool, error) {
	segments := strings.Split(path, "/")
	current := treeOID

	for i, seg := range segments {
		tree, err := store.ReadTree(current)
		if err != nil {
			return "", false, fmt.Errorf("read tree %s: %w", current, err)
		}

		var found *object.TreeEntry
		for j := range tree.Entries {
			if tree.Entries[j].Name == seg {
				found = &tree.Entries[j]
				break
			}
		}
		if found == nil {
			return "", false, nil
		}

		last := i == len(segments)-1
		if last {
			if found.IsDir() {
				return "", false, nil
			}
			return found.OID, true, nil
		}
		if !found.IsDir() {
			return "", false, nil
		}
		current = found.OID
	}
	return "", false, nil
}

// Result is lastModified's return value: the historical change-point OID
// (empty if the path never existed on this line of history), plus the
// currently staged OID for the same path (empty if unstaged).
type Result struct {
	CommitOID string
	StagedOID string
}

// LastModified resolves ref to a start commit and walks first-parent
// history to find the commit that last changed path, per spec.md §4.10's
// exact algorithm: a root commit is the change point iff the path exists
// there; otherwise a commit is the change point iff the path's OID
// differs from (or is absent in) any parent. A seen-set prevents revisits
// on convergent history.
func LastModified(store *object.Store, refStore *refs.Store, gitDir, path string) (*Result, error) {
	start, err := resolveStartCommit(refStore, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("last modified: resolve start: %w", err)
	}
	return lastModifiedFrom(store, gitDir, start, path)
}

// LastModifiedAt is LastModified parameterized by an explicit ref/OID
// instead of always starting from HEAD.
func LastModifiedAt(store *object.Store, refStore *refs.Store, gitDir, ref, path string) (*Result, error) {
	start, err := resolveStartCommit(refStore, ref)
	if err != nil {
		return nil, fmt.Errorf("last modified: resolve %q: %w", ref, err)
	}
	return lastModifiedFrom(store, gitDir, start, path)
}

func lastModifiedFrom(store *object.Store, gitDir, start, path string) (*Result, error) {
	staged := stagedOID(gitDir, path)

	seen := make(map[string]bool)
	current := start
	for current != "" {
		if seen[current] {
			break
		}
		seen[current] = true

		commit, err := store.ReadCommit(current)
		if err != nil {
			return nil, fmt.Errorf("last modified: read commit %s: %w", current, err)
		}

		oid, exists, err := lookupPathOID(store, commit.TreeOID, path)
		if err != nil {
			return nil, fmt.Errorf("last modified: %w", err)
		}

		if len(commit.Parents) == 0 {
			if exists {
				return &Result{CommitOID: current, StagedOID: staged}, nil
			}
			return &Result{StagedOID: staged}, nil
		}

		changed := false
		for _, p := range commit.Parents {
			parent, err := store.ReadCommit(p)
			if err != nil {
				return nil, fmt.Errorf("last modified: read parent %s: %w", p, err)
			}
			pOID, pExists, err := lookupPathOID(store, parent.TreeOID, path)
			if err != nil {
				return nil, fmt.Errorf("last modified: %w", err)
			}
			if !pExists || pOID != oid {
				changed = true
				break
			}
		}

		if changed {
			if exists {
				return &Result{CommitOID: current, StagedOID: staged}, nil
			}
			return &Result{StagedOID: staged}, nil
		}

		current = commit.Parents[0]
	}

	return &Result{StagedOID: staged}, nil
}

func stagedOID(gitDir, path string) string {
	idx, err := index.Read(gitDir)
	if err != nil {
		return ""
	}
	for _, e := range idx.Entries {
		if e.Path == path {
			return e.OID
		}
	}
	return ""
}
