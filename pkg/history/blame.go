package history

import (
	"fmt"

	"github.com/odvcencio/gitcore/pkg/object"
	"github.com/odvcencio/gitcore/pkg/refs"
)

// BlameEntry attributes path's current content to the commit that last
// changed it.
//
// This is a whole-file attribution, not a per-line one: since this
// implementation's diff model (pkg/patch) is a full-file-replacement
// equivalence rather than a real line-level LCS diff, there is no
// internally-consistent way to say "this commit changed lines 10-14" —
// every change touches the whole file from the diff engine's point of
// view. Grounded on the teacher's pkg/repo/blame.go walk-until-attribution
// shape, reusing LastModified's change-point walk instead of the
// teacher's entity-level comparison.
type BlameEntry struct {
	Path      string
	CommitOID string
	Author    string
	Message   string
}

// BlameAt attributes path (resolved from ref) to the commit LastModified
// finds, decorated with that commit's author and message.
func BlameAt(store *object.Store, refStore *refs.Store, gitDir, ref, path string) (*BlameEntry, error) {
	result, err := LastModifiedAt(store, refStore, gitDir, ref, path)
	if err != nil {
		return nil, fmt.Errorf("blame: %w", err)
	}
	if result.CommitOID == "" {
		return nil, fmt.Errorf("blame: %q has no history on this line of commits", path)
	}

	commit, err := store.ReadCommit(result.CommitOID)
	if err != nil {
		return nil, fmt.Errorf("blame: read commit %s: %w", result.CommitOID, err)
	}

	return &BlameEntry{
		Path:      path,
		CommitOID: result.CommitOID,
		Author:    commit.Author,
		Message:   commit.Message,
	}, nil
}
