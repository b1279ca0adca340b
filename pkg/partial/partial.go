// Package partial implements partial-clone filter negotiation, the
// promisor object store, and the sparse-aware backfill contract
// (spec.md §4.13).
//
// Grounded on the teacher's pkg/repo/config.go sidecar read/write shape
// (reused here as pkg/sidecar), generalized to a promisor-object table
// the teacher's fully-eager object model has no equivalent for.
package partial

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/gitcore/pkg/giterr"
	"github.com/odvcencio/gitcore/pkg/index"
	"github.com/odvcencio/gitcore/pkg/object"
	"github.com/odvcencio/gitcore/pkg/pathmatch"
	"github.com/odvcencio/gitcore/pkg/sidecar"
	"github.com/odvcencio/gitcore/pkg/wire"
)

const stateFileName = "partial-clone-codex.json"

// State is the persisted partial-clone sidecar: the accepted filter, the
// normalized capability set, and the promisor object table keyed by
// lowercased OID. Promisor payloads are stored base64-encoded so the
// sidecar stays plain JSON; entries named in Compressed were additionally
// zstd-compressed before that base64 encoding.
type State struct {
	Filter       string            `json:"filter,omitempty"`
	Capabilities []string          `json:"capabilities,omitempty"`
	Promisor     map[string]string `json:"promisor,omitempty"`
	Compressed   map[string]bool   `json:"compressed,omitempty"`
}

// compressionThreshold is the payload size at or above which SetPromisorObject
// zstd-compresses before storing, grounded on the teacher's
// pkg/remote/compress.go zstd helpers, reused here for promisor batch
// payloads instead of HTTP bodies.
const compressionThreshold = 256

func statePath(gitDir string) string {
	return gitDir + "/" + stateFileName
}

// Load reads the partial-clone sidecar, returning an empty State if none
// exists yet.
func Load(gitDir string) (*State, error) {
	var s State
	if err := sidecar.Load(statePath(gitDir), &s); err != nil {
		return nil, err
	}
	if s.Promisor == nil {
		s.Promisor = make(map[string]string)
	}
	if s.Compressed == nil {
		s.Compressed = make(map[string]bool)
	}
	return &s, nil
}

// Store persists s to the partial-clone sidecar.
func Store(gitDir string, s *State) error {
	return sidecar.Store(statePath(gitDir), s)
}

// NegotiatePartialCloneFilter validates filter against caps (spec.md
// §4.11's filter-capability precondition) and persists the accepted
// filter alongside the normalized capability set.
func NegotiatePartialCloneFilter(gitDir, filter string, caps []string) (*State, error) {
	if err := wire.RequireFilterCapability(filter, caps); err != nil {
		return nil, err
	}
	s, err := Load(gitDir)
	if err != nil {
		return nil, err
	}
	s.Filter = strings.TrimSpace(filter)
	s.Capabilities = wire.DedupSort(caps)
	if err := Store(gitDir, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SetPromisorObject stores deferred content for oid (lowercased),
// persisting the updated sidecar. Payloads at or above
// compressionThreshold are zstd-compressed first.
func SetPromisorObject(gitDir, oid string, payload []byte) error {
	s, err := Load(gitDir)
	if err != nil {
		return err
	}
	key := strings.ToLower(oid)
	stored := payload
	compressed := false
	if len(payload) >= compressionThreshold {
		zstdPayload, err := wire.CompressSidebandPayload(payload)
		if err != nil {
			return err
		}
		stored = zstdPayload
		compressed = true
	}
	s.Promisor[key] = base64.StdEncoding.EncodeToString(stored)
	if compressed {
		s.Compressed[key] = true
	} else {
		delete(s.Compressed, key)
	}
	return Store(gitDir, s)
}

// decodePromisorPayload reverses SetPromisorObject's encoding for a single
// table entry.
func decodePromisorPayload(s *State, key, encoded string) ([]byte, error) {
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("corrupt promisor payload for %s", key)
	}
	if s.Compressed[key] {
		payload, err = wire.DecompressSidebandPayload(payload)
		if err != nil {
			return nil, fmt.Errorf("corrupt compressed promisor payload for %s: %w", key, err)
		}
	}
	return payload, nil
}

// ResolvePromisedObject returns oid's bytes from the promisor table if
// present; otherwise falls through to the object store's readObject, and
// only then fails INTEGRITY_ERROR.
func ResolvePromisedObject(gitDir string, store *object.Store, oid string) ([]byte, error) {
	s, err := Load(gitDir)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(oid)
	if encoded, ok := s.Promisor[key]; ok {
		payload, decErr := decodePromisorPayload(s, key, encoded)
		if decErr != nil {
			return nil, giterr.New(giterr.IntegrityError, "partial.ResolvePromisedObject", decErr)
		}
		return payload, nil
	}
	if store.Has(oid) {
		return store.ReadObject(oid)
	}
	return nil, giterr.New(giterr.IntegrityError, "partial.ResolvePromisedObject", fmt.Errorf("object %s is neither promised nor present", oid))
}

// BackfillOptions normalizes the caller-provided backfill request.
type BackfillOptions struct {
	MinBatchSize int
	Sparse       bool
}

// NormalizeBackfillOptions applies spec.md §4.13 step 1: minBatchSize
// defaults to 1 and must be a non-negative integer.
func NormalizeBackfillOptions(opts BackfillOptions) (BackfillOptions, error) {
	if opts.MinBatchSize == 0 {
		opts.MinBatchSize = 1
	}
	if opts.MinBatchSize < 0 {
		return opts, giterr.New(giterr.InvalidArgument, "partial.NormalizeBackfillOptions", fmt.Errorf("minBatchSize must be non-negative, got %d", opts.MinBatchSize))
	}
	return opts, nil
}

// BackfillResult reports the outcome of a Backfill call, per spec.md
// §4.13's deterministic contract.
type BackfillResult struct {
	Status      string
	Candidates  []string
	FetchedOids []string
	Remaining   []string
}

const (
	StatusSkippedMinBatch = "skipped-min-batch-size"
	StatusCompleted       = "completed"
)

func sortedPromisorOIDs(s *State) []string {
	out := make([]string, 0, len(s.Promisor))
	for oid := range s.Promisor {
		out = append(out, oid)
	}
	sort.Strings(out)
	return out
}

// sparseSelectedOIDs collects the set of blob OIDs referenced by index
// entries whose paths the sparse selector admits.
func sparseSelectedOIDs(gitDir string, selector *pathmatch.SparseSelector) (map[string]bool, error) {
	idx, err := index.Read(gitDir)
	if err != nil {
		return nil, fmt.Errorf("backfill: read index: %w", err)
	}
	selected := make(map[string]bool)
	for _, e := range idx.Entries {
		if selector.Matches(e.Path) {
			selected[strings.ToLower(e.OID)] = true
		}
	}
	return selected, nil
}

// Backfill implements spec.md §4.13's deterministic backfill contract:
// normalize options, collect lex-sorted promisor candidates, optionally
// intersect with sparse-selected OIDs, skip below minBatchSize, else
// fetch every candidate by writing it as a loose blob and removing it
// from the promisor table.
func Backfill(gitDir string, store *object.Store, opts BackfillOptions, selector *pathmatch.SparseSelector) (*BackfillResult, error) {
	opts, err := NormalizeBackfillOptions(opts)
	if err != nil {
		return nil, err
	}

	s, err := Load(gitDir)
	if err != nil {
		return nil, err
	}

	candidates := sortedPromisorOIDs(s)

	if opts.Sparse && selector != nil {
		selected, err := sparseSelectedOIDs(gitDir, selector)
		if err != nil {
			return nil, err
		}
		filtered := candidates[:0:0]
		for _, oid := range candidates {
			if selected[oid] {
				filtered = append(filtered, oid)
			}
		}
		candidates = filtered
	}

	if len(candidates) < opts.MinBatchSize {
		return &BackfillResult{
			Status:      StatusSkippedMinBatch,
			Candidates:  candidates,
			FetchedOids: nil,
			Remaining:   sortedPromisorOIDs(s),
		}, nil
	}

	var fetched []string
	for _, oid := range candidates {
		encoded := s.Promisor[oid]
		payload, decErr := decodePromisorPayload(s, oid, encoded)
		if decErr != nil {
			return nil, giterr.New(giterr.IntegrityError, "partial.Backfill", decErr)
		}
		if err := store.WriteLooseTrusted(object.TypeBlob, oid, payload); err != nil {
			return nil, giterr.New(giterr.IOError, "partial.Backfill", err)
		}
		delete(s.Promisor, oid)
		delete(s.Compressed, oid)
		fetched = append(fetched, oid)
	}

	if err := Store(gitDir, s); err != nil {
		return nil, err
	}

	return &BackfillResult{
		Status:      StatusCompleted,
		Candidates:  candidates,
		FetchedOids: fetched,
		Remaining:   sortedPromisorOIDs(s),
	}, nil
}
