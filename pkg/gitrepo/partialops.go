package gitrepo

import "github.com/odvcencio/gitcore/pkg/partial"

// NegotiatePartialCloneFilter validates and persists a partial-clone
// filter (spec.md §4.13).
func (r *Repo) NegotiatePartialCloneFilter(filter string, caps []string) (*partial.State, error) {
	return partial.NegotiatePartialCloneFilter(r.GitDir, filter, caps)
}

// PartialCloneState loads the persisted partial-clone sidecar.
func (r *Repo) PartialCloneState() (*partial.State, error) {
	return partial.Load(r.GitDir)
}

// SetPromisorObject stores deferred content for oid.
func (r *Repo) SetPromisorObject(oid string, payload []byte) error {
	return partial.SetPromisorObject(r.GitDir, oid, payload)
}

// ResolvePromisedObject returns oid's bytes, from the promisor table or
// the object store, per spec.md §4.13.
func (r *Repo) ResolvePromisedObject(oid string) ([]byte, error) {
	return partial.ResolvePromisedObject(r.GitDir, r.Store, oid)
}

// Backfill runs the deterministic partial-clone backfill contract (spec.md
// §4.13), intersecting candidates with the repository's persisted
// sparse-checkout selection when opts.Sparse is set.
func (r *Repo) Backfill(opts partial.BackfillOptions) (*partial.BackfillResult, error) {
	state, err := r.SparseCheckoutState()
	if err != nil {
		return nil, err
	}
	selector, err := state.Selector()
	if err != nil {
		return nil, err
	}
	return partial.Backfill(r.GitDir, r.Store, opts, selector)
}
