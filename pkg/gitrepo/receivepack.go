package gitrepo

import "github.com/odvcencio/gitcore/pkg/wire"

// ReceivePackAdvertiseRefs builds the ref advertisement for this
// repository (spec.md §4.12), rooting HEAD-target-first ordering on
// whatever ref HEAD is currently symbolic to.
func (r *Repo) ReceivePackAdvertiseRefs(extraCaps []string) ([]byte, error) {
	entries, err := r.Refs.ListRefs("refs")
	if err != nil {
		return nil, err
	}
	headRef, _, err := r.Refs.HeadTarget()
	if err != nil {
		headRef = ""
	}
	return wire.AdvertiseRefs(r.Refs, r.Algo, headRef, entries, extraCaps)
}

// ReceivePackRequest parses a single receive-pack request line.
func (r *Repo) ReceivePackRequest(line []byte) (*wire.UpdateRequest, error) {
	return wire.ParseRequest(line)
}

// ReceivePackUpdate applies a CAS-guarded ref update (spec.md §4.12).
func (r *Repo) ReceivePackUpdate(req *wire.UpdateRequest) error {
	return wire.ApplyUpdate(r.Refs, req)
}
