package gitrepo

import "github.com/odvcencio/gitcore/pkg/refs"

// ResolveRef delegates to the ref store.
func (r *Repo) ResolveRef(name string) (string, error) { return r.Refs.ResolveRef(name) }

// ResolveHead delegates to the ref store.
func (r *Repo) ResolveHead() (string, error) { return r.Refs.ResolveHead() }

// ListRefs delegates to the ref store.
func (r *Repo) ListRefs(prefix string) ([]refs.RefEntry, error) { return r.Refs.ListRefs(prefix) }

// UpdateRef delegates to the ref store.
func (r *Repo) UpdateRef(name, oid, message string) error {
	return r.Refs.UpdateRef(name, oid, message)
}

// CreateRef delegates to the ref store.
func (r *Repo) CreateRef(name, oid, message string) error {
	return r.Refs.CreateRef(name, oid, message)
}

// DeleteRef delegates to the ref store.
func (r *Repo) DeleteRef(name, message string) error {
	return r.Refs.DeleteRef(name, message)
}

// VerifyRef delegates to the ref store.
func (r *Repo) VerifyRef(name, oid string) bool { return r.Refs.VerifyRef(name, oid) }

// CompareAndSwapRef delegates to the ref store.
func (r *Repo) CompareAndSwapRef(name, oldOID, newOID, message string) error {
	return r.Refs.CompareAndSwapRef(name, oldOID, newOID, message)
}

// CheckoutBranch rewrites HEAD to point symbolically at refs/heads/<name>,
// requiring the branch to already resolve.
func (r *Repo) CheckoutBranch(name string) error {
	full := refs.Normalize("refs/heads/" + name)
	if _, err := r.Refs.ResolveRef(full); err != nil {
		return err
	}
	return r.Refs.SetHeadSymbolic(full)
}

// DetachHead points HEAD directly at oid.
func (r *Repo) DetachHead(oid string) error {
	return r.Refs.SetHeadDetached(oid)
}
