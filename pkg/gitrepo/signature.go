package gitrepo

import (
	"fmt"

	"github.com/odvcencio/gitcore/pkg/giterr"
	"github.com/odvcencio/gitcore/pkg/object"
	"github.com/odvcencio/gitcore/pkg/ports"
)

// VerifyCommitSignature verifies a commit's gpgsig field against its
// signed payload (the commit encoding with the gpgsig line removed) using
// the caller-supplied Signature port. The core never produces signatures
// (Non-goals); this is the Port-delegated verification spec.md §1
// reserves.
func (r *Repo) VerifyCommitSignature(oid string, sig ports.Signature) (bool, error) {
	c, err := r.Store.ReadCommit(oid)
	if err != nil {
		return false, err
	}
	if c.Signature == "" {
		return false, giterr.New(giterr.SignatureInvalid, "gitrepo.VerifyCommitSignature", fmt.Errorf("commit %s carries no signature", oid))
	}
	unsigned := *c
	unsigned.Signature = ""
	payload := object.EncodeCommit(&unsigned)
	ok, err := sig.Verify(payload, []byte(c.Signature))
	if err != nil {
		return false, giterr.New(giterr.SignatureInvalid, "gitrepo.VerifyCommitSignature", err)
	}
	return ok, nil
}
