package gitrepo

import "github.com/odvcencio/gitcore/pkg/object"

// WriteBlob stages data into the object store, returning its OID.
func (r *Repo) WriteBlob(data []byte) (string, error) { return r.Store.WriteBlob(data) }

// ReadBlob reads a blob by OID.
func (r *Repo) ReadBlob(oid string) (*object.Blob, error) { return r.Store.ReadBlob(oid) }

// WriteTree stages a tree object.
func (r *Repo) WriteTree(t *object.Tree) (string, error) { return r.Store.WriteTree(t) }

// ReadTree reads a tree object by OID.
func (r *Repo) ReadTree(oid string) (*object.Tree, error) { return r.Store.ReadTree(oid) }

// WriteCommit stages a commit object.
func (r *Repo) WriteCommit(c *object.Commit) (string, error) { return r.Store.WriteCommit(c) }

// ReadCommit reads a commit object by OID.
func (r *Repo) ReadCommit(oid string) (*object.Commit, error) { return r.Store.ReadCommit(oid) }

// WriteTag stages an annotated tag object.
func (r *Repo) WriteTag(t *object.Tag) (string, error) { return r.Store.WriteTag(t) }

// ReadTag reads a tag object by OID.
func (r *Repo) ReadTag(oid string) (*object.Tag, error) { return r.Store.ReadTag(oid) }

// MaterializeTree recursively walks the tree at oid into a flat
// path->bytes map plus encountered gitlinks (spec.md §4.5).
func (r *Repo) MaterializeTree(oid string) (*object.Materialized, error) {
	return object.MaterializeTree(r.Store, oid)
}

// ShallowBoundary returns the lex-sorted commit OIDs at depth generations
// back from head (spec.md §4.5).
func (r *Repo) ShallowBoundary(head string, depth int) ([]string, error) {
	return object.ShallowBoundary(r.Store, head, depth)
}

// Stats reports basic repository statistics by enumerating loose objects
// under objects/<xx>/<rest>. Used by the repo info report (§4.14).
type Stats struct {
	LooseObjectCount int
	LooseBytesOnDisk int64
	ByType           map[object.Type]int
}

func (r *Repo) ComputeStats() (*Stats, error) {
	st := &Stats{ByType: make(map[object.Type]int)}
	shards, err := readObjectShards(r.GitDir)
	if err != nil {
		return nil, err
	}
	for _, oid := range shards {
		env, err := r.Store.ReadEnvelope(oid)
		if err != nil {
			continue
		}
		st.LooseObjectCount++
		st.LooseBytesOnDisk += env.DiskSize
		st.ByType[env.Type]++
	}
	return st, nil
}
