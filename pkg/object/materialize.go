package object

import "fmt"

// Gitlink records a submodule tree entry encountered during materialization.
type Gitlink struct {
	Path string
	OID  string
}

// Materialized is the flat result of recursively walking a tree (spec.md
// §4.5). Gitlink entries are recorded but not recursed into.
type Materialized struct {
	Files    map[string][]byte
	Gitlinks []Gitlink
}

// MaterializeTree recursively walks the tree at oid, composing file paths
// with "/" joins, and returns a flat map of path -> blob content plus the
// list of encountered gitlinks. Grounded in discipline (explicit work
// list, no host recursion reliance for the traversal queue) on the
// teacher's merge_base_queue.go, even though this particular walk uses
// ordinary Go recursion over a tree (trees are acyclic by construction,
// unlike the commit graph spec.md §9 calls out).
func MaterializeTree(s *Store, oid string) (*Materialized, error) {
	m := &Materialized{Files: make(map[string][]byte)}
	if err := materializeInto(s, oid, "", m); err != nil {
		return nil, err
	}
	return m, nil
}

func materializeInto(s *Store, oid, prefix string, m *Materialized) error {
	tree, err := s.ReadTree(oid)
	if err != nil {
		return fmt.Errorf("materialize tree %s: %w", oid, err)
	}
	for _, e := range tree.Entries {
		path := e.Name
		if prefix != "" {
			path = prefix + "/" + e.Name
		}
		switch {
		case e.IsGitlink():
			m.Gitlinks = append(m.Gitlinks, Gitlink{Path: path, OID: e.OID})
		case e.IsDir():
			if err := materializeInto(s, e.OID, path, m); err != nil {
				return err
			}
		default:
			blob, err := s.ReadBlob(e.OID)
			if err != nil {
				return fmt.Errorf("materialize tree %s: read blob %s (%s): %w", oid, e.OID, path, err)
			}
			m.Files[path] = blob.Data
		}
	}
	return nil
}
