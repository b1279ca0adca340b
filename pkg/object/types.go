// Package object implements the content-addressed object database:
// envelope encoding, loose storage, tree/commit/tag payload parsing, tree
// materialization, and opaque pack/bitmap/commit-graph/multi-pack-index
// passthrough.
//
// Grounded on the teacher's pkg/object package (hash.go, store.go,
// serialize.go, pack.go), generalized from the teacher's own
// {blob,tag,entity,entitylist,tree,commit} object model to this spec's
// {blob,tree,commit,tag}, and from the teacher's pipe-delimited tree/commit
// text format to Git's own binary tree grammar and header-lines commit
// grammar (spec.md §3).
package object

import "github.com/odvcencio/gitcore/internal/objhash"

// Type identifies the kind of object stored.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
	TypeTag    Type = "tag"
)

// Mode kinds distinguished by tree entries (spec.md §3).
const (
	ModeDir     uint32 = 0o040000
	ModeGitlink uint32 = 0o160000
	ModeFile    uint32 = 0o100644
	ModeExec    uint32 = 0o100755
	ModeSymlink uint32 = 0o120000
)

// Algo re-exports the hashing algorithm type for convenience.
type Algo = objhash.Algo

const (
	SHA1   = objhash.SHA1
	SHA256 = objhash.SHA256
)

// Blob holds raw file content. Its on-disk payload is the content itself.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry of a Tree object.
type TreeEntry struct {
	Mode uint32
	Name string
	OID  string
}

// IsDir reports whether the entry is a subtree.
func (e TreeEntry) IsDir() bool { return e.Mode == ModeDir }

// IsGitlink reports whether the entry is a submodule commit pointer.
func (e TreeEntry) IsGitlink() bool { return e.Mode == ModeGitlink }

// Tree is a sorted sequence of entries, per spec.md §3.
type Tree struct {
	Entries []TreeEntry
}

// Commit is the parsed header block of a commit payload (spec.md §3). The
// free-form message follows the blank line separating headers from body.
type Commit struct {
	TreeOID   string
	Parents   []string
	Author    string
	Timestamp int64
	Timezone  string
	Committer string
	CTime     int64
	CTimezone string
	Signature string
	Message   string
}

// Tag is an annotated tag payload: a commit-shaped header block (object,
// type, tag, tagger) plus a free-form message. See DESIGN.md's "Annotated
// tag object shape" decision for why this grammar was chosen.
type Tag struct {
	Object  string
	Type    Type
	Name    string
	Tagger  string
	Message string
}
