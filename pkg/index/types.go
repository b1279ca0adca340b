// Package index implements the staging index that bridges the object
// store and the worktree: decode of both the native Git DIRC v2 binary
// layout and this implementation's canonical JSON payload, canonical JSON
// encode, and the add/status/checkout operations layered on top.
//
// Grounded on the teacher's pkg/repo/staging.go (atomic read-modify-write
// of a single index file, the Add flow) and pkg/repo/status.go (comparing
// index entries against worktree content), stripped of the teacher's
// entity-extraction and rename-detection machinery — this implementation's
// index is the plain {path, oid, mode} triple spec.md §3/§4.7 defines.
package index

// DefaultMode is the file mode assumed for an index entry when absent
// (0o100644, decimal 33188).
const DefaultMode = 0o100644

// Entry is a single staged path.
type Entry struct {
	Path string `json:"path"`
	OID  string `json:"oid"`
	Mode uint32 `json:"mode"`
}

// Index is the full staging area.
type Index struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}
