// Package ports defines the external-collaborator interfaces spec.md §6
// names (compression, filesystem, credential, hook, signature) plus the
// default OS-backed filesystem and hook implementations that live inside
// the importable core, mirroring the teacher's own direct os.*/os-exec.*
// calls from pkg/repo rather than routing those through a network-style
// adapter boundary. Network-facing adapters (HTTP fetch, SSH credential
// lookup, SSH-signature verification) are kept out of this package, at
// the module root in ports/, the way the teacher keeps
// cmd/got/signing_ssh.go outside pkg/repo.
package ports

import "context"

// Compression is the raw-DEFLATE codec port (spec.md §4.2, §6).
type Compression interface {
	DeflateRaw(data []byte) ([]byte, error)
	InflateRaw(data []byte) ([]byte, error)
}

// Filesystem is the storage port every on-disk operation in this module
// ultimately runs through (spec.md §6).
type Filesystem interface {
	Mkdir(path string, recursive bool) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	AppendFile(path string, data string) error
	ReadDir(path string) ([]DirEntry, error)
	Stat(path string) (FileInfo, error)
	Remove(path string) error
}

// DirEntry mirrors os.DirEntry's shape narrowly to what callers need.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileInfo mirrors os.FileInfo's shape narrowly to what callers need.
type FileInfo struct {
	Size  int64
	IsDir bool
}

// Credential is consulted for ssh:// (and optionally http(s)://) clone and
// fetch sources (spec.md §6, §4.14 step 2).
type Credential interface {
	Get(url string) (username, secret string, ok bool, err error)
}

// HookRequest describes a single hook invocation.
type HookRequest struct {
	Name  string
	Argv  []string
	Stdin []byte
	// Env keys are sorted lexicographically by the core before dispatch
	// (spec.md §6), so implementations can assume a stable key order.
	Env map[string]string
}

// HookResult is a hook's outcome.
type HookResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Hook runs repository hooks (pre-commit, post-receive, ...).
type Hook interface {
	Execute(ctx context.Context, req HookRequest) (HookResult, error)
}

// Signature verifies a detached signature over payload (commit/tag
// gpgsig, spec.md §6). The core never produces signatures (Non-goals),
// only verifies through this port.
type Signature interface {
	Verify(payload, signature []byte) (bool, error)
}
