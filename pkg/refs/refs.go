// Package refs implements the reference store: loose refs, packed-refs,
// HEAD resolution, reflog append, prefix listing, and delete — grounded on
// the teacher's pkg/repo/refs.go (ListRefs walk) and pkg/repo/init.go
// (UpdateRefCAS's lockfile-rename-reflog sequence), generalized to add
// packed-refs support the teacher's pure-loose-ref implementation lacks.
package refs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/odvcencio/gitcore/internal/objhash"
)

// ErrNotFound is returned when a ref does not resolve.
var ErrNotFound = fmt.Errorf("ref not found")

// ErrAlreadyExists is returned by CreateRef when the name already resolves.
var ErrAlreadyExists = fmt.Errorf("ref already exists")

// ErrCASMismatch is returned when a compare-and-swap update's expected old
// value does not match the current value.
var ErrCASMismatch = fmt.Errorf("ref compare-and-swap mismatch")

const refLockRetryDelay = 5 * time.Millisecond
const refLockWaitLimit = 2 * time.Second

// Store manages the ref hierarchy rooted at gitDir.
type Store struct {
	gitDir string
	algo   objhash.Algo
}

// NewStore creates a ref Store rooted at gitDir.
func NewStore(gitDir string, algo objhash.Algo) *Store {
	return &Store{gitDir: gitDir, algo: algo}
}

// ZeroOID returns the all-zero OID of the store's hash length, used as the
// "deleted" sentinel in reflog entries and receive-pack requests.
func (s *Store) ZeroOID() string {
	return strings.Repeat("0", s.algo.HexLen())
}

// Normalize prefixes a bare ref name with "refs/" (spec.md §3). Names
// already starting with "refs/", and "HEAD", pass through unchanged.
func Normalize(name string) string {
	if name == "HEAD" || strings.HasPrefix(name, "refs/") {
		return name
	}
	return "refs/" + name
}

func (s *Store) loosePath(name string) string {
	return filepath.Join(s.gitDir, filepath.FromSlash(name))
}

func readLoose(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(data)), true, nil
}

// ResolveRef resolves name to an OID: loose file first, then packed-refs.
// Loose always wins over packed when both exist (spec.md §3 invariant).
func (s *Store) ResolveRef(name string) (string, error) {
	norm := Normalize(name)
	if oid, ok, err := readLoose(s.loosePath(norm)); err != nil {
		return "", fmt.Errorf("resolve ref %q: %w", name, err)
	} else if ok {
		return oid, nil
	}

	packed, err := s.readPackedRefs()
	if err != nil {
		return "", fmt.Errorf("resolve ref %q: %w", name, err)
	}
	if oid, ok := packed[norm]; ok {
		return oid, nil
	}
	return "", fmt.Errorf("resolve ref %q: %w", name, ErrNotFound)
}

// ResolveHead reads HEAD: if symbolic, resolves the target; if detached,
// returns the OID directly.
func (s *Store) ResolveHead() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.gitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")
	if target, ok := strings.CutPrefix(content, "ref: "); ok {
		return s.ResolveRef(strings.TrimSpace(target))
	}
	if objhash.Valid(content) {
		return content, nil
	}
	return "", fmt.Errorf("resolve HEAD: invalid detached content %q", content)
}

// HeadTarget returns the symbolic target of HEAD ("", false) if HEAD is
// detached, or (refname, true) if HEAD is symbolic.
func (s *Store) HeadTarget() (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.gitDir, "HEAD"))
	if err != nil {
		return "", false, fmt.Errorf("read HEAD: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")
	if target, ok := strings.CutPrefix(content, "ref: "); ok {
		return strings.TrimSpace(target), true, nil
	}
	return "", false, nil
}

// SetHeadSymbolic points HEAD at a ref name.
func (s *Store) SetHeadSymbolic(refName string) error {
	return os.WriteFile(filepath.Join(s.gitDir, "HEAD"), []byte("ref: "+Normalize(refName)+"\n"), 0o644)
}

// SetHeadDetached points HEAD directly at an OID.
func (s *Store) SetHeadDetached(oid string) error {
	return os.WriteFile(filepath.Join(s.gitDir, "HEAD"), []byte(oid+"\n"), 0o644)
}

// RefEntry is a single resolved (name, OID) pair.
type RefEntry struct {
	Name string
	OID  string
}

// matchesPrefix implements spec.md §4.6's prefix semantics: "refs" matches
// all; "refs/heads" matches "refs/heads/*" and the exact name "refs/heads".
func matchesPrefix(name, prefix string) bool {
	if prefix == "" || prefix == "refs" {
		return strings.HasPrefix(name, "refs")
	}
	return name == prefix || strings.HasPrefix(name, prefix+"/")
}

// ListRefs returns the union of packed and loose refs under prefix, with
// loose entries shadowing packed ones for the same name, sorted
// lexicographically by name (spec.md §4.6, §5).
func (s *Store) ListRefs(prefix string) ([]RefEntry, error) {
	merged := make(map[string]string)

	packed, err := s.readPackedRefs()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	for name, oid := range packed {
		merged[name] = oid
	}

	refsRoot := filepath.Join(s.gitDir, "refs")
	walkErr := filepath.WalkDir(refsRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.gitDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasSuffix(name, ".lock") {
			return nil
		}
		oid, ok, err := readLoose(path)
		if err != nil || !ok {
			return err
		}
		merged[name] = oid
		return nil
	})
	if walkErr != nil && !os.IsNotExist(walkErr) {
		return nil, fmt.Errorf("list refs: %w", walkErr)
	}

	var out []RefEntry
	for name, oid := range merged {
		if matchesPrefix(name, prefix) {
			out = append(out, RefEntry{Name: name, OID: oid})
		}
	}
	sortRefEntries(out)
	return out, nil
}

func sortRefEntries(entries []RefEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].Name > entries[j].Name; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

func acquireLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(refLockRetryDelay)
			continue
		}
		return nil, err
	}
}

// UpdateRef writes newOID to name, appending a reflog entry recording the
// previous value (zero-OID if the ref did not exist). No CAS check.
func (s *Store) UpdateRef(name, newOID, message string) error {
	return s.updateRefCAS(name, newOID, message, false, "")
}

// CreateRef fails ErrAlreadyExists if name already resolves; otherwise
// behaves like UpdateRef.
func (s *Store) CreateRef(name, oid, message string) error {
	if _, err := s.ResolveRef(name); err == nil {
		return fmt.Errorf("create ref %q: %w", name, ErrAlreadyExists)
	}
	return s.UpdateRef(name, oid, message)
}

// CompareAndSwapRef updates name to newOID only if its current value
// equals oldOID (empty string for "did not exist").
func (s *Store) CompareAndSwapRef(name, oldOID, newOID, message string) error {
	return s.updateRefCAS(name, newOID, message, true, oldOID)
}

func (s *Store) updateRefCAS(name, newOID, message string, checkOld bool, wantOld string) error {
	norm := Normalize(name)
	refPath := s.loosePath(norm)

	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", name, err)
	}
	cleanup := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanup {
			_ = os.Remove(lockPath)
		}
	}()

	oldOID, err := s.ResolveRef(norm)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("update ref %q: read old value: %w", name, err)
		}
		oldOID = ""
	}
	if checkOld && oldOID != wantOld {
		return fmt.Errorf("update ref %q: %w (expected %s, found %s)", name, ErrCASMismatch, wantOld, oldOID)
	}

	if _, err := lockFile.WriteString(newOID + "\n"); err != nil {
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}
	cleanup = false

	reflogOld := oldOID
	if reflogOld == "" {
		reflogOld = s.ZeroOID()
	}
	if err := s.appendReflog(norm, reflogOld, newOID, message); err != nil {
		return fmt.Errorf("update ref %q: reflog: %w", name, err)
	}
	return nil
}

// DeleteRef removes name's loose file (if present) and its packed-refs
// entry (if present), appending a reflog entry with new=zero-OID. Fails
// ErrNotFound if the ref does not resolve at all.
func (s *Store) DeleteRef(name, message string) error {
	norm := Normalize(name)
	oldOID, err := s.ResolveRef(norm)
	if err != nil {
		return fmt.Errorf("delete ref %q: %w", name, ErrNotFound)
	}

	loosePath := s.loosePath(norm)
	if _, statErr := os.Stat(loosePath); statErr == nil {
		if err := os.Remove(loosePath); err != nil {
			return fmt.Errorf("delete ref %q: %w", name, err)
		}
	}

	if err := s.removeFromPackedRefs(norm); err != nil {
		return fmt.Errorf("delete ref %q: %w", name, err)
	}

	if err := s.appendReflog(norm, oldOID, s.ZeroOID(), message); err != nil {
		return fmt.Errorf("delete ref %q: reflog: %w", name, err)
	}
	return nil
}

// VerifyRef reports whether name currently resolves to oid.
func (s *Store) VerifyRef(name, oid string) bool {
	got, err := s.ResolveRef(name)
	return err == nil && got == oid
}
