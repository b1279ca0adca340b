package object

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/internal/zdeflate"
)

// Store is a content-addressed loose-object store with a 2-character
// fan-out directory layout: objects/ab/cdef0123... . Grounded on the
// teacher's pkg/object/store.go (Has/Write/Read, atomic temp-file-then-
// rename write, fan-out sharding), generalized to add the raw-DEFLATE
// compression step and hash-algorithm parameterization the teacher's own
// (uncompressed, SHA-256-only) store doesn't have.
type Store struct {
	root string
	algo Algo
}

// NewStore creates a Store rooted at gitDir (the ".git" directory, not the
// worktree), using algo to compute and validate object identifiers.
func NewStore(gitDir string, algo Algo) *Store {
	return &Store{root: gitDir, algo: algo}
}

// Algo reports the hash algorithm this store was constructed with.
func (s *Store) Algo() Algo { return s.algo }

func (s *Store) objectPath(oid string) string {
	return filepath.Join(s.root, "objects", oid[:2], oid[2:])
}

// Has reports whether oid is present as a loose object.
func (s *Store) Has(oid string) bool {
	_, err := os.Stat(s.objectPath(oid))
	return err == nil
}

// WriteLoose hashes, envelopes, raw-deflates, and writes payload under its
// OID iff not already present (spec.md §4.5 — writes are idempotent, not
// overwriting re-writes).
func (s *Store) WriteLoose(objType Type, payload []byte) (string, error) {
	oid := objhash.Hash(string(objType), payload, s.algo)
	if s.Has(oid) {
		return oid, nil
	}
	if err := s.writeLooseAt(oid, objType, payload); err != nil {
		return "", err
	}
	return oid, nil
}

// WriteLooseTrusted writes payload as a loose object at oid without
// recomputing or verifying the hash, for callers (backfill) that already
// trust oid's provenance. It is a no-op if oid is already present.
func (s *Store) WriteLooseTrusted(objType Type, oid string, payload []byte) error {
	if s.Has(oid) {
		return nil
	}
	return s.writeLooseAt(oid, objType, payload)
}

func (s *Store) writeLooseAt(oid string, objType Type, payload []byte) error {
	envelope := EncodeLoose(objType, payload)
	compressed, err := zdeflate.DeflateRaw(envelope)
	if err != nil {
		return fmt.Errorf("write loose object %s: %w", oid, err)
	}

	dir := filepath.Join(s.root, "objects", oid[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write loose object %s: mkdir: %w", oid, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write loose object %s: tmpfile: %w", oid, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write loose object %s: write: %w", oid, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write loose object %s: close: %w", oid, err)
	}
	if err := os.Rename(tmpName, s.objectPath(oid)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write loose object %s: rename: %w", oid, err)
	}
	return nil
}

// Envelope is the result of reading a loose object without discarding its
// type or on-disk size, used for repository statistics.
type Envelope struct {
	Type     Type
	Payload  []byte
	DiskSize int64
}

// ReadEnvelope reads oid's loose object file, inflates it with default
// limits, and decodes the header, returning type, payload, and the
// compressed on-disk size.
func (s *Store) ReadEnvelope(oid string) (*Envelope, error) {
	path := s.objectPath(oid)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", oid, err)
	}
	inflated, err := zdeflate.InflateRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", oid, err)
	}
	objType, payload, err := DecodeLoose(inflated)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", oid, err)
	}
	return &Envelope{Type: objType, Payload: payload, DiskSize: int64(len(raw))}, nil
}

// ReadObject returns only the payload of oid.
func (s *Store) ReadObject(oid string) ([]byte, error) {
	env, err := s.ReadEnvelope(oid)
	if err != nil {
		return nil, err
	}
	return env.Payload, nil
}

// ---------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------

func (s *Store) WriteBlob(data []byte) (string, error) {
	return s.WriteLoose(TypeBlob, data)
}

func (s *Store) ReadBlob(oid string) (*Blob, error) {
	env, err := s.ReadEnvelope(oid)
	if err != nil {
		return nil, err
	}
	if env.Type != TypeBlob {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", oid, env.Type, TypeBlob)
	}
	return &Blob{Data: env.Payload}, nil
}

func (s *Store) WriteTree(t *Tree) (string, error) {
	data, err := EncodeTree(t, s.algo)
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}
	return s.WriteLoose(TypeTree, data)
}

func (s *Store) ReadTree(oid string) (*Tree, error) {
	env, err := s.ReadEnvelope(oid)
	if err != nil {
		return nil, err
	}
	if env.Type != TypeTree {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", oid, env.Type, TypeTree)
	}
	return DecodeTree(env.Payload, s.algo.ByteLen())
}

func (s *Store) WriteCommit(c *Commit) (string, error) {
	return s.WriteLoose(TypeCommit, EncodeCommit(c))
}

func (s *Store) ReadCommit(oid string) (*Commit, error) {
	env, err := s.ReadEnvelope(oid)
	if err != nil {
		return nil, err
	}
	if env.Type != TypeCommit {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", oid, env.Type, TypeCommit)
	}
	return DecodeCommit(env.Payload)
}

func (s *Store) WriteTag(t *Tag) (string, error) {
	return s.WriteLoose(TypeTag, EncodeTag(t))
}

func (s *Store) ReadTag(oid string) (*Tag, error) {
	env, err := s.ReadEnvelope(oid)
	if err != nil {
		return nil, err
	}
	if env.Type != TypeTag {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", oid, env.Type, TypeTag)
	}
	return DecodeTag(env.Payload)
}
