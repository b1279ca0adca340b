package refs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/gitcore/internal/objhash"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gitDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(gitDir, "refs", "heads"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewStore(gitDir, objhash.SHA1)
}

func TestCompareAndSwapRoundTrip(t *testing.T) {
	s := newTestStore(t)
	oidX := strings.Repeat("a", 40)
	oidY := strings.Repeat("b", 40)

	if err := s.CreateRef("refs/heads/main", oidX, "create"); err != nil {
		t.Fatalf("CreateRef: %v", err)
	}
	if err := s.CompareAndSwapRef("refs/heads/main", oidX, oidY, "advance"); err != nil {
		t.Fatalf("CompareAndSwapRef: %v", err)
	}
	if !s.VerifyRef("refs/heads/main", oidY) {
		t.Fatal("expected ref to resolve to oidY after CAS")
	}

	// Repeating the same CAS call (still expecting oidX) must now fail.
	err := s.CompareAndSwapRef("refs/heads/main", oidX, oidY, "advance again")
	if !errors.Is(err, ErrCASMismatch) {
		t.Fatalf("expected ErrCASMismatch, got %v", err)
	}
}

func TestCreateRefRejectsDuplicate(t *testing.T) {
	s := newTestStore(t)
	oid := strings.Repeat("c", 40)
	if err := s.CreateRef("refs/heads/topic", oid, "create"); err != nil {
		t.Fatal(err)
	}
	err := s.CreateRef("refs/heads/topic", oid, "create again")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestResolveRefMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ResolveRef("refs/heads/nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLooseShadowsPacked(t *testing.T) {
	s := newTestStore(t)
	packedOID := strings.Repeat("1", 40)
	looseOID := strings.Repeat("2", 40)

	if err := s.writePackedRefs(map[string]string{"refs/heads/main": packedOID}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateRef("refs/heads/main", looseOID, "update"); err != nil {
		t.Fatal(err)
	}

	got, err := s.ResolveRef("refs/heads/main")
	if err != nil {
		t.Fatal(err)
	}
	if got != looseOID {
		t.Fatalf("expected loose ref to shadow packed, got %s", got)
	}
}

func TestListRefsPrefixFiltering(t *testing.T) {
	s := newTestStore(t)
	oid := strings.Repeat("3", 40)
	if err := s.CreateRef("refs/heads/main", oid, "m"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateRef("refs/heads/dev", oid, "m"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateRef("refs/tags/v1", oid, "m"); err != nil {
		t.Fatal(err)
	}

	heads, err := s.ListRefs("refs/heads")
	if err != nil {
		t.Fatal(err)
	}
	if len(heads) != 2 || heads[0].Name != "refs/heads/dev" || heads[1].Name != "refs/heads/main" {
		t.Fatalf("expected sorted [dev, main], got %+v", heads)
	}

	all, err := s.ListRefs("refs")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 refs under refs, got %d", len(all))
	}
}

func TestDeleteRefRemovesLooseAndPacked(t *testing.T) {
	s := newTestStore(t)
	oid := strings.Repeat("4", 40)
	if err := s.writePackedRefs(map[string]string{"refs/heads/main": oid}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateRef("refs/heads/main", oid, "create"); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteRef("refs/heads/main", "remove"); err != nil {
		t.Fatalf("DeleteRef: %v", err)
	}
	if _, err := s.ResolveRef("refs/heads/main"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ref gone after delete, got %v", err)
	}

	packed, err := s.readPackedRefs()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := packed["refs/heads/main"]; ok {
		t.Fatal("expected packed-refs entry removed")
	}
}

func TestDeleteRefMissingFails(t *testing.T) {
	s := newTestStore(t)
	err := s.DeleteRef("refs/heads/ghost", "remove")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReflogLineFormat(t *testing.T) {
	s := newTestStore(t)
	oldNow := nowFunc
	nowFunc = func() int64 { return 1700000000 }
	defer func() { nowFunc = oldNow }()

	oidX := strings.Repeat("5", 40)
	if err := s.CreateRef("refs/heads/main", oidX, "create main"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.reflogPath("refs/heads/main"))
	if err != nil {
		t.Fatal(err)
	}
	want := s.ZeroOID() + " " + oidX + " repo <repo@example.local> 1700000000 +0000\tcreate main\n"
	if string(data) != want {
		t.Fatalf("reflog line mismatch:\ngot:  %q\nwant: %q", string(data), want)
	}
}

func TestHeadResolution(t *testing.T) {
	s := newTestStore(t)
	oid := strings.Repeat("6", 40)
	if err := s.CreateRef("refs/heads/main", oid, "create"); err != nil {
		t.Fatal(err)
	}

	target, symbolic, err := s.HeadTarget()
	if err != nil {
		t.Fatal(err)
	}
	if !symbolic || target != "refs/heads/main" {
		t.Fatalf("expected symbolic HEAD -> refs/heads/main, got (%s, %v)", target, symbolic)
	}

	got, err := s.ResolveHead()
	if err != nil {
		t.Fatal(err)
	}
	if got != oid {
		t.Fatalf("expected HEAD to resolve to %s, got %s", oid, got)
	}

	if err := s.SetHeadDetached(oid); err != nil {
		t.Fatal(err)
	}
	if _, symbolic, err := s.HeadTarget(); err != nil || symbolic {
		t.Fatalf("expected detached HEAD, symbolic=%v err=%v", symbolic, err)
	}
}
