package wire

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/pkg/giterr"
	"github.com/odvcencio/gitcore/pkg/refs"
)

func TestEncodeDecodeLineRoundTrip(t *testing.T) {
	encoded, err := EncodeLine([]byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if string(encoded) != "0009hello" {
		t.Fatalf("unexpected encoding: %q", encoded)
	}
	r := bufio.NewReader(bytes.NewReader(encoded))
	line, err := ReadLine(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(line) != "hello" {
		t.Fatalf("round trip mismatch: %q", line)
	}
}

func TestReadLineFlush(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader(EncodeFlush()))
	line, err := ReadLine(r)
	if err != nil {
		t.Fatal(err)
	}
	if line != nil {
		t.Fatalf("expected nil for flush, got %v", line)
	}
}

func TestReadLineRejectsBadLength(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte("0002")))
	if _, err := ReadLine(r); err == nil {
		t.Fatal("expected error for length below minimum")
	}
}

func TestReadAllLinesStopsAtFlush(t *testing.T) {
	var buf bytes.Buffer
	a, _ := EncodeLine([]byte("a"))
	b, _ := EncodeLine([]byte("bb"))
	buf.Write(a)
	buf.Write(b)
	buf.Write(EncodeFlush())
	buf.Write([]byte("0005zzz")) // must not be read past flush

	lines, err := ReadAllLines(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || string(lines[0]) != "a" || string(lines[1]) != "bb" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestIntersectNormalizesAndSorts(t *testing.T) {
	got := Intersect([]string{" b", "a", "", "c"}, []string{"c", "a ", "d"})
	want := []string{"a", "c"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestRequireFilterCapabilityAcceptsPrefixedEntry(t *testing.T) {
	if err := RequireFilterCapability("blob:none", []string{"side-band-64k", "filter=blob:none"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireFilterCapabilityRejectsEmptyFilter(t *testing.T) {
	if err := RequireFilterCapability("   ", []string{"filter"}); !giterr.Is(err, giterr.InvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestRequireFilterCapabilityRejectsMissingCapability(t *testing.T) {
	if err := RequireFilterCapability("blob:none", []string{"side-band-64k"}); !giterr.Is(err, giterr.Unsupported) {
		t.Fatalf("expected UNSUPPORTED, got %v", err)
	}
}

func newTestRefStore(t *testing.T) *refs.Store {
	t.Helper()
	gitDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(gitDir, "refs", "heads"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return refs.NewStore(gitDir, objhash.SHA1)
}

func TestAdvertiseRefsPutsHeadTargetFirstWithCapabilities(t *testing.T) {
	store := newTestRefStore(t)
	oid := strings.Repeat("a", 40)
	if err := store.CreateRef("refs/heads/main", oid, "create"); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateRef("refs/heads/other", oid, "create"); err != nil {
		t.Fatal(err)
	}
	entries, err := store.ListRefs("refs")
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := AdvertiseRefs(store, objhash.SHA1, "refs/heads/main", entries, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(encoded, EncodeFlush()) {
		t.Fatal("expected advertisement to end with flush packet")
	}

	lines, err := ReadAllLines(bufio.NewReader(bytes.NewReader(encoded)))
	if err != nil {
		t.Fatal(err)
	}
	first := string(lines[0])
	if !strings.HasPrefix(first, oid+" refs/heads/main\x00") {
		t.Fatalf("expected HEAD target first with NUL caps, got %q", first)
	}
	if !strings.Contains(first, "object-format=sha1") {
		t.Fatalf("expected object-format capability, got %q", first)
	}
}

func TestApplyUpdateCreatesNewRef(t *testing.T) {
	store := newTestRefStore(t)
	zero := store.ZeroOID()
	oid := strings.Repeat("a", 40)

	req := &UpdateRequest{OldOID: zero, NewOID: oid, RefName: "refs/heads/feature"}
	if err := ApplyUpdate(store, req); err != nil {
		t.Fatal(err)
	}
	got, err := store.ResolveRef("refs/heads/feature")
	if err != nil || got != oid {
		t.Fatalf("expected ref created at %s, got %s (err=%v)", oid, got, err)
	}
}

func TestApplyUpdateRejectsStaleOld(t *testing.T) {
	store := newTestRefStore(t)
	oidA := strings.Repeat("a", 40)
	oidB := strings.Repeat("b", 40)
	oidC := strings.Repeat("c", 40)
	if err := store.CreateRef("refs/heads/main", oidA, "create"); err != nil {
		t.Fatal(err)
	}

	req := &UpdateRequest{OldOID: oidB, NewOID: oidC, RefName: "refs/heads/main"}
	err := ApplyUpdate(store, req)
	if !giterr.Is(err, giterr.LockConflict) {
		t.Fatalf("expected LOCK_CONFLICT, got %v", err)
	}
}

func TestApplyUpdateDeletesOnZeroNew(t *testing.T) {
	store := newTestRefStore(t)
	oid := strings.Repeat("a", 40)
	zero := store.ZeroOID()
	if err := store.CreateRef("refs/heads/main", oid, "create"); err != nil {
		t.Fatal(err)
	}

	req := &UpdateRequest{OldOID: oid, NewOID: zero, RefName: "refs/heads/main"}
	if err := ApplyUpdate(store, req); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ResolveRef("refs/heads/main"); err == nil {
		t.Fatal("expected ref to be deleted")
	}
}

func TestParseRequestExtractsCapabilities(t *testing.T) {
	oid := strings.Repeat("a", 40)
	line := []byte(oid + " " + oid + " refs/heads/main\x00report-status side-band-64k\n")
	req, err := ParseRequest(line)
	if err != nil {
		t.Fatal(err)
	}
	if req.RefName != "refs/heads/main" || len(req.Caps) != 2 {
		t.Fatalf("unexpected parse result: %+v", req)
	}
}
