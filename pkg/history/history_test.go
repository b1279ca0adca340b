package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/pkg/object"
	"github.com/odvcencio/gitcore/pkg/refs"
)

func setupRepo(t *testing.T) (gitDir string, store *object.Store, refStore *refs.Store) {
	t.Helper()
	gitDir = t.TempDir()
	if err := os.MkdirAll(filepath.Join(gitDir, "refs", "heads"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store = object.NewStore(gitDir, object.SHA256)
	refStore = refs.NewStore(gitDir, objhash.SHA256)
	return gitDir, store, refStore
}

func mkTree(t *testing.T, store *object.Store, files map[string]string) string {
	t.Helper()
	var entries []object.TreeEntry
	for name, content := range files {
		oid, err := store.WriteBlob([]byte(content))
		if err != nil {
			t.Fatal(err)
		}
		entries = append(entries, object.TreeEntry{Mode: object.ModeFile, Name: name, OID: oid})
	}
	oid, err := store.WriteTree(&object.Tree{Entries: entries})
	if err != nil {
		t.Fatal(err)
	}
	return oid
}

func TestLastModifiedFindsChangePoint(t *testing.T) {
	gitDir, store, refStore := setupRepo(t)

	tree1 := mkTree(t, store, map[string]string{"a.txt": "v1"})
	c1, err := store.WriteCommit(&object.Commit{TreeOID: tree1, Message: "c1"})
	if err != nil {
		t.Fatal(err)
	}

	tree2 := mkTree(t, store, map[string]string{"a.txt": "v1"}) // same content, same OID
	c2, err := store.WriteCommit(&object.Commit{TreeOID: tree2, Parents: []string{c1}, Message: "c2 unrelated"})
	if err != nil {
		t.Fatal(err)
	}

	tree3 := mkTree(t, store, map[string]string{"a.txt": "v2"})
	c3, err := store.WriteCommit(&object.Commit{TreeOID: tree3, Parents: []string{c2}, Message: "c3 changes a.txt"})
	if err != nil {
		t.Fatal(err)
	}

	if err := refStore.CreateRef("refs/heads/main", c3, "create"); err != nil {
		t.Fatal(err)
	}

	result, err := LastModified(store, refStore, gitDir, "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if result.CommitOID != c3 {
		t.Fatalf("expected change point %s, got %s", c3, result.CommitOID)
	}
}

func TestLastModifiedRootCommit(t *testing.T) {
	gitDir, store, refStore := setupRepo(t)
	tree := mkTree(t, store, map[string]string{"a.txt": "v1"})
	c1, err := store.WriteCommit(&object.Commit{TreeOID: tree, Message: "root"})
	if err != nil {
		t.Fatal(err)
	}
	if err := refStore.CreateRef("refs/heads/main", c1, "create"); err != nil {
		t.Fatal(err)
	}

	result, err := LastModified(store, refStore, gitDir, "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if result.CommitOID != c1 {
		t.Fatalf("expected root commit %s, got %s", c1, result.CommitOID)
	}
}

func TestLastModifiedAbsentPath(t *testing.T) {
	gitDir, store, refStore := setupRepo(t)
	tree := mkTree(t, store, map[string]string{"a.txt": "v1"})
	c1, err := store.WriteCommit(&object.Commit{TreeOID: tree, Message: "root"})
	if err != nil {
		t.Fatal(err)
	}
	if err := refStore.CreateRef("refs/heads/main", c1, "create"); err != nil {
		t.Fatal(err)
	}

	result, err := LastModified(store, refStore, gitDir, "missing.txt")
	if err != nil {
		t.Fatal(err)
	}
	if result.CommitOID != "" {
		t.Fatalf("expected no change point for absent path, got %s", result.CommitOID)
	}
}

func TestBlameAtAttributesToChangePoint(t *testing.T) {
	gitDir, store, refStore := setupRepo(t)
	tree1 := mkTree(t, store, map[string]string{"a.txt": "v1"})
	c1, err := store.WriteCommit(&object.Commit{TreeOID: tree1, Author: "Ada <ada@example.com>", Message: "root"})
	if err != nil {
		t.Fatal(err)
	}
	if err := refStore.CreateRef("refs/heads/main", c1, "create"); err != nil {
		t.Fatal(err)
	}

	entry, err := BlameAt(store, refStore, gitDir, "HEAD", "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Author != "Ada <ada@example.com>" || entry.CommitOID != c1 {
		t.Fatalf("unexpected blame entry: %+v", entry)
	}
}
