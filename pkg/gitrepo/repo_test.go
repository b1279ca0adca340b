package gitrepo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/pkg/object"
)

func TestInitCreatesSkeletonAndOpenRoundTrips(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, InitOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Algo != objhash.SHA1 {
		t.Fatalf("expected default SHA1 algo, got %v", r.Algo)
	}
	for _, must := range []string{"HEAD", "description", "config", "objects", "refs/heads", "refs/tags"} {
		if _, err := os.Stat(filepath.Join(r.GitDir, must)); err != nil {
			t.Fatalf("expected %s to exist: %v", must, err)
		}
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.GitDir != r.GitDir {
		t.Fatalf("unexpected gitDir on reopen: %q", reopened.GitDir)
	}
}

func TestInitSHA256SelectsAlgorithmOnReopen(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, InitOptions{HashAlgorithm: objhash.SHA256}); err != nil {
		t.Fatal(err)
	}
	reopened, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Algo != objhash.SHA256 {
		t.Fatalf("expected SHA256 algo preserved across reopen, got %v", reopened.Algo)
	}
}

func TestInitRejectsExistingRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, InitOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := Init(dir, InitOptions{}); err == nil {
		t.Fatal("expected second Init to fail")
	}
}

func TestAddAndStatus(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, InitOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Add([]string{"file.txt"}); err != nil {
		t.Fatal(err)
	}

	st, err := r.Status()
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Staged) != 1 || st.Staged[0] != "file.txt" {
		t.Fatalf("expected file.txt staged, got %v", st.Staged)
	}
	if len(st.Unstaged) != 0 {
		t.Fatalf("expected nothing unstaged right after Add, got %v", st.Unstaged)
	}
}

// commitSingleFile builds a one-blob tree and commit in r, returning the
// commit OID, for tests that need a resolvable HEAD.
func commitSingleFile(t *testing.T, r *Repo, path string, content []byte) string {
	t.Helper()
	blobOID, err := r.WriteBlob(content)
	if err != nil {
		t.Fatal(err)
	}
	treeOID, err := r.WriteTree(&object.Tree{Entries: []object.TreeEntry{
		{Mode: object.ModeFile, Name: path, OID: blobOID},
	}})
	if err != nil {
		t.Fatal(err)
	}
	commitOID, err := r.WriteCommit(&object.Commit{
		TreeOID:   treeOID,
		Author:    "Test Author <test@example.com>",
		Timezone:  "+0000",
		Committer: "Test Author <test@example.com>",
		CTimezone: "+0000",
		Message:   "initial commit\n",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.CreateRef("refs/heads/main", commitOID, "test commit"); err != nil {
		t.Fatal(err)
	}
	return commitOID
}

func TestCheckoutTreeMaterializesWorktree(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, InitOptions{})
	if err != nil {
		t.Fatal(err)
	}
	commitOID := commitSingleFile(t, r, "greeting.txt", []byte("hi there"))
	commit, err := r.ReadCommit(commitOID)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.CheckoutTree(commit.TreeOID); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "greeting.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hi there" {
		t.Fatalf("unexpected checked-out content: %q", data)
	}
}

func TestCloneCopiesObjectsAndChecksOutHead(t *testing.T) {
	srcDir := t.TempDir()
	src, err := Init(srcDir, InitOptions{})
	if err != nil {
		t.Fatal(err)
	}
	commitSingleFile(t, src, "README.md", []byte("hello clone"))

	dstDir := filepath.Join(t.TempDir(), "cloned")
	dst, err := Clone(srcDir, dstDir, CloneOptions{})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dst.WorktreeRoot, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello clone" {
		t.Fatalf("unexpected cloned content: %q", data)
	}

	if _, err := dst.Refs.ResolveRef("refs/remotes/origin/main"); err != nil {
		t.Fatalf("expected remote-tracking branch to be created: %v", err)
	}
}

func TestCloneRejectsNonEmptyDestination(t *testing.T) {
	srcDir := t.TempDir()
	if _, err := Init(srcDir, InitOptions{}); err != nil {
		t.Fatal(err)
	}

	dstDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dstDir, "existing.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Clone(srcDir, dstDir, CloneOptions{}); err == nil {
		t.Fatal("expected clone into a non-empty directory to fail")
	}
}

func TestRunMaintenanceAndPruneLooseObjects(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, InitOptions{})
	if err != nil {
		t.Fatal(err)
	}
	commitSingleFile(t, r, "kept.txt", []byte("reachable"))

	orphanOID, err := r.WriteBlob([]byte("unreachable blob"))
	if err != nil {
		t.Fatal(err)
	}

	report, err := r.RunMaintenance()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, oid := range report.UnreachableLoose {
		if oid == orphanOID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s to be reported unreachable, got %v", orphanOID, report.UnreachableLoose)
	}

	if pruned, err := r.PruneLooseObjects(report, false); err != nil || len(pruned) != 0 {
		t.Fatalf("expected no-op without confirm, got pruned=%v err=%v", pruned, err)
	}

	pruned, err := r.PruneLooseObjects(report, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(pruned) != 1 || pruned[0] != orphanOID {
		t.Fatalf("expected only the orphan blob pruned, got %v", pruned)
	}
	if r.Store.Has(orphanOID) {
		t.Fatal("expected orphan blob to be removed from the object store")
	}
}
