package patch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitLinesNormalizesCRLF(t *testing.T) {
	got := SplitLines("a\r\nb\nc")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSplitLinesEmptyInput(t *testing.T) {
	if got := SplitLines(""); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

func TestGenerateUnifiedDiffShape(t *testing.T) {
	text := GenerateUnifiedDiff("a.txt", []byte("old\n"), []byte("new1\nnew2\n"))
	want := "--- a/a.txt\n+++ b/a.txt\n@@ -1,2 +1,3 @@\n-old\n-\n+new1\n+new2\n+\n"
	if text != want {
		t.Fatalf("unexpected diff:\ngot:  %q\nwant: %q", text, want)
	}
}

func TestApplyUnifiedPatchForwardAndReverse(t *testing.T) {
	root := t.TempDir()
	p := GenerateUnifiedDiff("a.txt", []byte("old\n"), []byte("new\n"))

	path, err := ApplyUnifiedPatch(root, p, false)
	if err != nil {
		t.Fatal(err)
	}
	if path != "a.txt" {
		t.Fatalf("expected target a.txt, got %s", path)
	}
	got, err := os.ReadFile(filepath.Join(root, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new\n" {
		t.Fatalf("expected forward content %q, got %q", "new\n", got)
	}

	if _, err := ApplyUnifiedPatch(root, p, true); err != nil {
		t.Fatal(err)
	}
	got, err = os.ReadFile(filepath.Join(root, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "old\n" {
		t.Fatalf("expected reverse content %q, got %q", "old\n", got)
	}
}

func TestApplyUnifiedPatchRejectsUnsafeTarget(t *testing.T) {
	root := t.TempDir()
	p := "--- a/../escape.txt\n+++ b/../escape.txt\n@@ -1,0 +1,1 @@\n+hacked\n"
	_, err := ApplyUnifiedPatch(root, p, false)
	if err == nil {
		t.Fatal("expected error for unsafe target path")
	}
}

func TestReplayRejectsEmptyStepList(t *testing.T) {
	_, err := Replay(t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected error for empty step list")
	}
}

func TestReplayCompletesAllSteps(t *testing.T) {
	root := t.TempDir()
	steps := []Step{
		{PatchText: GenerateUnifiedDiff("a.txt", nil, []byte("a\n"))},
		{PatchText: GenerateUnifiedDiff("b.txt", nil, []byte("b\n"))},
	}
	result, err := Replay(root, steps)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusCompleted || result.FailedStep != nil {
		t.Fatalf("expected completed with no failed step, got %+v", result)
	}
	if len(result.AppliedPaths) != 2 {
		t.Fatalf("expected 2 applied paths, got %v", result.AppliedPaths)
	}
}

func TestReplayStopsOnFirstConflictButKeepsProgress(t *testing.T) {
	root := t.TempDir()
	steps := []Step{
		{PatchText: GenerateUnifiedDiff("a.txt", nil, []byte("a\n"))},
		{PatchText: "--- a/../bad.txt\n+++ b/../bad.txt\n@@ -1,0 +1,1 @@\n+x\n"},
		{PatchText: GenerateUnifiedDiff("c.txt", nil, []byte("c\n"))},
	}
	result, err := Replay(root, steps)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusConflict {
		t.Fatalf("expected conflict, got %s", result.Status)
	}
	if result.FailedStep == nil || *result.FailedStep != 1 {
		t.Fatalf("expected failedStep=1, got %v", result.FailedStep)
	}
	if len(result.AppliedPaths) != 1 || result.AppliedPaths[0] != "a.txt" {
		t.Fatalf("expected a.txt applied before conflict, got %v", result.AppliedPaths)
	}
	// c.txt was never reached.
	if _, err := os.Stat(filepath.Join(root, "c.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected c.txt to not exist after conflict stopped replay")
	}
	// a.txt's write remains on disk — "make progress" semantics.
	if _, err := os.Stat(filepath.Join(root, "a.txt")); err != nil {
		t.Fatalf("expected a.txt to remain written after conflict: %v", err)
	}
}
