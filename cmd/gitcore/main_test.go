package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chdirForTest(t *testing.T, dir string) func() {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%s): %v", dir, err)
	}
	return func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore cwd %s: %v", wd, err)
		}
	}
}

func TestInitAddStatusCommands(t *testing.T) {
	dir := t.TempDir()

	initCmd := newInitCmd()
	var initOut bytes.Buffer
	initCmd.SetOut(&initOut)
	initCmd.SetArgs([]string{dir})
	if err := initCmd.Execute(); err != nil {
		t.Fatalf("init Execute: %v\noutput:\n%s", err, initOut.String())
	}
	if !strings.Contains(initOut.String(), "initialized empty repository") {
		t.Fatalf("unexpected init output: %q", initOut.String())
	}

	restore := chdirForTest(t, dir)
	defer restore()

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	addCmd := newAddCmd()
	var addOut bytes.Buffer
	addCmd.SetOut(&addOut)
	addCmd.SetArgs([]string{"a.txt"})
	if err := addCmd.Execute(); err != nil {
		t.Fatalf("add Execute: %v\noutput:\n%s", err, addOut.String())
	}

	statusCmd := newStatusCmd()
	var statusOut bytes.Buffer
	statusCmd.SetOut(&statusOut)
	if err := statusCmd.Execute(); err != nil {
		t.Fatalf("status Execute: %v\noutput:\n%s", err, statusOut.String())
	}
	if !strings.Contains(statusOut.String(), "a.txt") {
		t.Fatalf("expected status output to mention a.txt, got %q", statusOut.String())
	}
}

func TestVersionCommandPrintsVersion(t *testing.T) {
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "gitcore") {
		t.Fatalf("unexpected version output: %q", out.String())
	}
}

func TestCloneCommandFailsWithoutResolvableHead(t *testing.T) {
	srcDir := t.TempDir()
	initCmd := newInitCmd()
	var initOut bytes.Buffer
	initCmd.SetOut(&initOut)
	initCmd.SetArgs([]string{srcDir})
	if err := initCmd.Execute(); err != nil {
		t.Fatalf("init Execute: %v", err)
	}

	restoreSrc := chdirForTest(t, srcDir)
	if err := os.WriteFile(filepath.Join(srcDir, "README.md"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	addCmd := newAddCmd()
	addCmd.SetArgs([]string{"README.md"})
	addCmd.SetOut(&bytes.Buffer{})
	if err := addCmd.Execute(); err != nil {
		t.Fatalf("add Execute: %v", err)
	}
	restoreSrc()

	// The CLI's clone command relies on pkg/gitrepo.Clone, which requires a
	// resolvable HEAD; committing via the CLI is out of scope for this
	// package (no "commit" subcommand yet), so this test only exercises
	// command wiring/flag parsing, not a full end-to-end clone.
	dstDir := filepath.Join(t.TempDir(), "cloned")
	cloneCmd := newCloneCmd()
	var cloneOut bytes.Buffer
	cloneCmd.SetOut(&cloneOut)
	cloneCmd.SetArgs([]string{srcDir, dstDir, "--depth", "1"})
	err := cloneCmd.Execute()
	if err == nil {
		t.Fatal("expected clone to fail without a resolvable HEAD in the source")
	}
}
