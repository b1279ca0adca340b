package ports

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestOSFilesystemRoundTrip(t *testing.T) {
	var fs OSFilesystem
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	if err := fs.Mkdir(sub, true); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(sub, "f.txt")
	if err := fs.WriteFile(file, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := fs.AppendFile(file, " world"); err != nil {
		t.Fatal(err)
	}
	data, err := fs.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello world" {
		t.Fatalf("unexpected content: %q", data)
	}

	info, err := fs.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	if info.IsDir || info.Size != int64(len(data)) {
		t.Fatalf("unexpected stat: %+v", info)
	}

	entries, err := fs.ReadDir(sub)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "f.txt" {
		t.Fatalf("unexpected dir listing: %+v", entries)
	}

	if err := fs.Remove(file); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Stat(file); err == nil {
		t.Fatal("expected removed file to be gone")
	}
}

func TestOSHookExecuteCapturesOutputAndExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script hook fixture is POSIX-only")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "hook.sh")
	body := "#!/bin/sh\necho -n \"$GREETING\"\nexit 3\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}

	h := OSHook{Dir: dir}
	res, err := h.Execute(context.Background(), HookRequest{
		Name: script,
		Env:  map[string]string{"GREETING": "hi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", res.ExitCode)
	}
	if string(res.Stdout) != "hi" {
		t.Fatalf("unexpected stdout: %q", res.Stdout)
	}
}
