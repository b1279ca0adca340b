// Package sidecar implements the common JSON load/store discipline shared
// by every `*-codex.json` state file spec.md §3/§6 names: stash, remotes,
// submodules, worktrees, sparse, partial-clone, notes, replace, and
// rebase state.
//
// Grounded on the teacher's pkg/repo/config.go (ReadConfig/WriteConfig's
// missing-file-is-empty read and atomic temp-file-then-rename write),
// generalized from one hardcoded Config shape into a generic helper
// parameterized over any JSON-marshalable state struct.
package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Path joins gitDir with name, the sidecar file's base name (e.g.
// "stash-codex.json").
func Path(gitDir, name string) string {
	return filepath.Join(gitDir, name)
}

// Load reads and JSON-decodes the sidecar file at path into dest. A
// missing file leaves dest at its zero value and returns no error, per
// the teacher's ReadConfig behavior.
func Load(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("sidecar: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("sidecar: decode %s: %w", path, err)
	}
	return nil
}

// Store JSON-encodes src and atomically writes it to path (temp file in
// the same directory, then rename), mirroring the teacher's WriteConfig.
func Store(path string, src any) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("sidecar: encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sidecar-tmp-*")
	if err != nil {
		return fmt.Errorf("sidecar: tmpfile for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sidecar: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sidecar: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sidecar: rename %s: %w", path, err)
	}
	return nil
}
