package gitrepo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/internal/pathsafe"
)

func dirExists(gitDir, rel string) bool {
	info, err := os.Stat(filepath.Join(gitDir, rel))
	return err == nil && info.IsDir()
}

func fileExists(gitDir, rel string) bool {
	info, err := os.Stat(filepath.Join(gitDir, rel))
	return err == nil && !info.IsDir()
}

// removeLooseObject deletes a loose object file by OID.
func (r *Repo) removeLooseObject(oid string) error {
	return os.Remove(filepath.Join(r.GitDir, "objects", oid[:2], oid[2:]))
}

// mkdirForGitlink creates an empty directory at a submodule gitlink's
// worktree-relative path, per spec.md §4.14 step 7 ("for gitlink entries,
// create empty directories").
func mkdirForGitlink(worktreeRoot, relPath string) error {
	if !pathsafe.IsSafe(relPath) {
		return os.ErrInvalid
	}
	return os.MkdirAll(filepath.Join(worktreeRoot, filepath.FromSlash(relPath)), 0o755)
}

// readObjectShards enumerates every loose object OID under
// gitDir/objects/<xx>/<rest>, skipping the "info" and "pack" subtrees
// (opaque pack-bundle territory, not loose objects).
func readObjectShards(gitDir string) ([]string, error) {
	root := filepath.Join(gitDir, "objects")
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var oids []string
	for _, shard := range entries {
		if !shard.IsDir() || len(shard.Name()) != 2 || shard.Name() == "info" || shard.Name() == "pack" {
			continue
		}
		rest, err := os.ReadDir(filepath.Join(root, shard.Name()))
		if err != nil {
			continue
		}
		for _, f := range rest {
			if f.IsDir() || strings.HasSuffix(f.Name(), ".lock") {
				continue
			}
			oid := shard.Name() + f.Name()
			if objhash.Valid(oid) {
				oids = append(oids, oid)
			}
		}
	}
	return oids, nil
}
