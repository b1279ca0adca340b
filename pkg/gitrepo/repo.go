// Package gitrepo provides the Repo façade (spec.md §4.14, component M):
// init/open, clone orchestration, and the binding point for every other
// component (object store, ref store, index, wire protocol, partial
// clone, sidecar state) over a single on-disk repository.
//
// Grounded on the teacher's pkg/repo/repo.go (the Repo struct shape) and
// pkg/repo/init.go (Init/Open's directory-skeleton-create and
// upward-search logic), generalized to the git-compatible on-disk
// skeleton spec.md §4.14 names (branches, hooks, info, objects/{info,
// pack}, refs/{heads,tags}, logs/refs/{heads,tags}) instead of the
// teacher's narrower .got/{objects,refs/heads,logs/refs/heads} layout.
package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/pkg/gitconfig"
	"github.com/odvcencio/gitcore/pkg/object"
	"github.com/odvcencio/gitcore/pkg/refs"
)

// Repo is an opened repository: a worktree root paired with its gitDir,
// bound to the object store and ref store for that gitDir's hash
// algorithm.
type Repo struct {
	WorktreeRoot string
	GitDir       string
	Algo         objhash.Algo

	Store *object.Store
	Refs  *refs.Store
}

func newRepo(worktreeRoot, gitDir string, algo objhash.Algo) *Repo {
	return &Repo{
		WorktreeRoot: worktreeRoot,
		GitDir:       gitDir,
		Algo:         algo,
		Store:        object.NewStore(gitDir, algo),
		Refs:         refs.NewStore(gitDir, algo),
	}
}

// InitOptions configures Init (spec.md §4.14).
type InitOptions struct {
	// HashAlgorithm defaults to SHA-1 when zero-valued (objhash.SHA1).
	HashAlgorithm objhash.Algo
}

// skeletonDirs are created under gitDir by Init, per spec.md §4.14.
var skeletonDirs = []string{
	"branches",
	"hooks",
	"info",
	filepath.Join("objects", "info"),
	filepath.Join("objects", "pack"),
	filepath.Join("refs", "heads"),
	filepath.Join("refs", "tags"),
	filepath.Join("logs", "refs", "heads"),
	filepath.Join("logs", "refs", "tags"),
}

// Init creates the canonical directory skeleton at worktreePath/.git,
// writes HEAD/description/config, and returns the opened Repo.
func Init(worktreePath string, opts InitOptions) (*Repo, error) {
	gitDir := filepath.Join(worktreePath, ".git")
	if _, err := os.Stat(gitDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gitDir)
	}

	for _, d := range skeletonDirs {
		if err := os.MkdirAll(filepath.Join(gitDir, d), 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "description"), []byte("Unnamed repository; edit this file 'description' to name the repository.\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write description: %w", err)
	}

	cfg := defaultConfig(opts.HashAlgorithm)
	if err := gitconfig.Write(filepath.Join(gitDir, "config"), cfg); err != nil {
		return nil, fmt.Errorf("init: write config: %w", err)
	}

	return newRepo(worktreePath, gitDir, opts.HashAlgorithm), nil
}

func defaultConfig(algo objhash.Algo) *gitconfig.Config {
	cfg := &gitconfig.Config{}
	core := cfg.GetOrCreate("core", "")
	if algo == objhash.SHA256 {
		core.Entries["repositoryformatversion"] = "1"
		core.Entries["bare"] = "false"
		cfg.Set("extensions", "", "objectformat", "sha256")
	} else {
		core.Entries["repositoryformatversion"] = "0"
		core.Entries["bare"] = "false"
	}
	core.Entries["filemode"] = "true"
	return cfg
}

// configAlgo parses the hash algorithm a repo's config declares, per
// Init's encoding (extensions.objectformat=sha256 selects SHA-256; its
// absence means SHA-1).
func configAlgo(cfg *gitconfig.Config) objhash.Algo {
	if v, ok := cfg.Value("extensions", "", "objectformat"); ok && strings.EqualFold(v, "sha256") {
		return objhash.SHA256
	}
	return objhash.SHA1
}

// Open opens a repository given either a worktree path (containing
// ".git") or a gitDir/bare-repo path directly.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	worktreeRoot := abs
	gitDir := filepath.Join(abs, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		// Not a worktree with a ".git" subdirectory; try abs itself as a
		// bare/gitDir.
		gitDir = abs
		worktreeRoot = abs
	}

	for _, must := range []string{"objects", "refs", "config"} {
		if _, err := os.Stat(filepath.Join(gitDir, must)); err != nil {
			return nil, fmt.Errorf("open: not a git repository at %s (missing %s)", path, must)
		}
	}

	cfg, err := gitconfig.Read(filepath.Join(gitDir, "config"))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	algo := configAlgo(cfg)

	return newRepo(worktreeRoot, gitDir, algo), nil
}

// Config reads the repository's config file.
func (r *Repo) Config() (*gitconfig.Config, error) {
	return gitconfig.Read(filepath.Join(r.GitDir, "config"))
}

// SaveConfig writes cfg back to the repository's config file.
func (r *Repo) SaveConfig(cfg *gitconfig.Config) error {
	return gitconfig.Write(filepath.Join(r.GitDir, "config"), cfg)
}
