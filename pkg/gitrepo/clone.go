// Clone orchestration (spec.md §4.14, component M). Grounded on the
// teacher's pkg/repo/init.go (Init/Open skeleton logic, reused via this
// package's own Init/Open), pkg/repo/branch.go (ref-rewiring into
// remote-tracking branches), and pkg/repo/checkout.go (worktree
// materialization) — generalized to the git-compatible skeleton this
// module's Init produces.
package gitrepo

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/gitcore/pkg/giterr"
	"github.com/odvcencio/gitcore/pkg/object"
	"github.com/odvcencio/gitcore/pkg/partial"
	"github.com/odvcencio/gitcore/pkg/ports"
	"github.com/odvcencio/gitcore/pkg/refs"
)

// CloneOptions configures Clone (spec.md §4.14).
type CloneOptions struct {
	Branch            string
	Depth             int
	Filter            string
	RecurseSubmodules bool
	Credential        ports.Credential
	Progress          ProgressCallback
}

// resolveSource turns a clone source string into a local gitDir path to
// copy from. http(s) and ssh sources ultimately resolve to a local mirror
// path — this module's explicit scope boundary (spec.md §9): it does not
// perform a real upload-pack negotiation over the wire.
func resolveSource(src string, opts CloneOptions) (string, error) {
	switch {
	case strings.HasPrefix(src, "file://"):
		return strings.TrimPrefix(src, "file://"), nil

	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		reportProgress(opts.Progress, "discover", 0, 0, "GET "+src+"/info/refs?service=git-upload-pack")
		resp, err := http.Get(strings.TrimRight(src, "/") + "/info/refs?service=git-upload-pack")
		if err != nil {
			return "", giterr.New(giterr.NetworkError, "gitrepo.resolveSource", err)
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)
		if resp.StatusCode >= 400 {
			return "", giterr.New(giterr.NetworkError, "gitrepo.resolveSource", fmt.Errorf("info/refs: HTTP %d", resp.StatusCode))
		}
		mirror := resp.Header.Get("x-codex-repo-path")
		if mirror == "" {
			return "", giterr.New(giterr.Unsupported, "gitrepo.resolveSource", fmt.Errorf("server did not advertise x-codex-repo-path; real upload-pack negotiation is out of scope"))
		}
		return mirror, nil

	case strings.HasPrefix(src, "ssh://"):
		if opts.Credential == nil {
			return "", giterr.New(giterr.AuthRequired, "gitrepo.resolveSource", fmt.Errorf("ssh clone requires a credential port"))
		}
		u, err := url.Parse(src)
		if err != nil {
			return "", giterr.New(giterr.InvalidArgument, "gitrepo.resolveSource", err)
		}
		username, secret, ok, err := opts.Credential.Get(src)
		if err != nil {
			return "", giterr.New(giterr.AuthRequired, "gitrepo.resolveSource", err)
		}
		if !ok {
			return "", giterr.New(giterr.AuthRequired, "gitrepo.resolveSource", fmt.Errorf("no credential for %s", src))
		}
		reportProgress(opts.Progress, "auth", 0, 0, fmt.Sprintf("ssh auth as %s secret=%s", username, redactSecret(secret)))
		return u.Path, nil

	default:
		return src, nil
	}
}

func redactSecret(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// Clone resolves src, validates and initializes dst, and materializes the
// result per spec.md §4.14's numbered clone contract.
func Clone(src, dst string, opts CloneOptions) (*Repo, error) {
	if opts.Depth < 0 {
		return nil, giterr.New(giterr.InvalidArgument, "gitrepo.Clone", fmt.Errorf("depth must be >= 1 when given"))
	}
	if strings.TrimSpace(opts.Branch) == "" && opts.Branch != "" {
		return nil, giterr.New(giterr.InvalidArgument, "gitrepo.Clone", fmt.Errorf("branch must not be blank"))
	}
	if strings.TrimSpace(opts.Filter) == "" && opts.Filter != "" {
		return nil, giterr.New(giterr.InvalidArgument, "gitrepo.Clone", fmt.Errorf("filter must not be blank"))
	}

	sourcePath, err := resolveSource(src, opts)
	if err != nil {
		return nil, err
	}
	srcRepo, err := Open(sourcePath)
	if err != nil {
		return nil, giterr.New(giterr.NotFound, "gitrepo.Clone", err)
	}

	if info, err := os.Stat(dst); err == nil {
		if !info.IsDir() {
			return nil, giterr.New(giterr.AlreadyExists, "gitrepo.Clone", fmt.Errorf("%s exists and is not a directory", dst))
		}
		entries, err := os.ReadDir(dst)
		if err != nil {
			return nil, giterr.New(giterr.IOError, "gitrepo.Clone", err)
		}
		if len(entries) > 0 {
			return nil, giterr.New(giterr.AlreadyExists, "gitrepo.Clone", fmt.Errorf("%s is a non-empty directory", dst))
		}
	} else if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, giterr.New(giterr.IOError, "gitrepo.Clone", err)
	}

	reportProgress(opts.Progress, "init", 0, 0, "initializing target repository")
	dstRepo, err := Init(dst, InitOptions{HashAlgorithm: srcRepo.Algo})
	if err != nil {
		return nil, err
	}

	reportProgress(opts.Progress, "copy-objects", 0, 0, "copying object database")
	if err := copyTree(srcRepo.GitDir, dstRepo.GitDir); err != nil {
		return nil, giterr.New(giterr.IOError, "gitrepo.Clone", err)
	}

	// Re-derive config rather than keep the source's copied one verbatim —
	// step 5 explicitly overwrites config with this repo's own.
	if err := dstRepo.SaveConfig(defaultConfig(srcRepo.Algo)); err != nil {
		return nil, err
	}

	if opts.Branch != "" {
		branchRef := refs.Normalize("refs/heads/" + opts.Branch)
		if _, err := dstRepo.Refs.ResolveRef(branchRef); err != nil {
			return nil, giterr.New(giterr.NotFound, "gitrepo.Clone", fmt.Errorf("branch %q does not exist in source", opts.Branch))
		}
		if err := dstRepo.Refs.SetHeadSymbolic(branchRef); err != nil {
			return nil, err
		}
	}

	if err := rebindRemoteTracking(dstRepo); err != nil {
		return nil, err
	}

	headOID, err := dstRepo.Refs.ResolveHead()
	if err != nil {
		return nil, giterr.New(giterr.NotFound, "gitrepo.Clone", fmt.Errorf("clone: source has no resolvable HEAD: %w", err))
	}

	reportProgress(opts.Progress, "checkout", 0, 0, "materializing worktree")
	headCommit, err := dstRepo.Store.ReadCommit(headOID)
	if err != nil {
		return nil, giterr.New(giterr.ObjectFormat, "gitrepo.Clone", err)
	}
	if err := dstRepo.CheckoutTree(headCommit.TreeOID); err != nil {
		return nil, err
	}

	if opts.Depth > 0 {
		boundary, err := dstRepo.ShallowBoundary(headOID, opts.Depth)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dstRepo.GitDir, "shallow"), []byte(strings.Join(boundary, "\n")+"\n"), 0o644); err != nil {
			return nil, giterr.New(giterr.IOError, "gitrepo.Clone", err)
		}
	}

	if opts.Filter != "" {
		caps := []string{"filter", "object-format=" + dstRepo.Algo.String()}
		if _, err := partial.NegotiatePartialCloneFilter(dstRepo.GitDir, opts.Filter, caps); err != nil {
			return nil, err
		}
	}

	if err := patchOriginRemote(dstRepo, src, opts.Filter); err != nil {
		return nil, err
	}

	if opts.RecurseSubmodules {
		if err := cloneSubmodules(dstRepo, headCommit.TreeOID, opts); err != nil {
			return nil, err
		}
	}

	reportProgress(opts.Progress, "done", 0, 0, "clone complete")
	return dstRepo, nil
}

// rebindRemoteTracking implements spec.md §4.14 step 6: create
// refs/remotes/origin/<X> for every refs/heads/<X>, and if HEAD is
// symbolic, delete every other local head and point
// refs/remotes/origin/HEAD at the matching remote-tracking branch.
func rebindRemoteTracking(r *Repo) error {
	heads, err := r.Refs.ListRefs("refs/heads")
	if err != nil {
		return err
	}
	for _, h := range heads {
		name := strings.TrimPrefix(h.Name, "refs/heads/")
		if err := r.Refs.CreateRef("refs/remotes/origin/"+name, h.OID, "clone: remote-tracking"); err != nil {
			return err
		}
	}

	target, symbolic, err := r.Refs.HeadTarget()
	if err != nil {
		return err
	}
	if !symbolic {
		return nil
	}
	headBranch := strings.TrimPrefix(target, "refs/heads/")
	for _, h := range heads {
		name := strings.TrimPrefix(h.Name, "refs/heads/")
		if name == headBranch {
			continue
		}
		if err := r.Refs.DeleteRef(h.Name, "clone: prune non-HEAD local branch"); err != nil {
			return err
		}
	}

	// refs/remotes/origin/HEAD is symbolic, like HEAD itself, which the ref
	// store's loose-file format already supports via the "ref: <name>"
	// convention — write it directly rather than through UpdateRef/CreateRef,
	// which assume an OID value.
	target = "refs/remotes/origin/" + headBranch
	path := filepath.Join(r.GitDir, "refs", "remotes", "origin", "HEAD")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("ref: "+target+"\n"), 0o644)
}

func patchOriginRemote(r *Repo, url, filter string) error {
	cfg, err := r.Config()
	if err != nil {
		return err
	}
	remote := cfg.GetOrCreate("remote", "origin")
	remote.Entries["url"] = url
	remote.Entries["fetch"] = "+refs/heads/*:refs/remotes/origin/*"
	if filter != "" {
		remote.Entries["promisor"] = "true"
		remote.Entries["partialclonefilter"] = filter
	}
	if err := r.SaveConfig(cfg); err != nil {
		return err
	}

	_, err = r.SetRemote(RemoteConfig{
		Name:               "origin",
		URL:                url,
		FetchRefspecs:      []string{"+refs/heads/*:refs/remotes/origin/*"},
		Promisor:           filter != "",
		PartialCloneFilter: filter,
	})
	return err
}

func cloneSubmodules(r *Repo, headTreeOID string, opts CloneOptions) error {
	gitmodulesOID, found, err := lookupTreeEntryOID(r.Store, headTreeOID, ".gitmodules")
	if err != nil || !found {
		return err
	}
	blob, err := r.Store.ReadBlob(gitmodulesOID)
	if err != nil {
		return err
	}
	subs, err := ParseGitmodules(string(blob.Data))
	if err != nil {
		return err
	}
	if err := r.SetSubmodules(subs); err != nil {
		return err
	}

	mat, err := r.MaterializeTree(headTreeOID)
	if err != nil {
		return err
	}
	gitlinkOID := make(map[string]string, len(mat.Gitlinks))
	for _, gl := range mat.Gitlinks {
		gitlinkOID[gl.Path] = gl.OID
	}

	for _, sub := range subs {
		target := filepath.Join(r.WorktreeRoot, filepath.FromSlash(sub.Path))
		reportProgress(opts.Progress, "submodule", 0, 0, "cloning submodule "+sub.Name)
		subOpts := CloneOptions{Depth: opts.Depth, Filter: opts.Filter, RecurseSubmodules: true, Credential: opts.Credential, Progress: opts.Progress}
		subRepo, err := Clone(sub.URL, target, subOpts)
		if err != nil {
			return fmt.Errorf("clone submodule %q: %w", sub.Name, err)
		}
		if pinned, ok := gitlinkOID[sub.Path]; ok {
			if err := subRepo.DetachHead(pinned); err != nil {
				return fmt.Errorf("checkout submodule %q at %s: %w", sub.Name, pinned, err)
			}
			commit, err := subRepo.Store.ReadCommit(pinned)
			if err != nil {
				return fmt.Errorf("checkout submodule %q at %s: %w", sub.Name, pinned, err)
			}
			if err := subRepo.CheckoutTree(commit.TreeOID); err != nil {
				return err
			}
		}
	}
	return nil
}

func lookupTreeEntryOID(store *object.Store, treeOID, name string) (string, bool, error) {
	tree, err := store.ReadTree(treeOID)
	if err != nil {
		return "", false, err
	}
	for _, e := range tree.Entries {
		if e.Name == name {
			return e.OID, true, nil
		}
	}
	return "", false, nil
}

// copyTree recursively copies src's contents into dst (both directories),
// used by Clone to duplicate the source gitDir wholesale (spec.md §4.14
// step 4: "copy the source's gitDir contents (excluding none)").
func copyTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		srcPath := filepath.Join(src, e.Name())
		dstPath := filepath.Join(dst, e.Name())
		if e.IsDir() {
			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				return err
			}
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		data, err := os.ReadFile(srcPath)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dstPath, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
