package gitrepo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitcore/pkg/sidecar"
)

const submodulesStateFile = "submodules-codex.json"

// Submodule records one `[submodule "X"] path=... url=...` entry parsed
// from .gitmodules (spec.md §4.14 step 11).
type Submodule struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	URL    string `json:"url"`
	Branch string `json:"branch,omitempty"`
}

// SubmodulesState is the persisted submodules sidecar.
type SubmodulesState struct {
	Submodules []Submodule `json:"submodules,omitempty"`
}

func submodulesStatePath(gitDir string) string { return sidecar.Path(gitDir, submodulesStateFile) }

// Submodules loads the persisted submodules sidecar.
func (r *Repo) Submodules() (*SubmodulesState, error) {
	var s SubmodulesState
	if err := sidecar.Load(submodulesStatePath(r.GitDir), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSubmodules replaces the persisted submodule list wholesale — the
// shape .gitmodules parsing naturally produces on each clone/update.
func (r *Repo) SetSubmodules(subs []Submodule) error {
	return sidecar.Store(submodulesStatePath(r.GitDir), &SubmodulesState{Submodules: subs})
}

// ParseGitmodules parses the minimal `[submodule "name"]` / `path = ...` /
// `url = ...` / `branch = ...` block grammar .gitmodules uses — the same
// sectioned grammar gitconfig.Parse already understands.
func ParseGitmodules(text string) ([]Submodule, error) {
	var subs []Submodule
	var cur *Submodule
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[submodule ") && strings.HasSuffix(line, "]") {
			inner := strings.TrimSuffix(strings.TrimPrefix(line, "[submodule "), "]")
			name := strings.Trim(inner, `"`)
			if cur != nil {
				subs = append(subs, *cur)
			}
			cur = &Submodule{Name: name}
			continue
		}
		if cur == nil {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		switch key {
		case "path":
			cur.Path = val
		case "url":
			cur.URL = val
		case "branch":
			cur.Branch = val
		}
	}
	if cur != nil {
		subs = append(subs, *cur)
	}
	for _, s := range subs {
		if s.Path == "" || s.URL == "" {
			return nil, fmt.Errorf("gitmodules: submodule %q missing path or url", s.Name)
		}
	}
	return subs, nil
}
