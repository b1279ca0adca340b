package gitrepo

import "github.com/odvcencio/gitcore/pkg/sidecar"

const remotesStateFile = "remotes-codex.json"

// RemoteConfig records one named remote's sync configuration (the
// config-file [remote "name"] block — the main clone step 10 already
// patches "config" directly — normalized again here so every other
// sidecar consumer can read it without an INI parse).
type RemoteConfig struct {
	Name               string   `json:"name"`
	URL                string   `json:"url"`
	FetchRefspecs      []string `json:"fetch,omitempty"`
	Promisor           bool     `json:"promisor,omitempty"`
	PartialCloneFilter string   `json:"partialCloneFilter,omitempty"`
}

// RemotesState is the persisted remotes sidecar: a name-keyed list.
type RemotesState struct {
	Remotes []RemoteConfig `json:"remotes,omitempty"`
}

func remotesStatePath(gitDir string) string { return sidecar.Path(gitDir, remotesStateFile) }

// Remotes loads the persisted remotes sidecar.
func (r *Repo) Remotes() (*RemotesState, error) {
	var s RemotesState
	if err := sidecar.Load(remotesStatePath(r.GitDir), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetRemote upserts a remote by name.
func (r *Repo) SetRemote(rc RemoteConfig) (*RemotesState, error) {
	s, err := r.Remotes()
	if err != nil {
		return nil, err
	}
	found := false
	for i := range s.Remotes {
		if s.Remotes[i].Name == rc.Name {
			s.Remotes[i] = rc
			found = true
			break
		}
	}
	if !found {
		s.Remotes = append(s.Remotes, rc)
	}
	if err := sidecar.Store(remotesStatePath(r.GitDir), s); err != nil {
		return nil, err
	}
	return s, nil
}

// RemoveRemote drops a remote by name.
func (r *Repo) RemoveRemote(name string) error {
	s, err := r.Remotes()
	if err != nil {
		return err
	}
	out := s.Remotes[:0]
	for _, rc := range s.Remotes {
		if rc.Name != name {
			out = append(out, rc)
		}
	}
	s.Remotes = out
	return sidecar.Store(remotesStatePath(r.GitDir), s)
}
