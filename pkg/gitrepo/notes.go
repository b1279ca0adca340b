package gitrepo

import "github.com/odvcencio/gitcore/pkg/sidecar"

const notesStateFile = "notes-codex.json"

// NotesState is the persisted notes sidecar: a map of commit OID to a
// free-form annotation, mirroring Git's refs/notes/commits namespace
// without requiring a notes tree object.
type NotesState struct {
	Notes map[string]string `json:"notes,omitempty"`
}

func notesStatePath(gitDir string) string { return sidecar.Path(gitDir, notesStateFile) }

// Notes loads the persisted notes sidecar.
func (r *Repo) Notes() (*NotesState, error) {
	var s NotesState
	if err := sidecar.Load(notesStatePath(r.GitDir), &s); err != nil {
		return nil, err
	}
	if s.Notes == nil {
		s.Notes = make(map[string]string)
	}
	return &s, nil
}

// SetNote attaches or replaces the note on oid.
func (r *Repo) SetNote(oid, note string) error {
	s, err := r.Notes()
	if err != nil {
		return err
	}
	s.Notes[oid] = note
	return sidecar.Store(notesStatePath(r.GitDir), s)
}

// RemoveNote deletes the note on oid, if any.
func (r *Repo) RemoveNote(oid string) error {
	s, err := r.Notes()
	if err != nil {
		return err
	}
	delete(s.Notes, oid)
	return sidecar.Store(notesStatePath(r.GitDir), s)
}
