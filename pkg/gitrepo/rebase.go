package gitrepo

import (
	"fmt"

	"github.com/odvcencio/gitcore/pkg/giterr"
	"github.com/odvcencio/gitcore/pkg/sidecar"
)

const rebaseStateFile = "rebase-codex/state.json"

// RebaseStatus is one of the rebase lifecycle's terminal/non-terminal
// states (spec.md §3).
type RebaseStatus string

const (
	RebaseActive    RebaseStatus = "active"
	RebaseCompleted RebaseStatus = "completed"
	RebaseAborted   RebaseStatus = "aborted"
)

// RebaseStep is one step of a rebase plan (a commit to replay, by OID).
type RebaseStep struct {
	CommitOID string `json:"commitOid"`
	Message   string `json:"message,omitempty"`
}

// RebaseState is the persisted rebase sidecar (spec.md §3): created by
// start, advanced by continue (to completed once currentIndex reaches
// len(steps)), and transitioned to aborted by abort. Terminal states are
// stable — continue and abort are no-ops once reached.
type RebaseState struct {
	OriginalHead string       `json:"originalHead"`
	Onto         string       `json:"onto"`
	Steps        []RebaseStep `json:"steps"`
	CurrentIndex int          `json:"currentIndex"`
	Status       RebaseStatus `json:"status"`
}

func rebaseStatePath(gitDir string) string {
	return sidecar.Path(gitDir, rebaseStateFile)
}

func (r *Repo) loadRebaseState() (*RebaseState, error) {
	var s RebaseState
	if err := sidecar.Load(rebaseStatePath(r.GitDir), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) saveRebaseState(s *RebaseState) error {
	return sidecar.Store(rebaseStatePath(r.GitDir), s)
}

// RebaseStart creates a new rebase plan, replacing any previous state.
func (r *Repo) RebaseStart(originalHead, onto string, steps []RebaseStep) (*RebaseState, error) {
	if len(steps) == 0 {
		return nil, giterr.New(giterr.InvalidArgument, "gitrepo.RebaseStart", fmt.Errorf("rebase requires at least one step"))
	}
	s := &RebaseState{OriginalHead: originalHead, Onto: onto, Steps: steps, Status: RebaseActive}
	if err := r.saveRebaseState(s); err != nil {
		return nil, err
	}
	return s, nil
}

// RebaseContinue advances the rebase by one step. A terminal state
// (completed or aborted) ignores continue, per spec.md §3's lifecycle.
func (r *Repo) RebaseContinue() (*RebaseState, error) {
	s, err := r.loadRebaseState()
	if err != nil {
		return nil, err
	}
	if s.Status != RebaseActive {
		return s, nil
	}
	s.CurrentIndex++
	if s.CurrentIndex >= len(s.Steps) {
		s.Status = RebaseCompleted
	}
	if err := r.saveRebaseState(s); err != nil {
		return nil, err
	}
	return s, nil
}

// RebaseAbort transitions an active rebase to aborted. A terminal state
// ignores abort.
func (r *Repo) RebaseAbort() (*RebaseState, error) {
	s, err := r.loadRebaseState()
	if err != nil {
		return nil, err
	}
	if s.Status != RebaseActive {
		return s, nil
	}
	s.Status = RebaseAborted
	if err := r.saveRebaseState(s); err != nil {
		return nil, err
	}
	return s, nil
}

// RebaseStateNow returns the current rebase state (zero value, status ""
// if no rebase has ever been started).
func (r *Repo) RebaseStateNow() (*RebaseState, error) { return r.loadRebaseState() }
