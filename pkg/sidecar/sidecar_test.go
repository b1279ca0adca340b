package sidecar

import (
	"path/filepath"
	"testing"
)

type testState struct {
	Names []string `json:"names,omitempty"`
}

func TestLoadMissingFileLeavesZeroValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-codex.json")
	var s testState
	if err := Load(path, &s); err != nil {
		t.Fatal(err)
	}
	if s.Names != nil {
		t.Fatalf("expected zero value, got %+v", s)
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state-codex.json")
	want := testState{Names: []string{"a", "b"}}
	if err := Store(path, &want); err != nil {
		t.Fatal(err)
	}

	var got testState
	if err := Load(path, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Names) != 2 || got.Names[0] != "a" || got.Names[1] != "b" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
