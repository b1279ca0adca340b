package refs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// reflogActor is the fixed committer identity the core stamps into reflog
// entries. There is no local user/email configuration layer in scope
// (spec.md Non-goals), so every entry is attributed uniformly.
const reflogActor = "repo <repo@example.local>"

func (s *Store) reflogPath(name string) string {
	return filepath.Join(s.gitDir, "logs", filepath.FromSlash(name))
}

// appendReflog appends one line to logs/<name> in the exact grammar
// spec.md §3 specifies:
//
//	<old-oid> SP <new-oid> SP <actor> SP <unix-seconds> SP +0000 TAB <message> LF
//
// Reflog append failure does not revert a ref update that already landed;
// callers treat this as best-effort history, not a CAS participant.
func (s *Store) appendReflog(name, oldOID, newOID, message string) error {
	path := s.reflogPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("append reflog %q: mkdir: %w", name, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append reflog %q: open: %w", name, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s %s %d +0000\t%s\n", oldOID, newOID, reflogActor, nowFunc(), message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append reflog %q: write: %w", name, err)
	}
	return nil
}

// nowFunc is a seam for tests that need deterministic reflog timestamps.
var nowFunc = func() int64 { return time.Now().Unix() }
