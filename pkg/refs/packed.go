package refs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (s *Store) packedRefsPath() string {
	return filepath.Join(s.gitDir, "packed-refs")
}

// readPackedRefs parses packed-refs into a name->OID map. Lines starting
// with "^" (peeled tag targets) are ignored by the core (spec.md §3).
func (s *Store) readPackedRefs() (map[string]string, error) {
	data, err := os.ReadFile(s.packedRefsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	out := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}
		oid, name, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		out[name] = oid
	}
	return out, nil
}

// removeFromPackedRefs drops name's entry (and any immediately following
// "^..." peeled line) from packed-refs, rewriting the file in canonical
// form. Trailing newline is preserved only when the resulting file is
// non-empty (spec.md §4.6).
func (s *Store) removeFromPackedRefs(name string) error {
	path := s.packedRefsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	lines := strings.Split(string(data), "\n")
	// A trailing split element from the final "\n" is an empty string; drop
	// it so we don't re-introduce a doubled blank line below.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var kept []string
	skipNextPeeled := false
	found := false
	for _, line := range lines {
		if skipNextPeeled {
			skipNextPeeled = false
			if strings.HasPrefix(line, "^") {
				continue
			}
		}
		if !strings.HasPrefix(line, "#") {
			if oid, n, ok := strings.Cut(line, " "); ok && n == name {
				_ = oid
				found = true
				skipNextPeeled = true
				continue
			}
		}
		kept = append(kept, line)
	}
	if !found {
		return nil
	}

	var out string
	if len(kept) > 0 {
		out = strings.Join(kept, "\n") + "\n"
	}
	return atomicWriteFile(path, []byte(out))
}

// writePackedRefs persists the canonical packed-refs form for entries.
func (s *Store) writePackedRefs(entries map[string]string) error {
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sortStrings(names)

	var b strings.Builder
	b.WriteString("# pack-refs with: peeled fully-peeled sorted\n")
	for _, n := range names {
		fmt.Fprintf(&b, "%s %s\n", entries[n], n)
	}
	return atomicWriteFile(s.packedRefsPath(), []byte(b.String()))
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
