// Package gitconfig reads and writes the canonical Git "config" file: a
// line-oriented `[section "subsection"]` / `key = value` INI-like format.
// This is the one ambient config syntax spec.md names explicitly (§4.14,
// §6), so it is handled by this small hand-rolled reader/writer rather
// than a third-party parser — introducing an unrelated config syntax
// (TOML, YAML) into a file whose on-disk shape is fixed by Git
// compatibility would contradict §6's layout invariant. Grounded in style
// on the teacher's pkg/repo/config.go line-building/parsing discipline,
// generalized from the teacher's single flat key=value shape to Git's
// sectioned grammar.
package gitconfig

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Section is one `[name "subsection"]` block (subsection may be empty).
type Section struct {
	Name       string
	Subsection string
	Entries    map[string]string
}

// Config is an ordered list of sections; order is preserved on decode and
// append, but Set upserts within the section insertion order.
type Config struct {
	Sections []*Section
}

// Get finds a section by name+subsection, returning nil if absent.
func (c *Config) Get(name, subsection string) *Section {
	for _, s := range c.Sections {
		if s.Name == name && s.Subsection == subsection {
			return s
		}
	}
	return nil
}

// GetOrCreate returns the matching section, creating and appending one if
// none exists yet.
func (c *Config) GetOrCreate(name, subsection string) *Section {
	if s := c.Get(name, subsection); s != nil {
		return s
	}
	s := &Section{Name: name, Subsection: subsection, Entries: make(map[string]string)}
	c.Sections = append(c.Sections, s)
	return s
}

// Set upserts a key=value pair in the named section/subsection.
func (c *Config) Set(name, subsection, key, value string) {
	c.GetOrCreate(name, subsection).Entries[key] = value
}

// Value looks up a key within name/subsection, returning ("", false) if
// the section or key is absent.
func (c *Config) Value(name, subsection, key string) (string, bool) {
	s := c.Get(name, subsection)
	if s == nil {
		return "", false
	}
	v, ok := s.Entries[key]
	return v, ok
}

// Parse decodes Git's config text format.
func Parse(text string) (*Config, error) {
	cfg := &Config{}
	var cur *Section
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("gitconfig: malformed section header %q", rawLine)
			}
			inner := line[1 : len(line)-1]
			name, sub, _ := strings.Cut(inner, " ")
			sub = strings.Trim(sub, `"`)
			cur = cfg.GetOrCreate(strings.TrimSpace(name), sub)
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("gitconfig: entry %q outside any section", rawLine)
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("gitconfig: malformed entry %q", rawLine)
		}
		cur.Entries[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return cfg, nil
}

// Read loads and parses the config file at path. A missing file yields an
// empty Config, not an error.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("gitconfig: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// String renders cfg back to Git's config text format. Keys within a
// section are emitted in sorted order for deterministic output.
func (c *Config) String() string {
	var buf strings.Builder
	for _, s := range c.Sections {
		if s.Subsection == "" {
			fmt.Fprintf(&buf, "[%s]\n", s.Name)
		} else {
			fmt.Fprintf(&buf, "[%s %q]\n", s.Name, s.Subsection)
		}
		keys := make([]string, 0, len(s.Entries))
		for k := range s.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, "\t%s = %s\n", k, s.Entries[k])
		}
	}
	return buf.String()
}

// Write renders and writes cfg to path.
func Write(path string, c *Config) error {
	return os.WriteFile(path, []byte(c.String()), 0o644)
}
