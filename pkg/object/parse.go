package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EncodeTree serializes a Tree using Git's canonical grammar: a sequence
// of "<octal-mode> SP <name> NUL <raw-oid-bytes>" entries (spec.md §3),
// sorted by name. Grounded on the teacher's MarshalTree (sort-then-emit
// discipline), re-expressed in the binary grammar this spec requires
// rather than the teacher's own pipe-delimited text format.
func EncodeTree(t *Tree, algo Algo) ([]byte, error) {
	sorted := make([]TreeEntry, len(t.Entries))
	copy(sorted, t.Entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	for _, e := range sorted {
		if e.Name == "" || strings.ContainsRune(e.Name, '/') || strings.ContainsRune(e.Name, 0) {
			return nil, fmt.Errorf("encode tree: invalid entry name %q", e.Name)
		}
		raw, err := hex.DecodeString(e.OID)
		if err != nil || len(raw) != algo.ByteLen() {
			return nil, fmt.Errorf("encode tree: invalid OID %q for entry %q", e.OID, e.Name)
		}
		fmt.Fprintf(&buf, "%o %s\x00", e.Mode, e.Name)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// DecodeTree parses a Tree payload produced by EncodeTree. hashLen is the
// raw binary OID length (20 for SHA-1, 32 for SHA-256).
func DecodeTree(data []byte, hashLen int) (*Tree, error) {
	t := &Tree{}
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("decode tree: missing mode separator")
		}
		mode, err := strconv.ParseUint(string(data[:sp]), 8, 32)
		if err != nil {
			return nil, fmt.Errorf("decode tree: invalid mode %q: %w", data[:sp], err)
		}
		rest := data[sp+1:]
		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("decode tree: missing name terminator")
		}
		name := string(rest[:nul])
		if name == "" || strings.ContainsRune(name, '/') {
			return nil, fmt.Errorf("decode tree: invalid entry name %q", name)
		}
		rest = rest[nul+1:]
		if len(rest) < hashLen {
			return nil, fmt.Errorf("decode tree: truncated OID for entry %q", name)
		}
		oid := hex.EncodeToString(rest[:hashLen])
		t.Entries = append(t.Entries, TreeEntry{Mode: uint32(mode), Name: name, OID: oid})
		data = rest[hashLen:]
	}
	return t, nil
}

// EncodeCommit serializes a Commit payload: header lines ("tree", then
// zero or more "parent"), a blank line, then the free-form message
// (spec.md §3). Grounded on the teacher's MarshalCommit line-builder
// style.
func EncodeCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeOID)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	if c.Author != "" {
		fmt.Fprintf(&buf, "author %s %d %s\n", c.Author, c.Timestamp, c.Timezone)
	}
	if c.Committer != "" {
		fmt.Fprintf(&buf, "committer %s %d %s\n", c.Committer, c.CTime, c.CTimezone)
	}
	if c.Signature != "" {
		fmt.Fprintf(&buf, "gpgsig %s\n", c.Signature)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// DecodeCommit parses only the header block, extracting "tree" (mandatory)
// and "parent" lines; other header keys are parsed on a best-effort basis.
// A commit whose header is missing "tree" is rejected (spec.md §3).
func DecodeCommit(data []byte) (*Commit, error) {
	text := string(data)
	idx := strings.Index(text, "\n\n")
	var header, message string
	if idx < 0 {
		header = strings.TrimRight(text, "\n")
	} else {
		header = text[:idx]
		message = text[idx+2:]
	}

	c := &Commit{Message: message}
	for _, line := range strings.Split(header, "\n") {
		if line == "" {
			continue
		}
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		switch key {
		case "tree":
			c.TreeOID = val
		case "parent":
			c.Parents = append(c.Parents, val)
		case "author":
			c.Author, c.Timestamp, c.Timezone = parseSignatureLine(val)
		case "committer":
			c.Committer, c.CTime, c.CTimezone = parseSignatureLine(val)
		case "gpgsig":
			c.Signature = val
		}
	}
	if c.TreeOID == "" {
		return nil, fmt.Errorf("decode commit: missing mandatory \"tree\" header")
	}
	return c, nil
}

func parseSignatureLine(val string) (name string, ts int64, tz string) {
	if gt := strings.LastIndexByte(val, '>'); gt >= 0 {
		rest := strings.Fields(val[gt+1:])
		if len(rest) > 0 {
			ts, _ = strconv.ParseInt(rest[0], 10, 64)
		}
		if len(rest) > 1 {
			tz = rest[1]
		}
		return strings.TrimSpace(val[:gt+1]), ts, tz
	}
	fields := strings.Fields(val)
	if len(fields) < 2 {
		return val, 0, ""
	}
	tz = fields[len(fields)-1]
	tsStr := fields[len(fields)-2]
	ts, _ = strconv.ParseInt(tsStr, 10, 64)
	name = strings.Join(fields[:len(fields)-2], " ")
	return name, ts, tz
}

// EncodeTag serializes a Tag payload using the header-lines-then-message
// grammar documented in DESIGN.md's "Annotated tag object shape" decision.
func EncodeTag(t *Tag) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "object %s\n", t.Object)
	fmt.Fprintf(&buf, "type %s\n", t.Type)
	fmt.Fprintf(&buf, "tag %s\n", t.Name)
	if t.Tagger != "" {
		fmt.Fprintf(&buf, "tagger %s\n", t.Tagger)
	}
	buf.WriteByte('\n')
	buf.WriteString(t.Message)
	return buf.Bytes()
}

// DecodeTag parses a Tag payload produced by EncodeTag.
func DecodeTag(data []byte) (*Tag, error) {
	text := string(data)
	idx := strings.Index(text, "\n\n")
	var header, message string
	if idx < 0 {
		header = strings.TrimRight(text, "\n")
	} else {
		header = text[:idx]
		message = text[idx+2:]
	}

	t := &Tag{Message: message}
	for _, line := range strings.Split(header, "\n") {
		if line == "" {
			continue
		}
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		switch key {
		case "object":
			t.Object = val
		case "type":
			t.Type = Type(val)
		case "tag":
			t.Name = val
		case "tagger":
			t.Tagger = val
		}
	}
	if t.Object == "" {
		return nil, fmt.Errorf("decode tag: missing mandatory \"object\" header")
	}
	return t, nil
}
