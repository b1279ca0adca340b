package index

import (
	"encoding/binary"
	"testing"
)

func TestEncodeDecodeJSONRoundTrip(t *testing.T) {
	idx := &Index{Version: 2, Entries: []Entry{
		{Path: "tests/x.txt", OID: "aa", Mode: DefaultMode},
		{Path: "docs/g.md", OID: "bb", Mode: DefaultMode},
	}}
	data, err := Encode(idx)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range Magic {
		if data[i] != b {
			t.Fatalf("byte %d: expected magic %x, got %x", i, b, data[i])
		}
	}
	if data[8] != '{' {
		t.Fatalf("expected JSON payload to start with '{', got %q", data[8])
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Entries) != 2 || got.Entries[0].Path != "docs/g.md" || got.Entries[1].Path != "tests/x.txt" {
		t.Fatalf("expected sorted [docs/g.md, tests/x.txt], got %+v", got.Entries)
	}
}

func TestDecodeNativeBinaryLayout(t *testing.T) {
	hashLen := 20
	var buf []byte
	buf = append(buf, Magic[:]...)

	entryCountBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(entryCountBuf, 1)
	buf = append(buf, entryCountBuf...)

	fixed := make([]byte, 42+hashLen)
	binary.BigEndian.PutUint32(fixed[24:28], DefaultMode)
	oid := make([]byte, hashLen)
	for i := range oid {
		oid[i] = byte(i)
	}
	copy(fixed[40:40+hashLen], oid)
	buf = append(buf, fixed...)

	name := "a.txt"
	buf = append(buf, []byte(name)...)
	buf = append(buf, 0)

	entryLen := len(fixed) + len(name) + 1
	padded := ((entryLen + 7) / 8) * 8
	for i := entryLen; i < padded; i++ {
		buf = append(buf, 0)
	}

	buf = append(buf, make([]byte, hashLen)...) // checksum trailer

	idx, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(idx.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(idx.Entries))
	}
	if idx.Entries[0].Path != "a.txt" {
		t.Fatalf("expected path a.txt, got %q", idx.Entries[0].Path)
	}
	if idx.Entries[0].Mode != DefaultMode {
		t.Fatalf("expected mode %o, got %o", DefaultMode, idx.Entries[0].Mode)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte("NOTMAGIC"))
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestNormalizeDropsEntriesWithoutPath(t *testing.T) {
	idx := normalize(&Index{Entries: []Entry{{Path: ""}, {Path: "ok"}}})
	if len(idx.Entries) != 1 || idx.Entries[0].Path != "ok" {
		t.Fatalf("expected path-less entry dropped, got %+v", idx.Entries)
	}
}
