package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
)

// Magic is the 8-byte DIRC v2 header shared by both physical formats
// (spec.md §3).
var Magic = [8]byte{'D', 'I', 'R', 'C', 0, 0, 0, 2}

// Decode parses either physical format recognized by spec.md §3: the
// canonical Git binary layout, or this implementation's JSON payload. The
// JSON form is recognized by a '{' byte immediately following the magic.
func Decode(data []byte) (*Index, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("decode index: too short for magic")
	}
	for i, b := range Magic {
		if data[i] != b {
			return nil, fmt.Errorf("decode index: invalid magic")
		}
	}

	rest := data[8:]
	if len(rest) > 0 && rest[0] == '{' {
		return decodeJSON(rest)
	}
	return decodeNative(rest)
}

func decodeJSON(payload []byte) (*Index, error) {
	var idx Index
	if err := json.Unmarshal(payload, &idx); err != nil {
		return nil, fmt.Errorf("decode index: unmarshal json: %w", err)
	}
	return normalize(&idx), nil
}

// decodeNative parses the native Git DIRC v2 binary entry table. It tries
// hashLen=20 (SHA-1) first, then hashLen=32 (SHA-256), per spec.md §4.7.
func decodeNative(rest []byte) (*Index, error) {
	if idx, err := decodeNativeWithHashLen(rest, 20); err == nil {
		return idx, nil
	}
	idx, err := decodeNativeWithHashLen(rest, 32)
	if err != nil {
		return nil, fmt.Errorf("decode index: native layout did not match sha1 or sha256 hash length: %w", err)
	}
	return idx, nil
}

func decodeNativeWithHashLen(rest []byte, hashLen int) (*Index, error) {
	if len(rest) < 4 {
		return nil, fmt.Errorf("too short for entry count")
	}
	entryCount := binary.BigEndian.Uint32(rest[0:4])
	cursor := 4
	fixedEntryBytes := 42 + hashLen

	var entries []Entry
	for i := uint32(0); i < entryCount; i++ {
		if cursor+fixedEntryBytes > len(rest) {
			return nil, fmt.Errorf("truncated entry %d", i)
		}
		fixed := rest[cursor : cursor+fixedEntryBytes]
		mode := binary.BigEndian.Uint32(fixed[24:28])
		oidBytes := fixed[40 : 40+hashLen]

		nameStart := cursor + fixedEntryBytes
		nulIdx := -1
		for j := nameStart; j < len(rest); j++ {
			if rest[j] == 0 {
				nulIdx = j
				break
			}
		}
		if nulIdx < 0 {
			return nil, fmt.Errorf("unterminated name in entry %d", i)
		}
		name := string(rest[nameStart:nulIdx])

		entryLen := nulIdx + 1 - cursor
		padded := ((entryLen + 7) / 8) * 8
		cursor += padded

		entries = append(entries, Entry{
			Path: name,
			OID:  fmt.Sprintf("%x", oidBytes),
			Mode: mode,
		})
	}

	// Consume <sig:4><size:4><bytes:size> extensions until exactly hashLen
	// trailer (checksum) bytes remain.
	for len(rest)-cursor > hashLen {
		if cursor+8 > len(rest) {
			return nil, fmt.Errorf("truncated extension header")
		}
		extSize := int(binary.BigEndian.Uint32(rest[cursor+4 : cursor+8]))
		cursor += 8 + extSize
		if cursor > len(rest) {
			return nil, fmt.Errorf("extension overruns buffer")
		}
	}
	if len(rest)-cursor != hashLen {
		return nil, fmt.Errorf("trailer length mismatch: want %d, have %d", hashLen, len(rest)-cursor)
	}

	return normalize(&Index{Version: 2, Entries: entries}), nil
}

// normalize drops non-object/path-less entries (a JSON concern, vacuous for
// native decode) and defaults Mode to DefaultMode when zero, per spec.md
// §4.7's decode-normalization rules.
func normalize(idx *Index) *Index {
	out := &Index{Version: 2}
	for _, e := range idx.Entries {
		if e.Path == "" {
			continue
		}
		if e.Mode == 0 {
			e.Mode = DefaultMode
		}
		out.Entries = append(out.Entries, e)
	}
	sortEntries(out.Entries)
	return out
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
}

// Encode always emits the JSON form preceded by the DIRC magic — the
// canonical emission this implementation commits to (spec.md §4.7, §9).
func Encode(idx *Index) ([]byte, error) {
	sortEntries(idx.Entries)
	if idx.Version == 0 {
		idx.Version = 2
	}
	payload, err := json.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("encode index: marshal: %w", err)
	}
	out := make([]byte, 0, 8+len(payload))
	out = append(out, Magic[:]...)
	out = append(out, payload...)
	return out, nil
}
