package object

import (
	"bytes"
	"fmt"
	"strconv"
)

// EncodeLoose produces the canonical header-plus-payload framing:
// "<type> SP <size> NUL <payload>" (spec.md §4.4). This is the pre-
// compression form; Store applies raw-DEFLATE on top of it.
func EncodeLoose(objType Type, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", objType, len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	out = append(out, payload...)
	return out
}

// DecodeLoose parses the "<type> SP <size> NUL <payload>" envelope,
// asserting that the declared size matches the actual remaining byte
// count (spec.md §4.4).
func DecodeLoose(raw []byte) (Type, []byte, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("decode loose object: missing NUL header terminator")
	}
	header := string(raw[:nul])
	payload := raw[nul+1:]

	sp := bytes.IndexByte([]byte(header), ' ')
	if sp < 0 {
		return "", nil, fmt.Errorf("decode loose object: malformed header %q", header)
	}
	objType := Type(header[:sp])
	switch objType {
	case TypeBlob, TypeTree, TypeCommit, TypeTag:
	default:
		return "", nil, fmt.Errorf("decode loose object: unknown type %q", objType)
	}

	size, err := strconv.Atoi(header[sp+1:])
	if err != nil {
		return "", nil, fmt.Errorf("decode loose object: invalid size %q: %w", header[sp+1:], err)
	}
	if len(payload) != size {
		return "", nil, fmt.Errorf("decode loose object: size mismatch (header=%d, actual=%d)", size, len(payload))
	}

	out := make([]byte, len(payload))
	copy(out, payload)
	return objType, out, nil
}
