// Package wire implements pkt-line framing, capability parity, and the
// receive-pack advertise/request/update exchange (spec.md §4.11-4.12).
//
// Pkt-line framing is grounded on odvcencio-gothub's
// internal/gitinterop/pktline.go (pktLine/readPktLine's hex-length framing
// and flush-packet handling); capability parity is grounded on the
// teacher's pkg/remote/protocol.go Capabilities type (Has/Intersect/
// String), generalized from its free-form comma-joined set into the
// sorted-slice normalize-then-intersect operation spec.md §4.11 specifies.
package wire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/odvcencio/gitcore/pkg/giterr"
)

// MaxTotal and MaxData are the pkt-line size limits spec.md §4.11 fixes.
const (
	MaxTotal = 65520
	MaxData  = 65516
)

// Flush is the encoded flush-packet.
var Flush = []byte("0000")

// EncodeLine frames payload as a pkt-line: a 4-hex-digit length prefix
// (counting itself) followed by the payload bytes.
func EncodeLine(payload []byte) ([]byte, error) {
	total := len(payload) + 4
	if total > MaxTotal {
		return nil, giterr.New(giterr.ProtoError, "wire.EncodeLine", fmt.Errorf("payload %d bytes exceeds MAX_DATA %d", len(payload), MaxData))
	}
	header := []byte(fmt.Sprintf("%04x", total))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	out = append(out, payload...)
	return out, nil
}

// EncodeFlush returns the flush-packet bytes.
func EncodeFlush() []byte { return Flush }

// ReadLine reads one pkt-line from r. It returns (nil, nil) on a flush
// packet, and a PROTO_ERROR-wrapped error on a malformed or over-limit
// frame.
func ReadLine(r *bufio.Reader) ([]byte, error) {
	hexLen := make([]byte, 4)
	if _, err := io.ReadFull(r, hexLen); err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(string(hexLen), 16, 32)
	if err != nil {
		return nil, giterr.New(giterr.ProtoError, "wire.ReadLine", fmt.Errorf("invalid length prefix %q", hexLen))
	}
	if n == 0 {
		return nil, nil
	}
	if n < 4 || n > MaxTotal {
		return nil, giterr.New(giterr.ProtoError, "wire.ReadLine", fmt.Errorf("length %d out of range [4,%d]", n, MaxTotal))
	}
	payload := make([]byte, n-4)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ReadAllLines reads pkt-lines from r up to and including the terminating
// flush packet, returning every non-flush payload in order.
func ReadAllLines(r *bufio.Reader) ([][]byte, error) {
	var lines [][]byte
	for {
		line, err := ReadLine(r)
		if err != nil {
			return nil, err
		}
		if line == nil {
			return lines, nil
		}
		lines = append(lines, line)
	}
}
