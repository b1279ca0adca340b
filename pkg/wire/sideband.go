package wire

import (
	"bufio"

	"github.com/klauspost/compress/zstd"

	"github.com/odvcencio/gitcore/pkg/giterr"
)

// Sideband channel bytes, per the side-band-64k capability this module
// advertises in defaultReceiveCapabilities: each pkt-line payload's first
// byte selects the channel the remaining bytes belong to.
const (
	SidebandData     byte = 1
	SidebandProgress byte = 2
	SidebandError    byte = 3
)

// EncodeSidebandLine frames payload on the given channel as a single
// pkt-line, per spec.md's side-band-64k handling.
func EncodeSidebandLine(channel byte, payload []byte) ([]byte, error) {
	framed := make([]byte, 0, len(payload)+1)
	framed = append(framed, channel)
	framed = append(framed, payload...)
	return EncodeLine(framed)
}

// DecodeSidebandLine splits a pkt-line payload already stripped of its
// length header into its channel byte and data.
func DecodeSidebandLine(line []byte) (channel byte, data []byte, err error) {
	if len(line) == 0 {
		return 0, nil, giterr.New(giterr.ProtoError, "wire.DecodeSidebandLine", errEmptySidebandLine)
	}
	return line[0], line[1:], nil
}

var errEmptySidebandLine = sidebandError("empty sideband pkt-line")

type sidebandError string

func (e sidebandError) Error() string { return string(e) }

// CompressSidebandPayload zstd-compresses a band-1 (data) payload before
// framing, for receive-pack transfers that negotiated a "sideband-compress"
// extra capability — grounded on the teacher's pkg/remote/compress.go
// compressZstd, reused here for wire-level payloads instead of HTTP bodies.
func CompressSidebandPayload(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, giterr.New(giterr.IOError, "wire.CompressSidebandPayload", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// DecompressSidebandPayload reverses CompressSidebandPayload.
func DecompressSidebandPayload(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, giterr.New(giterr.IOError, "wire.DecompressSidebandPayload", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, giterr.New(giterr.ObjectFormat, "wire.DecompressSidebandPayload", err)
	}
	return out, nil
}

// WriteSidebandStream frames and writes a full data-channel payload as a
// sequence of MaxData-sized pkt-lines, used by ReceivePackUpdate callers
// that stream large pack payloads back over band 1.
func WriteSidebandStream(w *bufio.Writer, channel byte, payload []byte) error {
	const chunk = MaxData - 1 // leave room for the channel byte
	for len(payload) > 0 {
		n := chunk
		if n > len(payload) {
			n = len(payload)
		}
		line, err := EncodeSidebandLine(channel, payload[:n])
		if err != nil {
			return err
		}
		if _, err := w.Write(line); err != nil {
			return giterr.New(giterr.IOError, "wire.WriteSidebandStream", err)
		}
		payload = payload[n:]
	}
	return nil
}
