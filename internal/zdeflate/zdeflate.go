// Package zdeflate provides raw-DEFLATE (no zlib/gzip header) compression
// with inflation-bomb guards, grounded on the teacher's counting-writer
// idiom in pkg/object/pack_writer.go but built on the DOMAIN STACK's
// streaming codec library rather than stdlib compress/flate, since the
// teacher's own module already depends on klauspost/compress for this
// class of work (pkg/remote/compress.go).
package zdeflate

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
)

// MaxDeltaChainDepth is exposed for pack consumers per spec.md §4.2.
const MaxDeltaChainDepth = 50

// Limits bounds an inflate operation against decompression bombs.
type Limits struct {
	MaxInflatedBytes int64
	MaxInflateRatio  int64
}

// DefaultLimits matches spec.md §4.2's defaults.
func DefaultLimits() Limits {
	return Limits{MaxInflatedBytes: 134217728, MaxInflateRatio: 200}
}

// DeflateRaw compresses data with raw DEFLATE (no header/trailer).
func DeflateRaw(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		return nil, fmt.Errorf("zdeflate: new writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("zdeflate: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zdeflate: close: %w", err)
	}
	return buf.Bytes(), nil
}

// limitedWriter counts bytes written and fails once the configured bound
// is exceeded, so a decompression bomb is caught mid-stream rather than
// after fully materializing in memory.
type limitedWriter struct {
	buf        bytes.Buffer
	maxBytes   int64
	maxRatio   int64
	compressed int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if int64(w.buf.Len()+len(p)) > w.maxBytes {
		return 0, fmt.Errorf("zdeflate: inflated size exceeds limit of %d bytes", w.maxBytes)
	}
	ratio := int64(w.buf.Len()+len(p)) / w.compressed
	if ratio > w.maxRatio {
		return 0, fmt.Errorf("zdeflate: inflate ratio exceeds limit of %d", w.maxRatio)
	}
	return w.buf.Write(p)
}

// InflateRaw decompresses raw-DEFLATE data, enforcing limits against
// inflation bombs. A zero-value Limits selects DefaultLimits().
func InflateRaw(data []byte, limits ...Limits) ([]byte, error) {
	lim := DefaultLimits()
	if len(limits) > 0 {
		lim = limits[0]
		if lim.MaxInflatedBytes <= 0 {
			lim.MaxInflatedBytes = DefaultLimits().MaxInflatedBytes
		}
		if lim.MaxInflateRatio <= 0 {
			lim.MaxInflateRatio = DefaultLimits().MaxInflateRatio
		}
	}

	compressed := int64(len(data))
	if compressed == 0 {
		compressed = 1
	}

	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	lw := &limitedWriter{maxBytes: lim.MaxInflatedBytes, maxRatio: lim.MaxInflateRatio, compressed: compressed}
	if _, err := io.Copy(lw, r); err != nil {
		return nil, fmt.Errorf("zdeflate: inflate: %w", err)
	}
	return lw.buf.Bytes(), nil
}

// CRC32IEEE computes the IEEE-polynomial CRC32 of data, as required by pack
// consumers (spec.md §4.2).
func CRC32IEEE(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
