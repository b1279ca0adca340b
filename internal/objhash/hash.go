// Package objhash computes content-addressed object identifiers.
//
// An OID is the hash of the envelope "<type> <size>\0<payload>", matching
// Git's own object hashing but parameterized over the digest algorithm.
package objhash

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"regexp"
)

// Algo selects the digest used to compute object identifiers.
type Algo int

const (
	SHA1 Algo = iota
	SHA256
)

// HexLen returns the hex-string length of an OID produced by a.
func (a Algo) HexLen() int {
	switch a {
	case SHA1:
		return 40
	case SHA256:
		return 64
	default:
		return 0
	}
}

// ByteLen returns the raw binary length of a digest produced by a.
func (a Algo) ByteLen() int {
	return a.HexLen() / 2
}

func (a Algo) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

func (a Algo) newHash() hash.Hash {
	if a == SHA1 {
		return sha1.New()
	}
	return sha256.New()
}

var oidPattern = regexp.MustCompile(`^([0-9a-f]{40}|[0-9a-f]{64})$`)

// Valid reports whether s is a syntactically valid OID (lowercase hex,
// either SHA-1 or SHA-256 length), per spec.md §3's invariant.
func Valid(s string) bool {
	return oidPattern.MatchString(s)
}

// AlgoForHex infers the algorithm from an OID's hex length. Returns false
// if the length matches neither supported digest.
func AlgoForHex(s string) (Algo, bool) {
	switch len(s) {
	case 40:
		return SHA1, true
	case 64:
		return SHA256, true
	default:
		return 0, false
	}
}

// Hash computes the hex-encoded OID of payload under the envelope
// "<type> <size>\0<payload>" using algo. It never touches storage.
func Hash(objType string, payload []byte, algo Algo) string {
	h := algo.newHash()
	header := fmt.Sprintf("%s %d\x00", objType, len(payload))
	h.Write([]byte(header))
	h.Write(payload)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// HashBytes hashes raw bytes with no envelope, returning hex-encoded output.
func HashBytes(data []byte, algo Algo) string {
	h := algo.newHash()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
