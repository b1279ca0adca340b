package wire

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/pkg/giterr"
	"github.com/odvcencio/gitcore/pkg/refs"
)

// defaultReceiveCapabilities are the receive-pack capabilities spec.md
// §4.12 fixes, excluding "object-format=<algo>" which depends on the
// repository's hash algorithm.
var defaultReceiveCapabilities = []string{
	"report-status",
	"report-status-v2",
	"delete-refs",
	"side-band-64k",
	"ofs-delta",
}

// AdvertiseRefs builds the pkt-line advertisement for receive-pack: one
// line per ref (HEAD's target first if present), the first line carrying
// capabilities after a NUL delimiter, terminated by a flush packet.
//
// Grounded on the teacher's pkg/remote/protocol.go Capabilities.String
// for the sorted-dedup capability join, adapted to spec.md's
// "<oid> SP <name> NUL <space-joined caps> LF" first-line grammar.
func AdvertiseRefs(store *refs.Store, algo objhash.Algo, headRef string, entries []refs.RefEntry, extraCaps []string) ([]byte, error) {
	caps := append([]string{}, defaultReceiveCapabilities...)
	caps = append(caps, "object-format="+algo.String())
	caps = append(caps, extraCaps...)
	caps = DedupSort(caps)
	capStr := strings.Join(caps, " ")

	ordered := make([]refs.RefEntry, 0, len(entries))
	var head *refs.RefEntry
	for i := range entries {
		if entries[i].Name == headRef && headRef != "" {
			e := entries[i]
			head = &e
			continue
		}
		ordered = append(ordered, entries[i])
	}
	if head != nil {
		ordered = append([]refs.RefEntry{*head}, ordered...)
	}

	var out []byte
	for i, e := range ordered {
		var line string
		if i == 0 {
			line = fmt.Sprintf("%s %s\x00%s\n", e.OID, e.Name, capStr)
		} else {
			line = fmt.Sprintf("%s %s\n", e.OID, e.Name)
		}
		encoded, err := EncodeLine([]byte(line))
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}
	out = append(out, EncodeFlush()...)
	return out, nil
}

// UpdateRequest is a single parsed receive-pack update command.
type UpdateRequest struct {
	OldOID  string
	NewOID  string
	RefName string
	Caps    []string
}

// ParseRequest parses a single receive-pack command line of the form
// "<oldOid> SP <newOid> SP <refName>", with an optional
// NUL-then-space-joined capabilities suffix on the first (only) line.
func ParseRequest(line []byte) (*UpdateRequest, error) {
	s := string(line)
	caps := []string(nil)
	if idx := strings.IndexByte(s, 0); idx >= 0 {
		caps = NormalizeCapabilities(strings.Fields(s[idx+1:]))
		s = s[:idx]
	}
	s = strings.TrimRight(s, "\n")

	parts := strings.SplitN(s, " ", 3)
	if len(parts) != 3 {
		return nil, giterr.New(giterr.ProtoError, "wire.ParseRequest", fmt.Errorf("malformed update line %q", s))
	}
	return &UpdateRequest{OldOID: parts[0], NewOID: parts[1], RefName: parts[2], Caps: caps}, nil
}

// ApplyUpdate validates req and performs the CAS-guarded ref update, per
// spec.md §4.12: OIDs must be syntactically valid and of equal length,
// the ref's current value must equal old (treating absence as the
// zero-OID), and new==zero-OID means delete rather than update.
func ApplyUpdate(store *refs.Store, req *UpdateRequest) error {
	zero := store.ZeroOID()
	if !validOIDOrZero(req.OldOID, zero) || !validOIDOrZero(req.NewOID, zero) {
		return giterr.New(giterr.InvalidArgument, "wire.ApplyUpdate", fmt.Errorf("invalid OID in update for %q", req.RefName))
	}
	if len(req.OldOID) != len(req.NewOID) {
		return giterr.New(giterr.InvalidArgument, "wire.ApplyUpdate", fmt.Errorf("OID length mismatch for %q", req.RefName))
	}
	refName := refs.Normalize(req.RefName)

	// refs.Store represents "absent" as "" internally (CAS wantOld), while
	// the wire protocol represents it as the all-zero OID.
	current, err := store.ResolveRef(refName)
	storedOld := current
	if err != nil {
		current = zero
		storedOld = ""
	}
	if current != req.OldOID {
		return giterr.New(giterr.LockConflict, "wire.ApplyUpdate", fmt.Errorf("ref %q: expected %s, found %s", refName, req.OldOID, current))
	}

	if req.NewOID == zero {
		if err := store.DeleteRef(refName, "receive-pack: delete"); err != nil {
			return giterr.New(giterr.IOError, "wire.ApplyUpdate", err)
		}
		return nil
	}
	if err := store.CompareAndSwapRef(refName, storedOld, req.NewOID, "receive-pack: update"); err != nil {
		return giterr.New(giterr.IOError, "wire.ApplyUpdate", err)
	}
	return nil
}

func validOIDOrZero(oid, zero string) bool {
	return oid == zero || objhash.Valid(oid)
}
