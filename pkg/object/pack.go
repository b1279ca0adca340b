package object

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Pack/bitmap/multi-pack-index/commit-graph files are opaque byte
// containers to this core: no delta resolution, no bitmap/commit-graph
// query acceleration (spec.md Non-goals). The core only validates magic
// bytes and the pack base-name grammar, then falls through to the loose
// object store for actual reads. Grounded on the teacher's
// pkg/object/pack.go magic-byte-validation idiom (UnmarshalPackHeader),
// generalized to the additional opaque container kinds spec.md §4.5
// requires that the teacher doesn't implement at all.
var packBaseNamePattern = regexp.MustCompile(`^pack-[0-9a-f]{40,64}$`)

// ValidatePackBaseName asserts that name (without extension) matches the
// lowercase "pack-<hex40-or-64>" grammar spec.md §4.5 requires.
func ValidatePackBaseName(name string) error {
	if !packBaseNamePattern.MatchString(name) {
		return fmt.Errorf("invalid pack base name %q: want pack-<40-or-64 lowercase hex>", name)
	}
	return nil
}

const (
	magicBitmap       = "BITM"
	magicMultiPackIdx = "MIDX"
	magicCommitGraph  = "CGPH"
	magicPackIndex    = "DIRC"
)

func checkMagic(path, want string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, len(want))
	if _, err := f.Read(buf); err != nil {
		return fmt.Errorf("read magic from %s: %w", path, err)
	}
	if string(buf) != want {
		return fmt.Errorf("%s: invalid magic %q, want %q", path, buf, want)
	}
	return nil
}

// ValidateBitmap checks the "BITM" magic on a .bitmap file.
func ValidateBitmap(path string) error { return checkMagic(path, magicBitmap) }

// ValidateMultiPackIndex checks the "MIDX" magic on a multi-pack-index file.
func ValidateMultiPackIndex(path string) error { return checkMagic(path, magicMultiPackIdx) }

// ValidateCommitGraph checks the "CGPH" magic on a commit-graph file.
func ValidateCommitGraph(path string) error { return checkMagic(path, magicCommitGraph) }

// ValidatePackIndex checks the "DIRC" magic on a .idx file, per spec.md
// §4.5's enumerated magic-byte set.
func ValidatePackIndex(path string) error { return checkMagic(path, magicPackIndex) }

// ReadObjectFromPack verifies that both the .pack and .idx files for
// baseName exist under packDir, then falls through to the loose object
// store for the actual read — the core does not decode pack wire format
// (spec.md §4.5).
func ReadObjectFromPack(s *Store, packDir, baseName, oid string) ([]byte, error) {
	if err := ValidatePackBaseName(baseName); err != nil {
		return nil, err
	}
	packPath := filepath.Join(packDir, baseName+".pack")
	idxPath := filepath.Join(packDir, baseName+".idx")
	if _, err := os.Stat(packPath); err != nil {
		return nil, fmt.Errorf("read object from pack: missing %s: %w", packPath, err)
	}
	if _, err := os.Stat(idxPath); err != nil {
		return nil, fmt.Errorf("read object from pack: missing %s: %w", idxPath, err)
	}
	return s.ReadObject(oid)
}

// WritePackBundle writes raw pack bytes opaquely to packDir/<baseName>.pack,
// validating the base-name grammar first.
func WritePackBundle(packDir, baseName string, data []byte) error {
	if err := ValidatePackBaseName(baseName); err != nil {
		return err
	}
	if err := os.MkdirAll(packDir, 0o755); err != nil {
		return fmt.Errorf("write pack bundle: mkdir: %w", err)
	}
	return os.WriteFile(filepath.Join(packDir, baseName+".pack"), data, 0o644)
}
