// Package fingerprint folds a mod set into a single BLAKE3 digest.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/LasmGratel/mod-compability-checker/internal/jar"
	"github.com/LasmGratel/mod-compability-checker/internal/logging"
	"github.com/LasmGratel/mod-compability-checker/internal/mod"
)

// Mode selects what each record contributes to the digest.
type Mode int

const (
	// Identity hashes "id:version" text.
	Identity Mode = iota
	// Strict hashes the full bytes of each record's archive.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "identity"
}

// Digest is a 32-byte BLAKE3 hash.
type Digest [32]byte

// String renders the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a hex digest as produced by Digest.String.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(raw) != len(d) {
		return d, fmt.Errorf("parsing digest: got %d bytes, want %d", len(raw), len(d))
	}
	copy(d[:], raw)
	return d, nil
}

// Collect builds the fingerprint input from classified records. Only
// records whose category is fingerprinted are kept.
func Collect(records []mod.Record) *mod.Set {
	set := mod.NewSet()
	for _, r := range records {
		if !r.Category.Fingerprinted() {
			continue
		}
		set.Add(r)
	}
	return set
}

// Compute hashes set in ascending id order. In Strict mode each record's
// source file is read from dir.
func Compute(dir string, set *mod.Set, mode Mode) (Digest, error) {
	h := blake3.New()
	for _, r := range set.Records() {
		switch mode {
		case Strict:
			if err := hashFile(h, filepath.Join(dir, r.SourceFile)); err != nil {
				return Digest{}, err
			}
		default:
			h.Write([]byte(r.Identity()))
		}
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	logging.Debugf("Verbose: fingerprint mode=%s records=%d digest=%s\n", mode, set.Len(), d)
	return d, nil
}

// hashFile feeds the mapped archive into h. The hasher processes large
// inputs several chunks at a time with SIMD.
func hashFile(h *blake3.Hasher, path string) error {
	data, release, err := jar.Map(path)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}
	_, err = h.Write(data)
	if releaseErr := release(); err == nil && releaseErr != nil {
		err = fmt.Errorf("unmapping %s: %w", path, releaseErr)
	}
	return err
}
