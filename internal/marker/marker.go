// Package marker persists a directory's digest next to its archives.
package marker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LasmGratel/mod-compability-checker/internal/fingerprint"
)

const (
	IdentityFile = ".sha"
	StrictFile   = ".strict-sha"
)

// FileName returns the marker file name used for mode.
func FileName(mode fingerprint.Mode) string {
	if mode == fingerprint.Strict {
		return StrictFile
	}
	return IdentityFile
}

// Write stores d in dir, replacing any previous marker for mode.
func Write(dir string, mode fingerprint.Mode, d fingerprint.Digest) error {
	path := filepath.Join(dir, FileName(mode))
	if err := os.WriteFile(path, []byte(d.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", FileName(mode), err)
	}
	return nil
}

// Read loads the marker for mode from dir.
func Read(dir string, mode fingerprint.Mode) (fingerprint.Digest, error) {
	name := FileName(mode)
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fingerprint.Digest{}, fmt.Errorf("no %s found in %s - run with --dirty first", name, dir)
		}
		return fingerprint.Digest{}, fmt.Errorf("reading %s: %w", name, err)
	}

	d, err := fingerprint.ParseDigest(string(data))
	if err != nil {
		return fingerprint.Digest{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
