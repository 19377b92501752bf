package mod

import (
	"cmp"
	"fmt"
)

// Record is one mod declaration derived from an archive.
type Record struct {
	ID string `json:"id"`
	// Version is meaningful only when HasVersion is set.
	Version    string   `json:"version,omitempty"`
	HasVersion bool     `json:"-"`
	Category   Category `json:"category"`
	SourceFile string   `json:"file"`
}

// WithVersion returns a copy of r carrying version v.
func (r Record) WithVersion(v string) Record {
	r.Version = v
	r.HasVersion = true
	return r
}

// Identity is the text that represents r in an identity-mode digest.
// An absent version renders as empty.
func (r Record) Identity() string {
	return r.ID + ":" + r.Version
}

// Equal reports whether r and o describe the same mod at the same version.
// SourceFile and Category are not part of equality.
func (r Record) Equal(o Record) bool {
	return r.ID == o.ID && r.HasVersion == o.HasVersion && r.Version == o.Version
}

func (r Record) String() string {
	if !r.HasVersion {
		return fmt.Sprintf("%s (%s, %s)", r.ID, r.Category.Label(), r.SourceFile)
	}
	return fmt.Sprintf("%s %s (%s, %s)", r.ID, r.Version, r.Category.Label(), r.SourceFile)
}

// Compare orders records by id. Version and then source file break ties so
// that sorting is total.
func Compare(a, b Record) int {
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	if c := compareVersion(a, b); c != 0 {
		return c
	}
	return cmp.Compare(a.SourceFile, b.SourceFile)
}

func compareVersion(a, b Record) int {
	switch {
	case a.HasVersion == b.HasVersion:
		return cmp.Compare(a.Version, b.Version)
	case !a.HasVersion:
		return -1
	default:
		return 1
	}
}
