// Package diff compares the mod sets of two directories.
package diff

import (
	"maps"
	"slices"
	"strings"

	"github.com/LasmGratel/mod-compability-checker/internal/mod"
)

type ChangeType int

const (
	Added ChangeType = iota
	Removed
	Updated
	Unchanged
)

func (t ChangeType) Symbol() string {
	switch t {
	case Added:
		return "+"
	case Removed:
		return "-"
	case Updated:
		return "~"
	default:
		return "="
	}
}

// ModChange describes how one mod id differs between the local and the
// remote set. Added means only the remote side has it.
type ModChange struct {
	ID            string
	Type          ChangeType
	LocalVersion  string
	RemoteVersion string
	LocalFile     string
	RemoteFile    string
}

type side struct {
	versions []string
	files    []string
}

func (s side) version() string {
	return strings.Join(s.versions, ", ")
}

func (s side) file() string {
	return strings.Join(s.files, ", ")
}

func index(records []mod.Record) map[string]side {
	out := make(map[string]side)
	for _, r := range records {
		s := out[r.ID]
		v := r.Version
		if !r.HasVersion {
			v = "?"
		}
		if !slices.Contains(s.versions, v) {
			s.versions = append(s.versions, v)
		}
		if !slices.Contains(s.files, r.SourceFile) {
			s.files = append(s.files, r.SourceFile)
		}
		out[r.ID] = s
	}
	for id, s := range out {
		slices.Sort(s.versions)
		slices.Sort(s.files)
		out[id] = s
	}
	return out
}

// Compute returns one change per mod id present on either side, sorted by id.
func Compute(local, remote []mod.Record) []ModChange {
	l := index(local)
	r := index(remote)

	ids := slices.Sorted(maps.Keys(l))
	for id := range r {
		if _, ok := l[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	changes := make([]ModChange, 0, len(ids))
	for _, id := range ids {
		ls, inLocal := l[id]
		rs, inRemote := r[id]
		c := ModChange{
			ID:            id,
			LocalVersion:  ls.version(),
			RemoteVersion: rs.version(),
			LocalFile:     ls.file(),
			RemoteFile:    rs.file(),
		}
		switch {
		case !inLocal:
			c.Type = Added
		case !inRemote:
			c.Type = Removed
		case !slices.Equal(ls.versions, rs.versions):
			c.Type = Updated
		default:
			c.Type = Unchanged
		}
		changes = append(changes, c)
	}
	return changes
}

// Summary returns counts by change type.
func Summary(changes []ModChange) (added, removed, updated, unchanged int) {
	for _, c := range changes {
		switch c.Type {
		case Added:
			added++
		case Removed:
			removed++
		case Updated:
			updated++
		case Unchanged:
			unchanged++
		}
	}
	return
}
