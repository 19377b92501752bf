package mod

import "slices"

type key struct {
	id         string
	version    string
	hasVersion bool
}

// Set is a collection of records deduplicated by (id, version) and iterated
// in ascending id order.
type Set struct {
	byKey map[key]Record
}

func NewSet() *Set {
	return &Set{byKey: make(map[key]Record)}
}

// Add inserts r. When an equal record is already present the one with the
// lexicographically smaller source file is kept, so the result does not
// depend on insertion order.
func (s *Set) Add(r Record) {
	k := key{id: r.ID, version: r.Version, hasVersion: r.HasVersion}
	if prev, ok := s.byKey[k]; ok && prev.SourceFile <= r.SourceFile {
		return
	}
	s.byKey[k] = r
}

func (s *Set) Len() int {
	return len(s.byKey)
}

// Records returns the members in canonical order.
func (s *Set) Records() []Record {
	out := make([]Record, 0, len(s.byKey))
	for _, r := range s.byKey {
		out = append(out, r)
	}
	slices.SortFunc(out, Compare)
	return out
}
