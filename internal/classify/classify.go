// Package classify turns decoded archive metadata into mod records tagged
// with the sides that need them.
package classify

import (
	"maps"
	"slices"

	"github.com/LasmGratel/mod-compability-checker/internal/mod"
	"github.com/LasmGratel/mod-compability-checker/internal/modinfo"
)

// @Mod attribute names.
const (
	attrModID          = "modid"
	attrVersion        = "version"
	attrClientSideOnly = "clientSideOnly"
	attrRemoteVersions = "acceptableRemoteVersions"
)

// Classify derives the records one archive contributes. Records are unique
// by id and returned in id order.
func Classify(file string, format modinfo.Format, md *modinfo.Metadata) []mod.Record {
	if md == nil {
		return nil
	}

	byID := make(map[string]mod.Record)
	switch format {
	case modinfo.LegacyWithAnnotations:
		fromAnnotations(file, md, byID)
	case modinfo.LegacyInfoOnly:
		fromInfos(file, md.Infos, byID)
	case modinfo.ModernToml, modinfo.Fabric:
		fromDescriptors(file, md.Descriptors, byID)
	}

	records := slices.Collect(maps.Values(byID))
	slices.SortFunc(records, mod.Compare)
	return records
}

// Special builds the single record reported for a denylisted archive.
func Special(file string, s modinfo.SpecialArchive) mod.Record {
	return mod.Record{ID: s.ID, Category: mod.ClientOnly, SourceFile: file}
}

func fromAnnotations(file string, md *modinfo.Metadata, byID map[string]mod.Record) {
	// Class names are visited in sorted order so that "last declaration
	// wins" is stable across runs.
	for _, class := range slices.Sorted(maps.Keys(md.Annotations)) {
		for _, ann := range md.Annotations[class] {
			if ann.Name != modinfo.ModAnnotation {
				continue
			}
			r, ok := fromAnnotation(file, ann)
			if !ok {
				continue
			}
			byID[r.ID] = r
		}
	}

	// mcmod.info versions take precedence over the annotation's.
	for _, info := range md.Infos {
		if r, ok := byID[info.ModID]; ok {
			byID[info.ModID] = r.WithVersion(info.Version)
		}
	}
}

func fromAnnotation(file string, ann modinfo.Annotation) (mod.Record, bool) {
	id, ok := ann.Values[attrModID]
	if !ok || !id.HasValue || id.Value == "" {
		return mod.Record{}, false
	}

	r := mod.Record{ID: id.Value, SourceFile: file}
	if v, ok := ann.Values[attrVersion]; ok && v.HasValue {
		r = r.WithVersion(v.Value)
	}

	switch {
	case attrEquals(ann, attrClientSideOnly, "true"):
		r.Category = mod.ClientOnly
	case attrEquals(ann, attrRemoteVersions, "*"):
		r.Category = mod.AnyRemote
	default:
		r.Category = mod.Required
	}
	return r, true
}

func attrEquals(ann modinfo.Annotation, name, want string) bool {
	v, ok := ann.Values[name]
	return ok && v.HasValue && v.Value == want
}

func fromInfos(file string, infos []modinfo.Info, byID map[string]mod.Record) {
	for _, info := range infos {
		if info.ModID == "" {
			continue
		}
		byID[info.ModID] = mod.Record{
			ID:         info.ModID,
			Category:   mod.Required,
			SourceFile: file,
		}.WithVersion(info.Version)
	}
}

func fromDescriptors(file string, descriptors []modinfo.Descriptor, byID map[string]mod.Record) {
	for _, d := range descriptors {
		if d.ID == "" {
			continue
		}
		r := mod.Record{ID: d.ID, SourceFile: file}
		if d.HasVersion {
			r = r.WithVersion(d.Version)
		}
		switch {
		case d.ClientOnly:
			r.Category = mod.ClientOnly
		case d.AnyRemote:
			r.Category = mod.AnyRemote
		default:
			r.Category = mod.Required
		}
		byID[r.ID] = r
	}
}
