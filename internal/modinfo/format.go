// Package modinfo detects how a mod archive publishes its metadata and
// decodes those documents into normalized records.
package modinfo

import "strings"

// Well-known metadata entry names.
const (
	LegacyInfoEntry      = "mcmod.info"
	AnnotationCacheEntry = "META-INF/fml_cache_annotation.json"
	ModsTomlEntry        = "META-INF/mods.toml"
	NeoForgeTomlEntry    = "META-INF/neoforge.mods.toml"
	FabricEntry          = "fabric.mod.json"
	ManifestEntry        = "META-INF/MANIFEST.MF"
)

// Format is the packaging layout of one archive.
type Format int

const (
	Unrecognized Format = iota
	LegacyInfoOnly
	LegacyWithAnnotations
	ModernToml
	Fabric
	SpecialCased
)

func (f Format) String() string {
	switch f {
	case LegacyInfoOnly:
		return "legacy-info"
	case LegacyWithAnnotations:
		return "legacy-annotations"
	case ModernToml:
		return "modern-toml"
	case Fabric:
		return "fabric"
	case SpecialCased:
		return "special-cased"
	default:
		return "unrecognized"
	}
}

// EntrySet answers whether an archive has a given entry.
type EntrySet interface {
	Contains(name string) bool
}

// Detect classifies an archive by which metadata entries it carries. The
// checks are ordered because one archive can match several of them.
func Detect(entries EntrySet) Format {
	hasInfo := entries.Contains(LegacyInfoEntry)
	hasCache := entries.Contains(AnnotationCacheEntry)

	switch {
	case hasInfo && hasCache:
		return LegacyWithAnnotations
	case hasCache:
		// 1.12 builds often drop mcmod.info but keep the cache.
		return LegacyWithAnnotations
	case hasInfo:
		return LegacyInfoOnly
	case entries.Contains(ModsTomlEntry), entries.Contains(NeoForgeTomlEntry):
		return ModernToml
	case entries.Contains(FabricEntry):
		return Fabric
	default:
		return Unrecognized
	}
}

// SpecialArchive is a third-party archive recognized by file name alone.
type SpecialArchive struct {
	// Fragment is matched case-insensitively against the file name.
	Fragment string
	// ID is the mod id reported for a matching archive.
	ID string
}

// specialArchives lists archives whose metadata cannot be trusted or read.
var specialArchives = []SpecialArchive{
	{Fragment: "optifine", ID: "OptiFine"},
}

// SpecialCase reports whether fileName matches the denylist.
func SpecialCase(fileName string) (SpecialArchive, bool) {
	lower := strings.ToLower(fileName)
	for _, s := range specialArchives {
		if strings.Contains(lower, s.Fragment) {
			return s, true
		}
	}
	return SpecialArchive{}, false
}
