package mod

import "strings"

// Category says which sides of a connection need a mod.
type Category string

const (
	// Required mods must be present, at the same version, on every side.
	Required Category = "REQUIRED"
	// ClientOnly mods only matter to the presentation side.
	ClientOnly Category = "CLIENT_ONLY"
	// AnyRemote mods accept whatever version the remote side runs.
	AnyRemote Category = "ANY_REMOTE"
)

// Fingerprinted returns true if records of this category feed the digest.
func (c Category) Fingerprinted() bool {
	return c == Required
}

// Label is a short human-readable description used in reports.
func (c Category) Label() string {
	switch c {
	case Required:
		return "required"
	case ClientOnly:
		return "client-only"
	case AnyRemote:
		return "any remote version"
	default:
		return strings.ToLower(string(c))
	}
}
