package modinfo

import (
	"errors"
	"fmt"
)

// ErrDecode marks metadata documents that exist but cannot be decoded.
var ErrDecode = errors.New("metadata decode failed")

// Archive is the read access the extractors need.
type Archive interface {
	EntrySet
	ReadText(name string) (text string, ok bool, err error)
}

// Info is one entry of a legacy mcmod.info document.
type Info struct {
	ModID     string  `json:"modid"`
	Version   string  `json:"version"`
	MCVersion *string `json:"mcversion,omitempty"`
}

// Descriptor is a mod declared directly by a modern or Fabric descriptor.
type Descriptor struct {
	ID         string
	Version    string
	HasVersion bool
	ClientOnly bool
	AnyRemote  bool
}

// Metadata is everything decoded from one archive.
type Metadata struct {
	// Annotations maps internal class names to the annotations on them.
	Annotations map[string][]Annotation
	// Infos is nil when the archive has no mcmod.info.
	Infos       []Info
	Descriptors []Descriptor
}

// Extract decodes the documents that format implies.
func Extract(format Format, a Archive) (*Metadata, error) {
	md := &Metadata{}
	var err error

	switch format {
	case LegacyWithAnnotations:
		if md.Annotations, err = readAnnotationCache(a); err != nil {
			return nil, err
		}
		if md.Infos, err = readLegacyInfo(a); err != nil {
			return nil, err
		}
	case LegacyInfoOnly:
		if md.Infos, err = readLegacyInfo(a); err != nil {
			return nil, err
		}
	case ModernToml:
		if md.Descriptors, err = readModsToml(a); err != nil {
			return nil, err
		}
	case Fabric:
		if md.Descriptors, err = readFabric(a); err != nil {
			return nil, err
		}
	}
	return md, nil
}

func decodeError(entry string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDecode, entry, err)
}
