package modinfo

import (
	"bufio"
	"strings"

	"github.com/BurntSushi/toml"
)

const jarVersionPlaceholder = "${file.jarVersion}"

// Forge displayTest values that relax version matching.
const (
	displayIgnoreServer = "IGNORE_SERVER_VERSION"
	displayIgnoreAll    = "IGNORE_ALL_VERSION"
)

type modsToml struct {
	ModLoader string `toml:"modLoader"`
	Mods      []struct {
		ModID       string `toml:"modId"`
		Version     string `toml:"version"`
		DisplayTest string `toml:"displayTest"`
	} `toml:"mods"`
}

func readModsToml(a Archive) ([]Descriptor, error) {
	entry := ModsTomlEntry
	text, ok, err := a.ReadText(entry)
	if err != nil {
		return nil, err
	}
	if !ok {
		entry = NeoForgeTomlEntry
		if text, ok, err = a.ReadText(entry); err != nil || !ok {
			return nil, err
		}
	}

	var doc modsToml
	if _, err := toml.Decode(text, &doc); err != nil {
		return nil, decodeError(entry, err)
	}

	var implVersion string
	var implLoaded bool

	descriptors := make([]Descriptor, 0, len(doc.Mods))
	for _, m := range doc.Mods {
		d := Descriptor{ID: m.ModID}
		if m.Version != "" {
			d.Version, d.HasVersion = m.Version, true
		}
		if strings.Contains(d.Version, jarVersionPlaceholder) {
			if !implLoaded {
				if implVersion, err = manifestAttribute(a, "Implementation-Version"); err != nil {
					return nil, err
				}
				implLoaded = true
			}
			if implVersion == "" {
				d.Version, d.HasVersion = "", false
			} else {
				d.Version = strings.ReplaceAll(d.Version, jarVersionPlaceholder, implVersion)
			}
		}
		switch strings.ToUpper(strings.TrimSpace(m.DisplayTest)) {
		case displayIgnoreAll:
			d.ClientOnly = true
		case displayIgnoreServer:
			d.AnyRemote = true
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// manifestAttribute returns the value of a main-section attribute in
// META-INF/MANIFEST.MF, or "" when the manifest or attribute is missing.
func manifestAttribute(a Archive, name string) (string, error) {
	text, ok, err := a.ReadText(ManifestEntry)
	if err != nil || !ok {
		return "", err
	}

	var value string
	found := false
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			// End of the main section.
			break
		}
		if strings.HasPrefix(line, " ") {
			// Continuation of the previous header line.
			if found {
				value += line[1:]
			}
			continue
		}
		if found {
			break
		}
		k, v, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(k), name) {
			value = strings.TrimSpace(v)
			found = true
		}
	}
	return value, sc.Err()
}
