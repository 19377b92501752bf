package modinfo

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/jsonc"
)

type fabricMod struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

func readFabric(a Archive) ([]Descriptor, error) {
	text, ok, err := a.ReadText(FabricEntry)
	if err != nil || !ok {
		return nil, err
	}

	var m fabricMod
	if err := json.Unmarshal(jsonc.ToJSON([]byte(text)), &m); err != nil {
		return nil, decodeError(FabricEntry, err)
	}
	if m.ID == "" {
		return nil, nil
	}

	d := Descriptor{ID: m.ID}
	if m.Version != "" {
		d.Version, d.HasVersion = m.Version, true
	}
	d.ClientOnly = strings.EqualFold(strings.TrimSpace(m.Environment), "client")
	return []Descriptor{d}, nil
}
