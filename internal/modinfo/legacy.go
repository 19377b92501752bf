package modinfo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// ModAnnotation is the descriptor of Forge's @Mod annotation.
const ModAnnotation = "Lnet/minecraftforge/fml/common/Mod;"

// Annotation is one entry in the FML annotation cache.
type Annotation struct {
	Type   string                     `json:"type"`
	Name   string                     `json:"name"`
	Target string                     `json:"target,omitempty"`
	Value  *AnnotationValue           `json:"value,omitempty"`
	Values map[string]AnnotationValue `json:"values,omitempty"`
}

// AnnotationValue is a typed attribute value. Scalars are kept as text.
type AnnotationValue struct {
	Type     string
	Value    string
	HasValue bool
	Values   []string
}

func (v *AnnotationValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   string            `json:"type"`
		Value  json.RawMessage   `json:"value"`
		Values []json.RawMessage `json:"values"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.Type = raw.Type

	if len(raw.Value) > 0 {
		text, ok, err := scalarText(raw.Value)
		if err != nil {
			return err
		}
		v.Value, v.HasValue = text, ok
	}
	for _, item := range raw.Values {
		text, ok, err := scalarText(item)
		if err != nil {
			return err
		}
		if ok {
			v.Values = append(v.Values, text)
		}
	}
	return nil
}

// scalarText renders a JSON string, boolean or number as text. null yields
// ok=false; objects and arrays are rejected.
func scalarText(raw json.RawMessage) (string, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", false, err
		}
		return strconv.FormatBool(b), true, nil
	case '{', '[':
		return "", false, fmt.Errorf("unexpected composite value %s", raw)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false, err
		}
		return n.String(), true, nil
	}
}

type classEntry struct {
	Name        string       `json:"name"`
	Annotations []Annotation `json:"annotations"`
	Interfaces  []string     `json:"interfaces"`
}

func readAnnotationCache(a Archive) (map[string][]Annotation, error) {
	text, ok, err := a.ReadText(AnnotationCacheEntry)
	if err != nil || !ok {
		return nil, err
	}

	var classes map[string]classEntry
	if err := json.Unmarshal([]byte(text), &classes); err != nil {
		return nil, decodeError(AnnotationCacheEntry, err)
	}

	out := make(map[string][]Annotation, len(classes))
	for name, entry := range classes {
		if len(entry.Annotations) > 0 {
			out[name] = entry.Annotations
		}
	}
	return out, nil
}

type infoList struct {
	ModList []Info `json:"modList"`
	List    []Info `json:"list"`
}

func readLegacyInfo(a Archive) ([]Info, error) {
	text, ok, err := a.ReadText(LegacyInfoEntry)
	if err != nil || !ok {
		return nil, err
	}
	infos, err := ParseLegacyInfo(text)
	if err != nil {
		return nil, decodeError(LegacyInfoEntry, err)
	}
	return infos, nil
}

// ParseLegacyInfo decodes an mcmod.info document. Both the bare array form
// and the {"modListVersion": 2, "modList": [...]} form are accepted. Comments,
// line breaks and trailing commas are tolerated.
func ParseLegacyInfo(text string) ([]Info, error) {
	// Some tools prepend a UTF-8 byte order mark.
	text = strings.TrimPrefix(text, "\ufeff")
	data := jsonc.ToJSON([]byte(text))
	// Raw line breaks inside string literals are invalid JSON.
	data = bytes.ReplaceAll(data, []byte("\n"), nil)
	data = bytes.ReplaceAll(data, []byte("\r"), nil)
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var list []Info
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return nonNil(list), nil
	}

	var obj infoList
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj.ModList != nil {
		return obj.ModList, nil
	}
	return nonNil(obj.List), nil
}

// nonNil keeps "document present but empty" distinguishable from "absent".
func nonNil(list []Info) []Info {
	if list == nil {
		return []Info{}
	}
	return list
}
