package modinfo

import (
	"errors"
	"testing"
)

func TestParseLegacyInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantIDs []string
		wantErr bool
	}{
		{
			name:    "bare list",
			input:   `[{"modid":"alpha","version":"1.0","mcversion":"1.12.2"}]`,
			wantIDs: []string{"alpha"},
		},
		{
			name:    "mod list object",
			input:   `{"modListVersion":2,"modList":[{"modid":"alpha","version":"1.0"},{"modid":"beta","version":"2.0"}]}`,
			wantIDs: []string{"alpha", "beta"},
		},
		{
			name:    "list object",
			input:   `{"list":[{"modid":"gamma","version":"3"}]}`,
			wantIDs: []string{"gamma"},
		},
		{
			name:    "trailing commas and line breaks",
			input:   "[\n  {\n    \"modid\": \"alpha\",\n    \"version\": \"1.0\",\n    \"description\": \"two\nlines\",\n  },\n]\n",
			wantIDs: []string{"alpha"},
		},
		{
			name:    "byte order mark",
			input:   "\ufeff[{\"modid\":\"alpha\",\"version\":\"1.0\"}]",
			wantIDs: []string{"alpha"},
		},
		{
			name:    "empty list",
			input:   `[]`,
			wantIDs: nil,
		},
		{
			name:    "garbage",
			input:   `{"modid": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLegacyInfo(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLegacyInfo expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLegacyInfo returned error: %v", err)
			}
			if got == nil {
				t.Fatalf("ParseLegacyInfo returned nil for a present document")
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d infos, want %d (%+v)", len(got), len(tt.wantIDs), got)
			}
			for i, id := range tt.wantIDs {
				if got[i].ModID != id {
					t.Fatalf("info[%d].ModID = %q, want %q", i, got[i].ModID, id)
				}
			}
		})
	}
}

func TestParseLegacyInfoMCVersion(t *testing.T) {
	t.Parallel()

	got, err := ParseLegacyInfo(`[{"modid":"alpha","version":"1.0","mcversion":"1.7.10"},{"modid":"beta","version":"2"}]`)
	if err != nil {
		t.Fatalf("ParseLegacyInfo returned error: %v", err)
	}
	if got[0].MCVersion == nil || *got[0].MCVersion != "1.7.10" {
		t.Fatalf("mcversion = %v, want 1.7.10", got[0].MCVersion)
	}
	if got[1].MCVersion != nil {
		t.Fatalf("missing mcversion should stay nil")
	}
}

func TestExtractLegacyWithAnnotations(t *testing.T) {
	t.Parallel()

	a := fakeArchive{
		AnnotationCacheEntry: `{
			"com/example/Alpha": {
				"name": "com/example/Alpha",
				"annotations": [{
					"type": "CLASS",
					"name": "Lnet/minecraftforge/fml/common/Mod;",
					"target": "com/example/Alpha",
					"values": {
						"modid": {"value": "alpha"},
						"clientSideOnly": {"type": "BOOLEAN", "value": true},
						"dependencies": {"values": ["a", "b"]}
					}
				}]
			},
			"com/example/Plain": {"name": "com/example/Plain", "interfaces": ["java/lang/Runnable"]}
		}`,
		LegacyInfoEntry: `[{"modid":"alpha","version":"1.2"}]`,
	}

	md, err := Extract(LegacyWithAnnotations, a)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	anns := md.Annotations["com/example/Alpha"]
	if len(anns) != 1 || anns[0].Name != ModAnnotation {
		t.Fatalf("annotations = %+v", md.Annotations)
	}
	if _, ok := md.Annotations["com/example/Plain"]; ok {
		t.Fatalf("classes without annotations should be dropped")
	}
	if v := anns[0].Values["clientSideOnly"]; !v.HasValue || v.Value != "true" {
		t.Fatalf("boolean attribute = %+v, want text true", v)
	}
	if v := anns[0].Values["dependencies"]; len(v.Values) != 2 {
		t.Fatalf("array attribute = %+v", v)
	}
	if len(md.Infos) != 1 || md.Infos[0].Version != "1.2" {
		t.Fatalf("infos = %+v", md.Infos)
	}
}

func TestExtractDecodeFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  Format
		archive fakeArchive
	}{
		{name: "annotation cache", format: LegacyWithAnnotations, archive: fakeArchive{AnnotationCacheEntry: `{"broken":`}},
		{name: "legacy info", format: LegacyInfoOnly, archive: fakeArchive{LegacyInfoEntry: `[{"modid":}]`}},
		{name: "mods toml", format: ModernToml, archive: fakeArchive{ModsTomlEntry: `[[mods]` + "\nmodId="}},
		{name: "fabric", format: Fabric, archive: fakeArchive{FabricEntry: `{"id":`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Extract(tt.format, tt.archive); !errors.Is(err, ErrDecode) {
				t.Fatalf("Extract error = %v, want ErrDecode", err)
			}
		})
	}
}

func TestExtractUnrecognizedIsEmpty(t *testing.T) {
	t.Parallel()

	md, err := Extract(Unrecognized, fakeArchive{})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if md.Annotations != nil || md.Infos != nil || md.Descriptors != nil {
		t.Fatalf("unexpected metadata: %+v", md)
	}
}
