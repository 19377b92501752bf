// Package jartest builds small mod archives for tests.
package jartest

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Entries maps archive entry names to their contents.
type Entries map[string]string

// Bytes returns a zip archive holding entries, written in name order so the
// output is reproducible.
func Bytes(t testing.TB, entries Entries) []byte {
	t.Helper()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	return buf.Bytes()
}

// Write creates dir/name as a zip archive holding entries and returns its path.
func Write(t testing.TB, dir, name string, entries Entries) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Bytes(t, entries), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

// AnnotationCache renders a minimal fml_cache_annotation.json declaring one
// @Mod per attribute map under a distinct class name.
func AnnotationCache(mods ...map[string]string) string {
	var b bytes.Buffer
	b.WriteString("{")
	for i, attrs := range mods {
		if i > 0 {
			b.WriteString(",")
		}
		class := "com/example/Mod" + string(rune('A'+i))
		b.WriteString(`"` + class + `":{"name":"` + class + `","annotations":[{"type":"CLASS","name":"Lnet/minecraftforge/fml/common/Mod;","target":"` + class + `","values":{`)
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for j, k := range keys {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(`"` + k + `":{"value":"` + attrs[k] + `"}`)
		}
		b.WriteString("}}]}")
	}
	b.WriteString("}")
	return b.String()
}
