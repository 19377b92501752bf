package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/LasmGratel/mod-compability-checker/internal/jar"
	"github.com/LasmGratel/mod-compability-checker/internal/jartest"
	"github.com/LasmGratel/mod-compability-checker/internal/mod"
	"github.com/LasmGratel/mod-compability-checker/internal/modinfo"
)

func writeModDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	jartest.Write(t, dir, "alpha-1.0.jar", jartest.Entries{
		modinfo.AnnotationCacheEntry: jartest.AnnotationCache(map[string]string{"modid": "alpha", "version": "dev"}),
		modinfo.LegacyInfoEntry:      `[{"modid":"alpha","version":"1.0"}]`,
	})
	jartest.Write(t, dir, "beta-2.0.jar", jartest.Entries{
		modinfo.AnnotationCacheEntry: jartest.AnnotationCache(
			map[string]string{"modid": "beta", "version": "2.0"},
			map[string]string{"modid": "betaclient", "version": "2.0", "clientSideOnly": "true"},
		),
	})
	jartest.Write(t, dir, "gamma.jar", jartest.Entries{
		modinfo.FabricEntry: `{"schemaVersion":1,"id":"gamma","version":"3"}`,
	})
	jartest.Write(t, dir, "library.jar", jartest.Entries{"com/example/Lib.class": "cafebabe"})
	if err := os.WriteFile(filepath.Join(dir, "OptiFine_HD.jar"), []byte("not even a zip"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "nested.jar"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	jartest.Write(t, filepath.Join(dir, "nested.jar"), "deep.jar", jartest.Entries{
		modinfo.LegacyInfoEntry: `[{"modid":"deep","version":"1"}]`,
	})
	return dir
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := writeModDir(t)
	names, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	want := []string{"OptiFine_HD.jar", "alpha-1.0.jar", "beta-2.0.jar", "gamma.jar", "library.jar"}
	if !slices.Equal(names, want) {
		t.Fatalf("Discover() = %v, want %v", names, want)
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	t.Parallel()

	if _, err := Discover(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestRunClassifiesEveryArchive(t *testing.T) {
	t.Parallel()

	dir := writeModDir(t)
	records, err := Run(context.Background(), dir, Options{Threads: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	type summary struct {
		id, version string
		category    mod.Category
		file        string
	}
	var got []summary
	for _, r := range records {
		got = append(got, summary{r.ID, r.Version, r.Category, r.SourceFile})
	}
	want := []summary{
		{"OptiFine", "", mod.ClientOnly, "OptiFine_HD.jar"},
		{"alpha", "1.0", mod.Required, "alpha-1.0.jar"},
		{"beta", "2.0", mod.Required, "beta-2.0.jar"},
		{"betaclient", "2.0", mod.ClientOnly, "beta-2.0.jar"},
		{"gamma", "3", mod.Required, "gamma.jar"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("records:\n got  %v\n want %v", got, want)
	}
}

func TestProcessOrderIndependent(t *testing.T) {
	t.Parallel()

	dir := writeModDir(t)
	names, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	baseline, err := Process(context.Background(), dir, names, Options{Threads: 1})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	reversed := slices.Clone(names)
	slices.Reverse(reversed)
	rotated := append(slices.Clone(names[2:]), names[:2]...)

	for _, order := range [][]string{reversed, rotated} {
		for _, threads := range []int{1, 3, 8} {
			got, err := Process(context.Background(), dir, order, Options{Threads: threads})
			if err != nil {
				t.Fatalf("Process failed: %v", err)
			}
			if !slices.Equal(got, baseline) {
				t.Fatalf("order %v threads=%d changed result", order, threads)
			}
		}
	}
}

func TestProcessReportsRecordsAndProgress(t *testing.T) {
	t.Parallel()

	dir := writeModDir(t)
	names, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	var (
		mu       sync.Mutex
		seen     int
		progress []int64
	)
	_, err = Process(context.Background(), dir, names, Options{
		Threads:  4,
		OnRecord: func(mod.Record) { seen++ },
		OnProgress: func(p Progress) {
			mu.Lock()
			defer mu.Unlock()
			if p.Total != int64(len(names)) {
				t.Errorf("progress total = %d, want %d", p.Total, len(names))
			}
			progress = append(progress, p.Completed)
		},
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if seen != 5 {
		t.Fatalf("OnRecord called %d times, want 5", seen)
	}
	slices.Sort(progress)
	if !slices.Equal(progress, []int64{1, 2, 3, 4, 5}) {
		t.Fatalf("progress = %v", progress)
	}
}

func TestRunAbortsOnCorruptMetadata(t *testing.T) {
	t.Parallel()

	dir := writeModDir(t)
	jartest.Write(t, dir, "broken.jar", jartest.Entries{
		modinfo.AnnotationCacheEntry: `{"com/example/Broken": {`,
	})

	records, err := Run(context.Background(), dir, Options{Threads: 3})
	if err == nil {
		t.Fatalf("expected decode failure")
	}
	if records != nil {
		t.Fatalf("no records should be returned on failure, got %v", records)
	}
	if !errors.Is(err, modinfo.ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
	var ae *ArchiveError
	if !errors.As(err, &ae) || filepath.Base(ae.Path) != "broken.jar" {
		t.Fatalf("error should name the archive: %v", err)
	}
}

func TestRunAbortsOnInvalidArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jartest.Write(t, dir, "ok.jar", jartest.Entries{modinfo.LegacyInfoEntry: `[{"modid":"ok","version":"1"}]`})
	if err := os.WriteFile(filepath.Join(dir, "truncated.jar"), []byte("PK\x03\x04"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := Run(context.Background(), dir, Options{})
	if !errors.Is(err, jar.ErrNotArchive) {
		t.Fatalf("error = %v, want ErrNotArchive", err)
	}
}

func TestProcessRecoversWorkerPanic(t *testing.T) {
	t.Parallel()

	dir := writeModDir(t)
	names, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	_, err = Process(context.Background(), dir, names, Options{
		Threads:    2,
		OnProgress: func(Progress) { panic("boom") },
	})
	if !errors.Is(err, ErrWorker) {
		t.Fatalf("error = %v, want ErrWorker", err)
	}
}

func TestProcessHonorsCancellation(t *testing.T) {
	t.Parallel()

	dir := writeModDir(t)
	names, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Process(ctx, dir, names, Options{Threads: 2}); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestProcessEmpty(t *testing.T) {
	t.Parallel()

	records, err := Process(context.Background(), t.TempDir(), nil, Options{})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %v, want none", records)
	}
}

func TestDiscoverFollowsSymlinkedDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	realDir := filepath.Join(root, "real")
	if err := os.Mkdir(realDir, 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	jartest.Write(t, realDir, "alpha.jar", jartest.Entries{
		modinfo.LegacyInfoEntry: `[{"modid":"alpha","version":"1"}]`,
	})
	link := filepath.Join(root, "mods")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	names, err := Discover(link)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if !slices.Equal(names, []string{"alpha.jar"}) {
		t.Fatalf("Discover(symlink) = %v, want [alpha.jar]", names)
	}
}

func TestDiscoverRejectsNonDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := jartest.Write(t, dir, "alpha.jar", jartest.Entries{
		modinfo.LegacyInfoEntry: `[{"modid":"alpha","version":"1"}]`,
	})

	tests := []struct {
		name string
		path string
	}{
		{name: "regular file", path: file},
		{name: "missing", path: filepath.Join(dir, "nope")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			names, err := Discover(tt.path)
			if !errors.Is(err, jar.ErrIO) {
				t.Fatalf("Discover(%s) = %v, %v; want ErrIO", tt.path, names, err)
			}
		})
	}
}
