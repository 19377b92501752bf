package marker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/blake3"

	"github.com/LasmGratel/mod-compability-checker/internal/fingerprint"
)

func TestWriteAndRead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	identity := fingerprint.Digest(blake3.Sum256([]byte("alpha:1.0")))
	strict := fingerprint.Digest(blake3.Sum256([]byte("jar bytes")))

	if err := Write(dir, fingerprint.Identity, identity); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := Write(dir, fingerprint.Strict, strict); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".sha"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != identity.String() {
		t.Fatalf(".sha = %q, want %q", data, identity)
	}

	got, err := Read(dir, fingerprint.Strict)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != strict {
		t.Fatalf("Read(strict) = %s, want %s", got, strict)
	}
}

func TestWriteOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".sha"), []byte("stale marker with extra text"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	d := fingerprint.Digest(blake3.Sum256(nil))
	if err := Write(dir, fingerprint.Identity, d); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Read(dir, fingerprint.Identity)
	if err != nil || got != d {
		t.Fatalf("Read = %s, %v; want %s", got, err, d)
	}
}

func TestReadMissing(t *testing.T) {
	t.Parallel()

	_, err := Read(t.TempDir(), fingerprint.Identity)
	if err == nil || !strings.Contains(err.Error(), "--dirty") {
		t.Fatalf("unexpected error: %v", err)
	}
}
