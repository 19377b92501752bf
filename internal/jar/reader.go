// Package jar reads entries out of mod archives through a read-only memory
// mapping that is opened once per archive.
package jar

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

var (
	// ErrIO marks archives that could not be opened, stated or mapped.
	ErrIO = errors.New("archive unreadable")
	// ErrNotArchive marks files that are not valid zip containers.
	ErrNotArchive = errors.New("not a zip archive")
	// ErrEntryCorrupt marks entries whose compressed stream fails to decode.
	ErrEntryCorrupt = errors.New("archive entry corrupt")
)

// Reader gives random access to the entries of a single archive.
type Reader struct {
	path    string
	release func() error
	entries map[string]*zip.File
}

// Open maps the archive at path and parses its central directory.
func Open(path string) (*Reader, error) {
	data, release, err := Map(path)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("%w: %s: %v", ErrNotArchive, path, err)
	}

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		// Keep the first entry when a jar carries duplicate names, matching
		// how the JVM class loader resolves them.
		if _, ok := entries[f.Name]; !ok {
			entries[f.Name] = f
		}
	}

	return &Reader{
		path:    path,
		release: release,
		entries: entries,
	}, nil
}

// Contains reports whether the archive has an entry called name.
func (r *Reader) Contains(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// ReadText inflates the named entry and returns it as text. A missing entry
// returns ok=false and no error.
func (r *Reader) ReadText(name string) (text string, ok bool, err error) {
	f, found := r.entries[name]
	if !found {
		return "", false, nil
	}

	rc, err := f.Open()
	if err != nil {
		return "", false, fmt.Errorf("%w: %s in %s: %v", ErrEntryCorrupt, name, r.path, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if f.UncompressedSize64 > 0 && f.UncompressedSize64 < 64<<20 {
		buf.Grow(int(f.UncompressedSize64))
	}
	if _, err := io.Copy(&buf, rc); err != nil {
		return "", false, fmt.Errorf("%w: %s in %s: %v", ErrEntryCorrupt, name, r.path, err)
	}
	return buf.String(), true, nil
}

// Close releases the memory mapping. The reader must not be used afterwards.
func (r *Reader) Close() error {
	if r.release == nil {
		return nil
	}
	err := r.release()
	r.release = nil
	r.entries = nil
	return err
}
