//go:build darwin || linux

package jar

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Map memory-maps the file at path read-only. The returned release function
// unmaps it; data must not be used afterwards.
func Map(path string) (data []byte, release func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: stating %s: %v", ErrIO, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("%w: %s is not a regular file", ErrIO, path)
	}

	// mmap rejects zero-length mappings.
	if info.Size() == 0 {
		return []byte{}, func() error { return nil }, nil
	}

	data, err = unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: memory-mapping %s: %v", ErrIO, path, err)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
