//go:build !darwin && !linux

package jar

import (
	"fmt"
	"os"
)

// Map reads the whole file at path. Platforms without a usable mmap get a
// heap copy; release is a no-op.
func Map(path string) (data []byte, release func() error, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading %s: %v", ErrIO, path, err)
	}
	return data, func() error { return nil }, nil
}
