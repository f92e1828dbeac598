//go:build !unix && !windows

package mmio

import (
	"errors"
	"fmt"
	"os"
)

// CreateAndMap creates a new file at path and reads it into a process-private
// slice. Platforms without a real mmap syscall lose cross-process visibility
// of the shared Appender variant; writes reach the file only through Flush.
func CreateAndMap(path string, capacity int, fillWithZeros bool) ([]byte, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, nil, ErrFileExists
		}
		return nil, nil, fmt.Errorf("mmio: create %s: %w", path, err)
	}
	if err := f.Truncate(int64(capacity)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, nil, fmt.Errorf("mmio: truncate %s: %w", path, err)
	}
	_ = fillWithZeros // already zero-filled by Truncate on a fresh file
	return make([]byte, capacity), f, nil
}

// MapExisting opens an existing file and reads its full contents.
func MapExisting(path string) ([]byte, *os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("mmio: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("mmio: stat %s: %w", path, err)
	}
	data := make([]byte, info.Size())
	if _, err := f.ReadAt(data, 0); err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("mmio: read %s: %w", path, err)
	}
	return data, f, nil
}

// Unmap is a no-op; CreateAndMap/MapExisting never held a real OS mapping.
func Unmap(data []byte) error {
	return nil
}

// Flush writes the process-private copy back to the underlying file. Real
// mmap platforms skip this (MAP_SHARED already keeps the page cache and the
// mapping in sync); the fallback has no such guarantee.
func Flush(data []byte, f *os.File) error {
	if _, err := f.WriteAt(data, 0); err != nil {
		return fmt.Errorf("mmio: flush: %w", err)
	}
	return nil
}

// Truncate shrinks or grows the underlying file.
func Truncate(f *os.File, size int64) error {
	if err := f.Truncate(size); err != nil {
		return fmt.Errorf("mmio: truncate: %w", err)
	}
	return nil
}
