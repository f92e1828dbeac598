//go:build unix

package mmio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CreateAndMap creates a new file at path, sizes it to capacity, and maps it
// PROT_READ|PROT_WRITE/MAP_SHARED. The file must not already exist.
//
// When fillWithZeros is true, capacity zero bytes are actually written so the
// filesystem allocates real blocks up front instead of leaving a sparse file;
// otherwise the file is grown with Truncate, which is zero-filled lazily by
// the kernel on first read of any unwritten page.
func CreateAndMap(path string, capacity int, fillWithZeros bool) ([]byte, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, nil, ErrFileExists
		}
		return nil, nil, fmt.Errorf("mmio: create %s: %w", path, err)
	}

	if fillWithZeros {
		if err := writeZeros(f, capacity); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return nil, nil, fmt.Errorf("mmio: zero-fill %s: %w", path, err)
		}
	} else if err := f.Truncate(int64(capacity)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, nil, fmt.Errorf("mmio: truncate %s: %w", path, err)
	}

	data, err := mmapRW(f, capacity)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, nil, err
	}
	return data, f, nil
}

// MapExisting opens and maps an already-created file at its current size.
// Used by the shared, multi-process Appender variant to reopen a file another
// process created.
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
	if info.Size() == 0 || info.Size() > int64(^uint(0)>>1) {
		_ = f.Close()
		return nil, nil, fmt.Errorf("mmio: %s has invalid size %d", path, info.Size())
	}
	data, err := mmapRW(f, int(info.Size()))
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return data, f, nil
}

func mmapRW(f *os.File, size int) ([]byte, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmio: mmap: %w", err)
	}
	return data, nil
}

// Unmap releases a mapping returned by CreateAndMap or MapExisting.
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := unix.Munmap(data); err != nil {
		if errors.Is(err, unix.EINVAL) {
			return nil // already unmapped
		}
		return fmt.Errorf("mmio: munmap: %w", err)
	}
	return nil
}

// Truncate shrinks or grows the underlying file. Safe to call with the file
// still mapped as long as the caller does not touch bytes past the new size
// afterward; Close truncates before unmapping for exactly that reason.
func Truncate(f *os.File, size int64) error {
	if err := f.Truncate(size); err != nil {
		return fmt.Errorf("mmio: truncate: %w", err)
	}
	return nil
}

// Flush is a no-op on platforms with a real MAP_SHARED mapping: the mapping
// and the page cache are already the same pages as the file.
func Flush(data []byte, f *os.File) error {
	return nil
}

func writeZeros(f *os.File, n int) error {
	const chunk = 1 << 20 // 1MB
	buf := make([]byte, chunk)
	remaining := n
	for remaining > 0 {
		write := remaining
		if write > chunk {
			write = chunk
		}
		if _, err := f.Write(buf[:write]); err != nil {
			return err
		}
		remaining -= write
	}
	return nil
}
