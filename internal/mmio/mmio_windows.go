//go:build windows

package mmio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// CreateAndMap creates a new file at path, sizes it to capacity, and maps it
// read/write. The file must not already exist.
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
	if info.Size() == 0 {
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
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READWRITE, 0, uint32(size), nil)
	if err != nil {
		return nil, fmt.Errorf("mmio: CreateFileMapping: %w", err)
	}
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		return nil, fmt.Errorf("mmio: MapViewOfFile: %w", err)
	}

	return unsafeSlice(addr, size), nil
}

// Unmap releases a mapping returned by CreateAndMap or MapExisting.
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := addrOf(data)
	if err := windows.UnmapViewOfFile(addr); err != nil {
		return fmt.Errorf("mmio: UnmapViewOfFile: %w", err)
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

// Flush is a no-op: MapViewOfFile already shares pages with the file.
func Flush(data []byte, f *os.File) error {
	return nil
}

func writeZeros(f *os.File, n int) error {
	const chunk = 1 << 20
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
