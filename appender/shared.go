package appender

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/concurrentfile/ccfile/internal/mmio"
)

// sharedFile is the multi-process Appender variant: N, W, F live in a fixed
// 64-byte header at the start of the mapped region (spec §4.2), so any
// process mapping the same file coordinates through the same atomics.
type sharedFile struct {
	core
	region *Region
	path   string
	file   *os.File
	closed bool
}

// NewShared creates a brand-new file at path, capacity bytes of payload plus
// the HeaderSize-byte header, and initializes the header counters. The file
// must not already exist.
func NewShared(path string, capacity int, fillWithZeros bool) (Appender, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("appender: capacity must be positive, got %d", capacity)
	}
	total := capacity + HeaderSize
	data, f, err := mmio.CreateAndMap(path, total, fillWithZeros)
	if err != nil {
		return nil, err
	}
	cn := newHeaderCounters(data, HeaderSize, true)
	return &sharedFile{
		core:   core{h: HeaderSize, c: int64(total), cn: cn},
		region: &Region{data: data},
		path:   path,
		file:   f,
	}, nil
}

// OpenShared maps an already-created shared file (another process, or an
// earlier run of this one, created it via NewShared). The header is
// trusted as-is; it is not re-initialized.
func OpenShared(path string) (Appender, error) {
	data, f, err := mmio.MapExisting(path)
	if err != nil {
		return nil, err
	}
	if len(data) < HeaderSize {
		_ = mmio.Unmap(data)
		_ = f.Close()
		return nil, fmt.Errorf("appender: %s is smaller than the %d-byte shared header", path, HeaderSize)
	}
	cn := newHeaderCounters(data, HeaderSize, false)
	return &sharedFile{
		core:   core{h: HeaderSize, c: int64(len(data)), cn: cn},
		region: &Region{data: data},
		path:   path,
		file:   f,
	}, nil
}

func (a *sharedFile) Write(p []byte) (int, error) {
	return a.WriteAt(p, 0, len(p))
}

func (a *sharedFile) WriteAt(p []byte, srcOffset, length int) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeAt(&a.core, a.region, p, srcOffset, length)
}

func (a *sharedFile) WriteAscii(s string) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeAscii(&a.core, a.region, s)
}

func (a *sharedFile) WriteChars(s string, order binary.ByteOrder) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeChars(&a.core, a.region, s, order)
}

func (a *sharedFile) WriteLong(v uint64, order binary.ByteOrder) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeLongs(&a.core, a.region, order, v)
}

func (a *sharedFile) WriteLongs(order binary.ByteOrder, vs ...uint64) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeLongs(&a.core, a.region, order, vs...)
}

func (a *sharedFile) WriteFunc(length int, fn func(region *Region, offset, length int) error) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeFunc(&a.core, a.region, length, fn)
}

func (a *sharedFile) IsPending() bool            { return a.isPending() }
func (a *sharedFile) IsFinished() bool           { return a.isFinished() }
func (a *sharedFile) Finish() int                { return a.finish() }
func (a *sharedFile) File() string               { return a.path }
func (a *sharedFile) Capacity() int              { return a.capacity() }
func (a *sharedFile) HasAvailableCapacity() bool { return a.hasAvailableCapacity() }

func (a *sharedFile) PreFault() error {
	return mmio.PreFault(a.region.data)
}

func (a *sharedFile) Close() error {
	if a.closed {
		return nil
	}
	if a.isPending() {
		return ErrPending
	}
	if err := mmio.Flush(a.region.data, a.file); err != nil {
		return err
	}
	if f := a.finalSize(); f >= 0 {
		if err := mmio.Truncate(a.file, f); err != nil {
			return err
		}
	}
	if err := mmio.Unmap(a.region.data); err != nil {
		return err
	}
	if err := a.file.Close(); err != nil {
		return fmt.Errorf("appender: close %s: %w", a.path, err)
	}
	a.closed = true
	return nil
}
