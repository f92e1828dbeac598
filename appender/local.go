package appender

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/concurrentfile/ccfile/internal/mmio"
)

// localFile is the single-process Appender variant: N, W, F live in process
// memory (H = 0), invisible to any other process even if it maps the same
// file.
type localFile struct {
	core
	region *Region
	path   string
	file   *os.File
	closed bool
}

// NewLocal creates a brand-new, capacity-byte file at path and maps it for
// single-process append. The file must not already exist
// (mmio.ErrFileExists is returned otherwise).
func NewLocal(path string, capacity int, fillWithZeros bool) (Appender, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("appender: capacity must be positive, got %d", capacity)
	}
	data, f, err := mmio.CreateAndMap(path, capacity, fillWithZeros)
	if err != nil {
		return nil, err
	}
	return &localFile{
		core:   core{h: 0, c: int64(capacity), cn: newLocalCounters(0)},
		region: &Region{data: data},
		path:   path,
		file:   f,
	}, nil
}

func (a *localFile) Write(p []byte) (int, error) {
	return a.WriteAt(p, 0, len(p))
}

func (a *localFile) WriteAt(p []byte, srcOffset, length int) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeAt(&a.core, a.region, p, srcOffset, length)
}

func (a *localFile) WriteAscii(s string) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeAscii(&a.core, a.region, s)
}

func (a *localFile) WriteChars(s string, order binary.ByteOrder) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeChars(&a.core, a.region, s, order)
}

func (a *localFile) WriteLong(v uint64, order binary.ByteOrder) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeLongs(&a.core, a.region, order, v)
}

func (a *localFile) WriteLongs(order binary.ByteOrder, vs ...uint64) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeLongs(&a.core, a.region, order, vs...)
}

func (a *localFile) WriteFunc(length int, fn func(region *Region, offset, length int) error) (int, error) {
	if a.closed {
		return NullOffset, ErrClosed
	}
	return writeFunc(&a.core, a.region, length, fn)
}

func (a *localFile) IsPending() bool            { return a.isPending() }
func (a *localFile) IsFinished() bool           { return a.isFinished() }
func (a *localFile) Finish() int                { return a.finish() }
func (a *localFile) File() string               { return a.path }
func (a *localFile) Capacity() int              { return a.capacity() }
func (a *localFile) HasAvailableCapacity() bool { return a.hasAvailableCapacity() }

func (a *localFile) PreFault() error {
	return mmio.PreFault(a.region.data)
}

func (a *localFile) Close() error {
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
