// Package ccfile is the public facade over the appender/provider/roll
// packages: a single mapped file (bounded) or an unbounded sequence of them
// (rolling), presented behind one File interface.
package ccfile

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/concurrentfile/ccfile/appender"
	"github.com/concurrentfile/ccfile/provider"
	"github.com/concurrentfile/ccfile/roll"
)

// NullOffset is returned by every write that did not fit in the current
// file's remaining capacity.
const NullOffset = appender.NullOffset

// ErrRecordTooLarge is returned by a rolling File's write methods when a
// single record can never fit in any segment, regardless of rolling.
var ErrRecordTooLarge = errors.New("ccfile: record larger than segment capacity")

// File is the common surface both the bounded and rolling facades present.
type File interface {
	Write(p []byte) (int, error)
	WriteAscii(s string) (int, error)
	WriteChars(s string, order binary.ByteOrder) (int, error)
	WriteLong(v uint64, order binary.ByteOrder) (int, error)
	WriteLongs(order binary.ByteOrder, vs ...uint64) (int, error)
	WriteFunc(length int, fn func(region *appender.Region, offset, length int) error) (int, error)
	IsPending() bool
	IsFinished() bool
	Finish() int
	Close() error
	File() string
	PreFault() error
}

// MapNewFile creates a brand-new, capacity-byte local file at path and
// returns a bounded File over it.
func MapNewFile(path string, capacity int, fillWithZeros bool) (File, error) {
	a, err := appender.NewLocal(path, capacity, fillWithZeros)
	if err != nil {
		return nil, err
	}
	return &boundedFile{a: a}, nil
}

// MapExistingFile opens an already-created shared file for further appends,
// as another process (or an earlier run of this one) would have made it
// with a rolling or bounded shared File.
func MapExistingFile(path string) (File, error) {
	a, err := appender.OpenShared(path)
	if err != nil {
		return nil, err
	}
	return &boundedFile{a: a}, nil
}

// New builds a File per opts: bounded over a single file when opts.Roll is
// nil, rolling over a directory of segment files otherwise.
func New(opts Options) (File, error) {
	if opts.Roll == nil {
		return newBounded(opts)
	}
	return newRolling(opts)
}

func newBounded(opts Options) (File, error) {
	if opts.Capacity <= 0 {
		return nil, fmt.Errorf("ccfile: Capacity must be positive, got %d", opts.Capacity)
	}
	var a appender.Appender
	var err error
	if opts.Shared {
		a, err = appender.NewShared(opts.Path, opts.Capacity, opts.FillWithZeros)
	} else {
		a, err = appender.NewLocal(opts.Path, opts.Capacity, opts.FillWithZeros)
	}
	if err != nil {
		return nil, err
	}
	if opts.PreFault {
		if perr := a.PreFault(); perr != nil {
			_ = a.Close()
			return nil, perr
		}
	}
	return &boundedFile{a: a}, nil
}

func newRolling(opts Options) (File, error) {
	ro := opts.Roll
	p, err := provider.New(provider.Config{
		Dir:           ro.Dir,
		Prefix:        ro.Prefix,
		Suffix:        ro.Suffix,
		Capacity:      opts.Capacity,
		FillWithZeros: opts.FillWithZeros,
		Shared:        ro.Shared,
		PreFault:      opts.PreFault,
	})
	if err != nil {
		return nil, err
	}
	c, err := roll.New(p, roll.Options{
		AsyncClose:                ro.AsyncClose,
		YieldOnAllocateContention: ro.YieldOnAllocateContention,
		Listeners:                 ro.Listeners,
	})
	if err != nil {
		return nil, err
	}
	return &rollingFile{coordinator: c, capacity: opts.Capacity}, nil
}
