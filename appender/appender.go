// Package appender implements the reservation/completion protocol for
// concurrent, lock-free appends into a single pre-sized, memory-mapped file.
//
// Two variants share the same algorithm: Local keeps its counters in process
// memory, Shared keeps them in a fixed header at the start of the mapped
// region so multiple processes mapping the same file coordinate through it.
package appender

import (
	"encoding/binary"
	"errors"
)

// NullOffset is returned by every write/reserve operation that did not fit
// in the remaining capacity. It is a normal signaling value, not an error.
const NullOffset = -1

// HeaderSize is the number of bytes reserved at the start of the mapped
// region for the Shared variant's counters. Local appenders use a header
// offset of 0.
const HeaderSize = 64

// ErrPending is returned by Close when writes are still in flight.
var ErrPending = errors.New("appender: close called with pending writes")

// ErrClosed is returned by any operation attempted after Close has
// succeeded.
var ErrClosed = errors.New("appender: appender is closed")

// Appender owns one mapped file and hands out disjoint byte ranges to
// concurrent writers.
type Appender interface {
	// Write reserves len(p) bytes and copies p into the grant. Returns
	// NullOffset if p does not fit in the remaining capacity.
	Write(p []byte) (int, error)

	// WriteAt reserves length bytes and copies p[srcOffset:srcOffset+length].
	WriteAt(p []byte, srcOffset, length int) (int, error)

	// WriteAscii reserves one byte per UTF-16 code unit of s, replacing any
	// code unit above 127 with '?' (0x3F).
	WriteAscii(s string) (int, error)

	// WriteChars reserves two bytes per UTF-16 code unit of s and encodes s
	// as UTF-16 in the given byte order.
	WriteChars(s string, order binary.ByteOrder) (int, error)

	// WriteLong reserves 8 bytes and writes v in the given byte order.
	WriteLong(v uint64, order binary.ByteOrder) (int, error)

	// WriteLongs reserves 8*len(vs) bytes and writes each value in order.
	WriteLongs(order binary.ByteOrder, vs ...uint64) (int, error)

	// WriteFunc reserves length bytes and invokes fn with the region and the
	// granted offset/length so the caller can compose the payload in place.
	// fn must write exactly length bytes at region.Bytes()[offset:offset+length].
	WriteFunc(length int, fn func(region *Region, offset, length int) error) (int, error)

	// IsPending reports whether any reservation has not yet been completed.
	IsPending() bool

	// IsFinished reports whether the file is sealed and every reservation
	// against it has completed: W = N ∧ N ≥ C ∧ F ≥ 0.
	IsFinished() bool

	// Finish forces the file to seal immediately by reserving past capacity.
	// Always returns NullOffset.
	Finish() int

	// Close fails with ErrPending if IsPending(); otherwise truncates a
	// sealed file to its final size, unmaps, and closes the file handle.
	// Idempotent.
	Close() error

	// File returns the path of the underlying file.
	File() string

	// Capacity returns the total usable byte capacity C.
	Capacity() int

	// HasAvailableCapacity reports whether N < C, i.e. whether a reservation
	// might still succeed (length permitting).
	HasAvailableCapacity() bool

	// PreFault touches every page of the mapped region once, so an
	// inaccessible mapping fails fast here instead of SIGBUS-ing some writer
	// goroutine mid-reservation.
	PreFault() error
}
