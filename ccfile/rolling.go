package ccfile

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/concurrentfile/ccfile/appender"
	"github.com/concurrentfile/ccfile/roll"
)

// rollingFile wraps a roll.Coordinator: writes retry against successive
// segment files until one has room, and never report finished since a new
// segment always follows.
type rollingFile struct {
	coordinator *roll.Coordinator
	capacity    int
}

func (f *rollingFile) checkLength(length int) error {
	if length > f.capacity {
		return ErrRecordTooLarge
	}
	return nil
}

func (f *rollingFile) attempt(length int, do func(a appender.Appender) (int, error)) (int, error) {
	if err := f.checkLength(length); err != nil {
		return NullOffset, err
	}
	for {
		a, err := f.coordinator.FileForWrite()
		if err != nil {
			return NullOffset, err
		}
		off, err := do(a)
		if err != nil {
			return NullOffset, err
		}
		if off != NullOffset {
			return off, nil
		}
		// Another writer raced us to the last bytes of a; the coordinator
		// will roll on the next FileForWrite call.
	}
}

func (f *rollingFile) Write(p []byte) (int, error) {
	return f.attempt(len(p), func(a appender.Appender) (int, error) { return a.Write(p) })
}

func (f *rollingFile) WriteAscii(s string) (int, error) {
	// writeAscii reserves one byte per UTF-16 code unit, so this count is exact,
	// not an upper bound.
	return f.attempt(len(utf16.Encode([]rune(s))), func(a appender.Appender) (int, error) { return a.WriteAscii(s) })
}

func (f *rollingFile) WriteChars(s string, order binary.ByteOrder) (int, error) {
	// Encoded length is only known inside appender.WriteChars; bound on the
	// worst case (4 bytes per rune covers surrogate pairs) so oversized
	// strings fail checkLength before ever touching the coordinator.
	return f.attempt(4*len([]rune(s)), func(a appender.Appender) (int, error) { return a.WriteChars(s, order) })
}

func (f *rollingFile) WriteLong(v uint64, order binary.ByteOrder) (int, error) {
	return f.attempt(8, func(a appender.Appender) (int, error) { return a.WriteLong(v, order) })
}

func (f *rollingFile) WriteLongs(order binary.ByteOrder, vs ...uint64) (int, error) {
	return f.attempt(8*len(vs), func(a appender.Appender) (int, error) { return a.WriteLongs(order, vs...) })
}

func (f *rollingFile) WriteFunc(length int, fn func(region *appender.Region, offset, length int) error) (int, error) {
	return f.attempt(length, func(a appender.Appender) (int, error) { return a.WriteFunc(length, fn) })
}

func (f *rollingFile) IsPending() bool {
	return f.coordinator.Current().IsPending()
}

// IsFinished is always false: a rolling file is never done, another segment
// always follows once the current one seals.
func (f *rollingFile) IsFinished() bool { return false }

// Finish forces the current segment to seal, which causes the coordinator
// to roll to a fresh segment on the next write.
func (f *rollingFile) Finish() int {
	return f.coordinator.Current().Finish()
}

func (f *rollingFile) Close() error {
	return f.coordinator.Close()
}

func (f *rollingFile) File() string {
	return f.coordinator.Current().File()
}

// PreFault pre-faults only the currently active segment; freshly rolled
// segments are pre-faulted as they are created when the Provider backing
// this coordinator was configured with PreFault.
func (f *rollingFile) PreFault() error {
	return f.coordinator.Current().PreFault()
}
