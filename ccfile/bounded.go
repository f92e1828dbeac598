package ccfile

import (
	"encoding/binary"

	"github.com/concurrentfile/ccfile/appender"
)

// boundedFile wraps a single appender.Appender directly: once it fills,
// every subsequent write returns NullOffset.
type boundedFile struct {
	a appender.Appender
}

func (f *boundedFile) Write(p []byte) (int, error) { return f.a.Write(p) }
func (f *boundedFile) WriteAscii(s string) (int, error) {
	return f.a.WriteAscii(s)
}
func (f *boundedFile) WriteChars(s string, order binary.ByteOrder) (int, error) {
	return f.a.WriteChars(s, order)
}
func (f *boundedFile) WriteLong(v uint64, order binary.ByteOrder) (int, error) {
	return f.a.WriteLong(v, order)
}
func (f *boundedFile) WriteLongs(order binary.ByteOrder, vs ...uint64) (int, error) {
	return f.a.WriteLongs(order, vs...)
}
func (f *boundedFile) WriteFunc(length int, fn func(region *appender.Region, offset, length int) error) (int, error) {
	return f.a.WriteFunc(length, fn)
}
func (f *boundedFile) IsPending() bool  { return f.a.IsPending() }
func (f *boundedFile) IsFinished() bool { return f.a.IsFinished() }
func (f *boundedFile) Finish() int      { return f.a.Finish() }
func (f *boundedFile) Close() error     { return f.a.Close() }
func (f *boundedFile) File() string     { return f.a.File() }
func (f *boundedFile) PreFault() error  { return f.a.PreFault() }
