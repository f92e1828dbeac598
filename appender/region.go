package appender

import (
	"encoding/binary"

	"github.com/concurrentfile/ccfile/internal/buf"
)

// Region is the byte-order-aware view over a mapped file's bytes that write
// operations and the WriteFunc callback operate against. It is a thin
// wrapper: spec explicitly treats the underlying buffer as "any addressable
// byte region supporting atomic 64-bit and bulk operations" and places
// integration with a third-party buffer-accessor library out of scope, so
// Region is built directly on []byte.
type Region struct {
	data []byte
}

// Bytes returns the full mapped region, including the header on the Shared
// variant. Callers using WriteFunc must confine themselves to
// [offset, offset+length).
func (r *Region) Bytes() []byte {
	return r.data
}

// PutBytes copies p into data[offset:offset+len(p)].
func (r *Region) PutBytes(offset int, p []byte) {
	copy(r.data[offset:offset+len(p)], p)
}

// PutUint64 writes v at data[offset:offset+8] in the given byte order.
func (r *Region) PutUint64(offset int, v uint64, order binary.ByteOrder) {
	buf.PutUint64(r.data, offset, v, order)
}

// PutUint16 writes v at data[offset:offset+2] in the given byte order.
func (r *Region) PutUint16(offset int, v uint16, order binary.ByteOrder) {
	order.PutUint16(r.data[offset:offset+2], v)
}
