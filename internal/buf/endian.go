// Package buf contains small endian-aware encode helpers and overflow-safe
// bounds arithmetic for validating offsets and lengths against a mapped
// region before they ever reach a reservation or a memory access.
package buf

import (
	"encoding/binary"
	"math"
)

// PutUint64 writes v into b[off:off+8] using order. Panics if b is too short,
// matching encoding/binary's own bounds behavior.
func PutUint64(b []byte, off int, v uint64, order binary.ByteOrder) {
	order.PutUint64(b[off:off+8], v)
}

// AddOverflowSafe adds a and b, returning ok = false when the result would
// overflow int. Used to add an offset and a length without wrapping a huge
// caller-supplied value around into a small, falsely-in-bounds one.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Slice returns b[off:off+n] if that range fits within len(b). Used to carve
// a WriteAt source range out of a caller-supplied byte slice before any bytes
// are copied into the mapped region.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
