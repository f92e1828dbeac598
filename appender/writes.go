package appender

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/concurrentfile/ccfile/internal/buf"
)

// writeAt reserves length bytes and copies p[srcOffset:srcOffset+length]
// into the grant, rejecting a malformed source range before ever touching
// the reservation counters.
func writeAt(a *core, r *Region, p []byte, srcOffset, length int) (int, error) {
	if !buf.Has(p, srcOffset, length) {
		return NullOffset, fmt.Errorf("appender: source range [%d:%d+%d) out of bounds (len %d)", srcOffset, srcOffset, length, len(p))
	}
	off := a.reserve(length)
	if off == NullOffset {
		return NullOffset, nil
	}
	r.PutBytes(off, p[srcOffset:srcOffset+length])
	a.commit(length)
	return off, nil
}

// writeAscii reserves one byte per UTF-16 code unit of s, replacing anything
// above 127 with '?' (0x3F), matching spec §4.1's writeAscii. Code units, not
// Go runes, because a rune above U+FFFF is two UTF-16 surrogates and so two
// bytes (and two '?' replacements) in the original char-oriented semantics.
func writeAscii(a *core, r *Region, s string) (int, error) {
	units := utf16.Encode([]rune(s))
	length := len(units)
	off := a.reserve(length)
	if off == NullOffset {
		return NullOffset, nil
	}
	buf := r.Bytes()
	for i, c := range units {
		if c > 127 {
			buf[off+i] = '?'
		} else {
			buf[off+i] = byte(c)
		}
	}
	a.commit(length)
	return off, nil
}

// writeChars reserves 2*(number of UTF-16 code units in s) bytes and encodes
// s as UTF-16 in order, with no byte-order-mark.
func writeChars(a *core, r *Region, s string, order binary.ByteOrder) (int, error) {
	encoded, err := utf16Bytes(s, order)
	if err != nil {
		return NullOffset, fmt.Errorf("appender: encode utf-16: %w", err)
	}
	off := a.reserve(len(encoded))
	if off == NullOffset {
		return NullOffset, nil
	}
	r.PutBytes(off, encoded)
	a.commit(len(encoded))
	return off, nil
}

func utf16Bytes(s string, order binary.ByteOrder) ([]byte, error) {
	endian := unicode.LittleEndian
	if order == binary.BigEndian {
		endian = unicode.BigEndian
	}
	enc := unicode.UTF16(endian, unicode.IgnoreBOM).NewEncoder()
	result, _, err := transform.Bytes(enc, []byte(s))
	return result, err
}

// writeLongs reserves 8*len(vs) bytes and writes each value in order,
// covering spec §4.1's writeLong/writeLongs 1-4 value overloads with one
// variadic call.
func writeLongs(a *core, r *Region, order binary.ByteOrder, vs ...uint64) (int, error) {
	length := 8 * len(vs)
	off := a.reserve(length)
	if off == NullOffset {
		return NullOffset, nil
	}
	for i, v := range vs {
		r.PutUint64(off+i*8, v, order)
	}
	a.commit(length)
	return off, nil
}

// writeFunc reserves length bytes and lets fn compose the payload directly
// against the region, collapsing spec §4.1's parametrized-callback overloads
// (WriteFunction/ParametizedWriteFunction/BiParametizedWriteFunction/
// TriParametizedWriteFunction) into one closure, per the design note that the
// multi-arity overloads are a Java-generics ergonomic concern, not a
// semantic one.
func writeFunc(a *core, r *Region, length int, fn func(region *Region, offset, length int) error) (int, error) {
	off := a.reserve(length)
	if off == NullOffset {
		return NullOffset, nil
	}
	err := fn(r, off, length)
	a.commit(length)
	if err != nil {
		return NullOffset, err
	}
	return off, nil
}
