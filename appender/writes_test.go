package appender

import (
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAscii_ReplacesNonAsciiRunes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	a, err := NewLocal(path, 16, false)
	require.NoError(t, err)

	off, err := a.WriteAscii("héllo")
	require.NoError(t, err)
	require.Equal(t, 0, off)

	lf := a.(*localFile)
	require.Equal(t, []byte("h?llo"), lf.region.data[0:5])
	require.NoError(t, a.Close())
}

func TestWriteAscii_SurrogatePairCountsAsTwoUnits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	a, err := NewLocal(path, 16, false)
	require.NoError(t, err)

	// U+1F600 is a single Go rune but two UTF-16 code units (a surrogate
	// pair), so it must reserve and fill two bytes, not one.
	off, err := a.WriteAscii("a\U0001F600b")
	require.NoError(t, err)
	require.Equal(t, 0, off)

	lf := a.(*localFile)
	require.Equal(t, []byte("a??b"), lf.region.data[0:4])

	off2, err := a.Write([]byte{9})
	require.NoError(t, err)
	require.Equal(t, 4, off2)
	require.NoError(t, a.Close())
}

func TestWriteChars_UTF16RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	a, err := NewLocal(path, 32, false)
	require.NoError(t, err)

	off, err := a.WriteChars("hi", binary.BigEndian)
	require.NoError(t, err)
	require.Equal(t, 0, off)

	lf := a.(*localFile)
	require.Equal(t, []byte{0x00, 'h', 0x00, 'i'}, lf.region.data[0:4])
	require.NoError(t, a.Close())
}

func TestWriteChars_LittleEndian(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	a, err := NewLocal(path, 32, false)
	require.NoError(t, err)

	off, err := a.WriteChars("hi", binary.LittleEndian)
	require.NoError(t, err)
	require.Equal(t, 0, off)

	lf := a.(*localFile)
	require.Equal(t, []byte{'h', 0x00, 'i', 0x00}, lf.region.data[0:4])
	require.NoError(t, a.Close())
}

func TestWriteLong_And_WriteLongs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	a, err := NewLocal(path, 32, false)
	require.NoError(t, err)

	off, err := a.WriteLong(0x0102030405060708, binary.BigEndian)
	require.NoError(t, err)
	require.Equal(t, 0, off)

	off, err = a.WriteLongs(binary.BigEndian, 1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 8, off)

	lf := a.(*localFile)
	require.Equal(t, uint64(0x0102030405060708), binary.BigEndian.Uint64(lf.region.data[0:8]))
	require.Equal(t, uint64(1), binary.BigEndian.Uint64(lf.region.data[8:16]))
	require.Equal(t, uint64(2), binary.BigEndian.Uint64(lf.region.data[16:24]))
	require.Equal(t, uint64(3), binary.BigEndian.Uint64(lf.region.data[24:32]))
	require.NoError(t, a.Close())
}

func TestWriteFunc_ComposesAgainstRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	a, err := NewLocal(path, 16, false)
	require.NoError(t, err)

	off, err := a.WriteFunc(4, func(region *Region, offset, length int) error {
		region.PutUint16(offset, 0xBEEF, binary.BigEndian)
		region.PutUint16(offset+2, 0xCAFE, binary.BigEndian)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 0, off)

	lf := a.(*localFile)
	require.Equal(t, uint16(0xBEEF), binary.BigEndian.Uint16(lf.region.data[0:2]))
	require.Equal(t, uint16(0xCAFE), binary.BigEndian.Uint16(lf.region.data[2:4]))
	require.NoError(t, a.Close())
}

func TestWriteAt_RejectsOutOfBoundsSourceRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	a, err := NewLocal(path, 16, false)
	require.NoError(t, err)

	_, err = a.WriteAt([]byte("short"), 2, 10)
	require.Error(t, err)
	require.False(t, a.IsPending(), "a rejected WriteAt must not leave a dangling reservation")
	require.NoError(t, a.Close())
}

func TestWriteFunc_CommitsEvenOnCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	a, err := NewLocal(path, 16, false)
	require.NoError(t, err)

	boom := errors.New("boom")
	off, err := a.WriteFunc(4, func(region *Region, offset, length int) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, NullOffset, off)

	// the reservation was still committed, so a subsequent write lands past it
	off2, err := a.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, 4, off2)
	require.NoError(t, a.Close())
}
