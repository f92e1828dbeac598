package appender

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShared_ReopenAndConcatenate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.bin")
	a, err := NewShared(path, 32, false)
	require.NoError(t, err)

	off, err := a.Write([]byte("Hello "))
	require.NoError(t, err)
	require.Equal(t, HeaderSize, off)
	require.NoError(t, a.Close())

	b, err := OpenShared(path)
	require.NoError(t, err)
	off, err = b.Write([]byte("World!"))
	require.NoError(t, err)
	require.Equal(t, HeaderSize+6, off)
	require.NoError(t, b.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Hello World!", string(raw[HeaderSize:HeaderSize+12]))
}

func TestShared_FinishAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.bin")
	a, err := NewShared(path, 64, false)
	require.NoError(t, err)

	off, err := a.Write([]byte("shared-writer-payload-goes-here"))
	require.NoError(t, err)
	require.Equal(t, HeaderSize, off)

	a.Finish()
	require.NoError(t, a.Close())

	reopened, err := OpenShared(path)
	require.NoError(t, err)
	require.True(t, reopened.IsFinished())
	require.NoError(t, reopened.Close())
}

func TestShared_HeaderIsolatesFromPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.bin")
	a, err := NewShared(path, 16, false)
	require.NoError(t, err)

	off, err := a.Write([]byte("0123456789abcdef"))
	require.NoError(t, err)
	require.Equal(t, HeaderSize, off, "payload offsets are file offsets and start at H, past the header")

	sf := a.(*sharedFile)
	require.Equal(t, []byte("0123456789abcdef"), sf.region.data[HeaderSize:HeaderSize+16])

	require.NoError(t, a.Close())
}

func TestShared_RefusesUndersizedExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.bin")
	a, err := NewLocal(path, 8, false)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = OpenShared(path)
	require.Error(t, err)
}

func TestShared_ManyConcurrentWriters(t *testing.T) {
	const goroutines = 16
	const writesPer = 100
	const recordLen = 16
	capacity := goroutines * writesPer * recordLen

	path := filepath.Join(t.TempDir(), "s.bin")
	a, err := NewShared(path, capacity, false)
	require.NoError(t, err)

	offsets := make(chan int, goroutines*writesPer)
	done := make(chan struct{})
	for g := 0; g < goroutines; g++ {
		go func() {
			rec := make([]byte, recordLen)
			for i := 0; i < writesPer; i++ {
				off, werr := a.Write(rec)
				require.NoError(t, werr)
				require.NotEqual(t, NullOffset, off)
				offsets <- off
			}
			done <- struct{}{}
		}()
	}
	for g := 0; g < goroutines; g++ {
		<-done
	}
	close(offsets)

	seen := make(map[int]bool)
	for off := range offsets {
		require.False(t, seen[off])
		seen[off] = true
	}
	require.Len(t, seen, goroutines*writesPer)
	require.NoError(t, a.Close())
}
