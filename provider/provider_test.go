package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_RejectsEmptyDir(t *testing.T) {
	_, err := New(Config{Capacity: 64})
	require.Error(t, err)
}

func TestNew_RejectsNonPositiveCapacity(t *testing.T) {
	_, err := New(Config{Dir: t.TempDir()})
	require.Error(t, err)
}

func TestNextAppender_ProducesUniqueFiles(t *testing.T) {
	dir := t.TempDir()
	p, err := New(Config{Dir: dir, Prefix: "seg-", Suffix: ".log", Capacity: 32})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		a, err := p.NextAppender()
		require.NoError(t, err)
		require.False(t, seen[a.File()], "duplicate path %s", a.File())
		seen[a.File()] = true
		require.NoError(t, a.Close())
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 5)
}

func TestNextAppender_RetriesOnCollision(t *testing.T) {
	dir := t.TempDir()
	p, err := New(Config{Dir: dir, Capacity: 32})
	require.NoError(t, err)

	// Force the first candidate name to already exist so NextAppender must
	// retry with a counter suffix.
	first := p.nextPath()
	require.NoError(t, os.WriteFile(first, []byte("occupied"), 0o644))
	p.counter.Store(0)

	a, err := p.NextAppender()
	require.NoError(t, err)
	require.NotEqual(t, first, a.File())
	require.NoError(t, a.Close())
}

func TestNextAppender_PreFaultsFreshFile(t *testing.T) {
	dir := t.TempDir()
	p, err := New(Config{Dir: dir, Capacity: 4096, PreFault: true})
	require.NoError(t, err)

	a, err := p.NextAppender()
	require.NoError(t, err)
	require.NoError(t, a.Close())
}

func TestNextAppender_SharedVariant(t *testing.T) {
	dir := t.TempDir()
	p, err := New(Config{Dir: dir, Capacity: 32, Shared: true})
	require.NoError(t, err)

	a, err := p.NextAppender()
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(a.File()))
	require.NoError(t, a.Close())
}
