package roll

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/concurrentfile/ccfile/appender"
	"github.com/concurrentfile/ccfile/provider"
)

func newTestCoordinator(t *testing.T, capacity int, opts Options) *Coordinator {
	t.Helper()
	p, err := provider.New(provider.Config{Dir: t.TempDir(), Prefix: "seg-", Suffix: ".log", Capacity: capacity})
	require.NoError(t, err)
	c, err := New(p, opts)
	require.NoError(t, err)
	return c
}

func TestFileForWrite_ReturnsCurrentWhileRoom(t *testing.T) {
	c := newTestCoordinator(t, 64, Options{})
	first := c.Current()

	a, err := c.FileForWrite()
	require.NoError(t, err)
	require.Same(t, first, a)
}

func TestFileForWrite_RollsWhenFull(t *testing.T) {
	var created, mapped, complete, closed []string
	var mu sync.Mutex
	c := newTestCoordinator(t, 8, Options{
		Listeners: Listeners{
			FileCreated:  func(path string) { mu.Lock(); created = append(created, path); mu.Unlock() },
			FileMapped:   func(a appender.Appender) { mu.Lock(); mapped = append(mapped, a.File()); mu.Unlock() },
			FileComplete: func(a appender.Appender) { mu.Lock(); complete = append(complete, a.File()); mu.Unlock() },
			FileClosed:   func(path string) { mu.Lock(); closed = append(closed, path); mu.Unlock() },
		},
	})

	first := c.Current()
	off, err := first.Write(make([]byte, 8))
	require.NoError(t, err)
	require.Equal(t, 0, off)
	require.False(t, first.HasAvailableCapacity())

	next, err := c.FileForWrite()
	require.NoError(t, err)
	require.NotSame(t, first, next)
	require.True(t, next.HasAvailableCapacity())

	mu.Lock()
	require.Len(t, mapped, 2, "one FileMapped per file including the initial one")
	require.Contains(t, complete, first.File())
	require.Contains(t, closed, first.File())
	mu.Unlock()
	require.NoError(t, c.Close())
}

func TestFileForWrite_ManyConcurrentWritersRollCleanly(t *testing.T) {
	const recordLen = 16
	const goroutines = 8
	const writesPer = 50
	c := newTestCoordinator(t, recordLen*10, Options{YieldOnAllocateContention: true})

	seen := make(map[string]map[int]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := make([]byte, recordLen)
			for i := 0; i < writesPer; i++ {
				for {
					a, err := c.FileForWrite()
					require.NoError(t, err)
					off, werr := a.Write(rec)
					require.NoError(t, werr)
					if off == -1 {
						continue
					}
					mu.Lock()
					if seen[a.File()] == nil {
						seen[a.File()] = make(map[int]bool)
					}
					require.False(t, seen[a.File()][off], "duplicate offset in same file")
					seen[a.File()][off] = true
					mu.Unlock()
					break
				}
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, offs := range seen {
		total += len(offs)
	}
	require.Equal(t, goroutines*writesPer, total)
	require.NoError(t, c.Close())
}
