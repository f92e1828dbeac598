package appender

import "sync/atomic"

// counters is the storage abstraction spec'd out in the design notes: the
// reservation/completion algorithm is identical whether N, W, and F live in
// process memory (localCounters) or inside the mapped region's header
// (headerCounters); only the address each atomic operates on differs.
type counters interface {
	loadNext() uint64
	casNext(old, new uint64) bool
	addComplete(delta uint64) uint64
	loadComplete() uint64
	sealFirst(n int64) (won bool, winner int64)
	final() int64
}

// localCounters stores N, W, F as plain struct fields, visible only to
// goroutines of this process.
type localCounters struct {
	next     atomic.Uint64
	complete atomic.Uint64
	final_   atomic.Int64
}

func newLocalCounters(h int64) *localCounters {
	c := &localCounters{}
	c.next.Store(uint64(h))
	c.complete.Store(uint64(h))
	c.final_.Store(-1)
	return c
}

func (c *localCounters) loadNext() uint64               { return c.next.Load() }
func (c *localCounters) casNext(old, new uint64) bool    { return c.next.CompareAndSwap(old, new) }
func (c *localCounters) addComplete(delta uint64) uint64 { return c.complete.Add(delta) }
func (c *localCounters) loadComplete() uint64            { return c.complete.Load() }
func (c *localCounters) final() int64                    { return c.final_.Load() }

// sealFirst is the CAS-from-sentinel that lets only the first sealer commit
// F, per spec's corrected Open Question. winner is the value now stored in
// F, regardless of which goroutine set it.
func (c *localCounters) sealFirst(n int64) (bool, int64) {
	if c.final_.CompareAndSwap(-1, n) {
		return true, n
	}
	return false, c.final_.Load()
}
