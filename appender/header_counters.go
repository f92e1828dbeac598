package appender

import (
	"sync/atomic"
	"unsafe"
)

// Header byte layout for the Shared variant (spec §4.2): a fixed 64-byte
// region at the start of the mapped file.
//
//	bytes  0- 7: N (next-write-offset), 64-bit native byte order
//	bytes  8-15: W (write-complete)
//	bytes 16-23: F (final-size, sentinel -1)
//	bytes 24-63: reserved, zero
const (
	headerOffsetNext     = 0
	headerOffsetComplete = 8
	headerOffsetFinal    = 16
)

// headerCounters stores N, W, F inside the mapped region itself, so the
// atomics operate on memory every process mapping the file can see.
type headerCounters struct {
	next     *uint64
	complete *uint64
	final_   *int64
}

// newHeaderCounters builds the counters view over data's header. fresh
// indicates this process created the file and must initialize N = W = h,
// F = -1 before any reservation is attempted.
func newHeaderCounters(data []byte, h int64, fresh bool) *headerCounters {
	c := &headerCounters{
		next:     (*uint64)(unsafe.Pointer(&data[headerOffsetNext])),
		complete: (*uint64)(unsafe.Pointer(&data[headerOffsetComplete])),
		final_:   (*int64)(unsafe.Pointer(&data[headerOffsetFinal])),
	}
	if fresh {
		atomic.StoreUint64(c.next, uint64(h))
		atomic.StoreUint64(c.complete, uint64(h))
		atomic.StoreInt64(c.final_, -1)
	}
	return c
}

func (c *headerCounters) loadNext() uint64            { return atomic.LoadUint64(c.next) }
func (c *headerCounters) casNext(old, new uint64) bool { return atomic.CompareAndSwapUint64(c.next, old, new) }
func (c *headerCounters) addComplete(delta uint64) uint64 {
	return atomic.AddUint64(c.complete, delta)
}
func (c *headerCounters) loadComplete() uint64 { return atomic.LoadUint64(c.complete) }
func (c *headerCounters) final() int64         { return atomic.LoadInt64(c.final_) }

func (c *headerCounters) sealFirst(n int64) (bool, int64) {
	if atomic.CompareAndSwapInt64(c.final_, -1, n) {
		return true, n
	}
	return false, atomic.LoadInt64(c.final_)
}
