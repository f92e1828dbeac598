package appender

import "math"

// core implements spec §4.1's reserve/commit algorithm against any counters
// implementation. Both localFile and sharedFile embed it.
type core struct {
	h int64 // header offset H: 0 local, HeaderSize shared
	c int64 // capacity C
	cn counters
}

// reserve hands out a disjoint [offset, offset+length) range, or NullOffset
// if the file has no room left.
func (a *core) reserve(length int) int {
	for {
		n := int64(a.cn.loadNext())
		if n >= a.c {
			return NullOffset
		}
		if !a.cn.casNext(uint64(n), uint64(n+int64(length))) {
			continue
		}

		if n+int64(length) <= a.c {
			return int(n)
		}

		// This CAS sealed the file: n+length overflowed capacity. Only the
		// first sealer's n is the true final size; later concurrent sealers
		// lose the CAS-from-sentinel and just credit their own length.
		a.cn.sealFirst(n)
		a.commit(length)
		return NullOffset
	}
}

// commit credits length completed bytes to W. Must be called exactly once
// per reserve call (successful or sealing) with that call's length.
func (a *core) commit(length int) {
	a.cn.addComplete(uint64(length))
}

func (a *core) isPending() bool {
	return a.cn.loadNext() != a.cn.loadComplete()
}

func (a *core) isFinished() bool {
	n := a.cn.loadNext()
	w := a.cn.loadComplete()
	return w == n && int64(n) >= a.c && a.cn.final() >= 0
}

func (a *core) hasAvailableCapacity() bool {
	return int64(a.cn.loadNext()) < a.c
}

func (a *core) finish() int {
	a.reserve(math.MaxInt32)
	return NullOffset
}

func (a *core) capacity() int {
	return int(a.c)
}

func (a *core) headerOffset() int64 {
	return a.h
}

func (a *core) finalSize() int64 {
	return a.cn.final()
}
