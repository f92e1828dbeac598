package ccfile

import "github.com/concurrentfile/ccfile/roll"

// Listeners observes roll lifecycle events; an alias of roll.Listeners so
// callers configuring a rolling ccfile.File never need to import roll
// directly.
type Listeners = roll.Listeners

// RollOptions configures the rolling facade: a sequence of appender files
// generated on demand as each one fills.
type RollOptions struct {
	// Dir is the directory fresh segment files are created in.
	Dir string
	// Prefix and Suffix bracket each generated segment file's timestamp.
	Prefix, Suffix string
	// Shared selects the multi-process shared-header appender variant for
	// every segment instead of the single-process local variant.
	Shared bool
	// AsyncClose retires a filled segment on its own goroutine instead of
	// inline with the roll that replaced it.
	AsyncClose bool
	// YieldOnAllocateContention calls runtime.Gosched() while spinning for a
	// competing roll or a pending close, instead of busy-spinning.
	YieldOnAllocateContention bool
	// Listeners observes roll lifecycle events.
	Listeners Listeners
}

// Options configures New. Roll being nil selects the bounded (non-rolling)
// facade over a single pre-sized file; non-nil selects the rolling facade.
type Options struct {
	// Path is the file to map. For the bounded facade this is the file
	// itself; for the rolling facade it is unused (Roll.Dir governs segment
	// placement instead).
	Path string
	// Capacity is the usable payload byte capacity of each mapped file.
	Capacity int
	// FillWithZeros writes zeros across the whole file up front instead of
	// relying on truncate-induced sparse zero-fill.
	FillWithZeros bool
	// Shared selects the shared-header appender variant for the bounded
	// facade.
	Shared bool
	// PreFault touches every page of a freshly mapped file once, right
	// after creation, so an inaccessible mapping fails fast.
	PreFault bool
	// Roll, when non-nil, switches New to the rolling facade.
	Roll *RollOptions
}

// DefaultOptions returns an Options with the bounded, single-process,
// non-pre-faulting defaults. Capacity and Path are left for the caller to
// set.
func DefaultOptions() Options {
	return Options{
		FillWithZeros: false,
		Shared:        false,
		PreFault:      false,
		Roll:          nil,
	}
}
