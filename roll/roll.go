// Package roll coordinates a single-writer-visible sequence of appender
// files, rolling to a fresh one exactly once when the current file runs out
// of capacity.
package roll

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/concurrentfile/ccfile/appender"
	"github.com/concurrentfile/ccfile/provider"
)

// Listeners are notified of roll lifecycle events. Any nil field is simply
// not invoked. A panic raised by a listener is recovered and logged, never
// propagated to the caller of FileForWrite.
type Listeners struct {
	FileCreated  func(path string)
	FileMapped   func(a appender.Appender)
	FileComplete func(a appender.Appender)
	FileClosed   func(path string)
}

// Options configures a Coordinator.
type Options struct {
	// AsyncClose dispatches the retired file's Close (and its FileComplete/
	// FileClosed listeners) on its own goroutine instead of inline with the
	// roll that retired it.
	AsyncClose bool

	// YieldOnAllocateContention calls runtime.Gosched() between spins while
	// waiting for a competing roll or a pending close, instead of busy-spinning.
	YieldOnAllocateContention bool

	Listeners Listeners

	// Logger receives recovered listener panics and failures to close a
	// retired file. Defaults to slog.Default().
	Logger *slog.Logger
}

// Coordinator hands out the single Appender goroutines should currently be
// writing to, rolling to a fresh one exactly once when capacity runs out.
type Coordinator struct {
	provider   *provider.Provider
	opts       Options
	logger     *slog.Logger
	current    atomic.Pointer[appender.Appender]
	allocating atomic.Bool
}

// New creates a Coordinator with its first file already mapped.
func New(p *provider.Provider, opts Options) (*Coordinator, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := &Coordinator{provider: p, opts: opts, logger: opts.Logger}
	first, err := p.NextAppender()
	if err != nil {
		return nil, fmt.Errorf("roll: create initial file: %w", err)
	}
	c.publish(first)
	c.notifyMapped(first)
	return c, nil
}

// Current returns the file currently published, without attempting a roll.
func (c *Coordinator) Current() appender.Appender {
	return *c.current.Load()
}

// FileForWrite returns an Appender with room for more writes, rolling to a
// fresh file if the current one is out of capacity. Exactly one caller wins
// the roll for a given retired file; the rest observe the new current once
// it is published.
func (c *Coordinator) FileForWrite() (appender.Appender, error) {
	for {
		cur := c.Current()
		if cur.HasAvailableCapacity() {
			return cur, nil
		}

		if !c.allocating.CompareAndSwap(false, true) {
			c.waitForRoll(cur)
			continue
		}

		// Re-check: another goroutine may have rolled between our capacity
		// check and winning the CAS.
		if c.Current() != cur {
			c.allocating.Store(false)
			continue
		}

		next, err := c.provider.NextAppender()
		if err != nil {
			c.allocating.Store(false)
			return nil, fmt.Errorf("roll: create next file: %w", err)
		}
		c.notifyCreated(next)
		c.publish(next)
		c.notifyMapped(next)
		c.allocating.Store(false)

		if c.opts.AsyncClose {
			go c.retire(cur)
		} else {
			c.retire(cur)
		}
		return next, nil
	}
}

// Close retires the current file, waiting for its pending writes to
// complete first.
func (c *Coordinator) Close() error {
	cur := c.Current()
	for cur.IsPending() {
		if c.opts.YieldOnAllocateContention {
			runtime.Gosched()
		}
	}
	return c.closeOne(cur)
}

func (c *Coordinator) publish(a appender.Appender) {
	c.current.Store(&a)
}

func (c *Coordinator) waitForRoll(observed appender.Appender) {
	for c.Current() == observed {
		if c.opts.YieldOnAllocateContention {
			runtime.Gosched()
		}
	}
}

func (c *Coordinator) retire(a appender.Appender) {
	for a.IsPending() {
		if c.opts.YieldOnAllocateContention {
			runtime.Gosched()
		}
	}
	c.notifyComplete(a)
	if err := c.closeOne(a); err != nil {
		c.logger.Error("roll: closing retired file failed", slog.String("file", a.File()), slog.Any("err", err))
	}
}

func (c *Coordinator) closeOne(a appender.Appender) error {
	path := a.File()
	if err := a.Close(); err != nil {
		return err
	}
	c.notifyClosed(path)
	return nil
}

func (c *Coordinator) notifyCreated(a appender.Appender) {
	c.guard("FileCreated", a.File(), func() {
		if c.opts.Listeners.FileCreated != nil {
			c.opts.Listeners.FileCreated(a.File())
		}
	})
}

func (c *Coordinator) notifyMapped(a appender.Appender) {
	c.guard("FileMapped", a.File(), func() {
		if c.opts.Listeners.FileMapped != nil {
			c.opts.Listeners.FileMapped(a)
		}
	})
}

func (c *Coordinator) notifyComplete(a appender.Appender) {
	c.guard("FileComplete", a.File(), func() {
		if c.opts.Listeners.FileComplete != nil {
			c.opts.Listeners.FileComplete(a)
		}
	})
}

func (c *Coordinator) notifyClosed(path string) {
	c.guard("FileClosed", path, func() {
		if c.opts.Listeners.FileClosed != nil {
			c.opts.Listeners.FileClosed(path)
		}
	})
}

func (c *Coordinator) guard(event, path string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("roll: listener panicked", slog.String("event", event), slog.String("file", path), slog.Any("panic", r))
		}
	}()
	fn()
}
