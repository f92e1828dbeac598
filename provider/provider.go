// Package provider generates uniquely-named, freshly-mapped files on demand
// for a rolling Coordinator, retrying on name collision.
package provider

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/concurrentfile/ccfile/appender"
	"github.com/concurrentfile/ccfile/internal/mmio"
)

// Config controls the files a Provider creates.
type Config struct {
	Dir           string
	Prefix        string
	Suffix        string
	Capacity      int
	FillWithZeros bool
	Shared        bool // Shared-header variant vs Local
	PreFault      bool
}

// Provider creates fresh, uniquely-named mapped files.
type Provider struct {
	cfg     Config
	counter atomic.Uint64
}

// New validates cfg and returns a ready Provider.
func New(cfg Config) (*Provider, error) {
	if cfg.Dir == "" {
		return nil, errors.New("provider: Dir must not be empty")
	}
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("provider: Capacity must be positive, got %d", cfg.Capacity)
	}
	return &Provider{cfg: cfg}, nil
}

// NextAppender creates and maps a brand-new file, retrying with a new
// candidate name on every collision against an existing file.
func (p *Provider) NextAppender() (appender.Appender, error) {
	for {
		path := p.nextPath()
		a, err := p.create(path)
		if err == nil {
			if p.cfg.PreFault {
				if perr := a.PreFault(); perr != nil {
					_ = a.Close()
					return nil, perr
				}
			}
			return a, nil
		}
		if errors.Is(err, mmio.ErrFileExists) {
			continue
		}
		return nil, err
	}
}

func (p *Provider) create(path string) (appender.Appender, error) {
	if p.cfg.Shared {
		return appender.NewShared(path, p.cfg.Capacity, p.cfg.FillWithZeros)
	}
	return appender.NewLocal(path, p.cfg.Capacity, p.cfg.FillWithZeros)
}

// nextPath builds <prefix><timestamp><-N><suffix>. N is the Provider's call
// counter, which advances on every call: the first name a Provider builds has
// no -N part, every later one (collision or not) does. NextAppender's retry
// loop calls nextPath again on every collision.
func (p *Provider) nextPath() string {
	ts := time.Now().UTC().Format("20060102-150405.000000000")
	name := p.cfg.Prefix + ts
	if n := p.counter.Load(); n > 0 {
		name += fmt.Sprintf("-%d", n)
	}
	name += p.cfg.Suffix
	p.counter.Add(1)
	return filepath.Join(p.cfg.Dir, name)
}
