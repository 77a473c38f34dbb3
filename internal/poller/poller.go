// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/tamzrod/rover-ranging/internal/ranging"
)

// Measurer runs one complete measurement cycle.
type Measurer interface {
	Measure() (ranging.Reading, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Name     string
	Interval time.Duration

	// Retries is the number of extra cycles run after a timeout.
	Retries int
}

// Poller is a dumb, clock-driven caller of a Measurer.
type Poller struct {
	cfg Config
	m   Measurer
	now func() time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, m Measurer) (*Poller, error) {
	if cfg.Name == "" {
		return nil, errors.New("poller: name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.Retries < 0 {
		return nil, errors.New("poller: retries must be >= 0")
	}
	if m == nil {
		return nil, errors.New("poller: measurer required")
	}
	return &Poller{cfg: cfg, m: m, now: time.Now}, nil
}

// PollOnce performs one poll cycle.
// Only timeouts are retried; any other error ends the cycle.
func (p *Poller) PollOnce() Result {
	res := Result{
		Name: p.cfg.Name,
		At:   p.now(),
	}

	for {
		res.Attempts++
		r, err := p.m.Measure()
		if err == nil {
			res.Reading = r
			res.Err = nil
			return res
		}
		res.Err = err

		if !errors.Is(err, ranging.ErrTimeout) || res.Attempts > p.cfg.Retries {
			return res
		}
	}
}
