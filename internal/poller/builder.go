// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/rover-ranging/internal/config"
)

// Build constructs a Poller for the configured rover.
// Config must already be validated and normalized.
func Build(r cfg.RoverConfig, m Measurer) (*Poller, error) {
	return New(
		Config{
			Name:     r.Name,
			Interval: time.Duration(r.Poll.IntervalMs) * time.Millisecond,
			Retries:  r.Poll.Retries,
		},
		m,
	)
}
