// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/rover-ranging/internal/ranging"
)

// Result is a snapshot produced by one poll cycle.
type Result struct {
	Name string
	At   time.Time

	// Reading is valid only when Err is nil.
	Reading ranging.Reading

	// Attempts counts measurement cycles run, retries included.
	Attempts int

	Err error // non-nil means every attempt failed
}

// Register is the distance as published: centimeters, or the sentinel.
func (r Result) Register() uint32 {
	if r.Err != nil {
		return ranging.Sentinel
	}
	return r.Reading.Centimeters
}
