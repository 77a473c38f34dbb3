//go:build !linux

// internal/capture/clock_other.go

package capture

import "time"

var processStart = time.Now()

// MonotonicClock reads Go's monotonic clock relative to process start.
type MonotonicClock struct{}

func (MonotonicClock) Now() time.Duration {
	return time.Since(processStart)
}
