// internal/trigger/delay.go
package trigger

import "time"

// Delay blocks the calling goroutine for d without yielding to the scheduler.
type Delay interface {
	Wait(d time.Duration)
}

// BusyWait spins on the monotonic clock.
type BusyWait struct{}

func (BusyWait) Wait(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}

// DefaultLoopsPerMicrosecond matches a 168 MHz core running the spin loop.
const DefaultLoopsPerMicrosecond = 42

// SpinCount is a calibrated spin loop. The calibration must match the
// target's clock.
type SpinCount struct {
	LoopsPerMicrosecond uint32
}

// spinSink keeps the loop body observable.
var spinSink uint32

func (s SpinCount) Wait(d time.Duration) {
	loops := s.LoopsPerMicrosecond
	if loops == 0 {
		loops = DefaultLoopsPerMicrosecond
	}
	for n := uint64(d/time.Microsecond) * uint64(loops); n > 0; n-- {
		spinSink++
	}
}
