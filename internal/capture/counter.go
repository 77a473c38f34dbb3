// internal/capture/counter.go
package capture

import (
	"errors"
	"sync/atomic"
	"time"
)

// DefaultTick is one counter tick: the sensor's echo timebase is microseconds.
const DefaultTick = time.Microsecond

// Clock returns monotonic time since an arbitrary fixed origin.
type Clock interface {
	Now() time.Duration
}

// Counter is a free-running 16-bit counter derived from a monotonic clock.
// It wraps to zero after 0xFFFF ticks.
type Counter struct {
	clock Clock
	tick  time.Duration
	base  atomic.Int64 // clock reading at the last reset
}

// NewCounter creates a counter and resets it.
func NewCounter(clock Clock, tick time.Duration) (*Counter, error) {
	if clock == nil {
		return nil, errors.New("capture: clock required")
	}
	if tick <= 0 {
		return nil, errors.New("capture: tick must be > 0")
	}
	c := &Counter{clock: clock, tick: tick}
	c.ResetCounter()
	return c, nil
}

// ResetCounter sets the counter to zero.
func (c *Counter) ResetCounter() {
	c.base.Store(int64(c.clock.Now()))
}

// ReadCounter returns the current counter value.
func (c *Counter) ReadCounter() uint16 {
	return c.At(c.clock.Now())
}

// At converts a clock reading into the counter value at that instant.
// Instants before the last reset read as zero.
func (c *Counter) At(ts time.Duration) uint16 {
	elapsed := int64(ts) - c.base.Load()
	if elapsed < 0 {
		return 0
	}
	return uint16(elapsed / int64(c.tick))
}
