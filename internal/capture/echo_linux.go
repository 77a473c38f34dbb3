//go:build linux

// internal/capture/echo_linux.go

package capture

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/tamzrod/rover-ranging/internal/ranging"
)

// Echo emulates a timer input-capture channel on a GPIO character device line.
// The kernel stamps each echo edge; the edge matching the selected polarity is
// latched as a counter value.
type Echo struct {
	*Counter

	line     *gpiocdev.Line
	polarity atomic.Uint32
	latched  atomic.Uint32
}

// EchoConfig selects the echo line and the counter tick.
type EchoConfig struct {
	Chip   string
	Offset int
	Tick   time.Duration
}

// OpenEcho requests the echo line with both-edge detection.
func OpenEcho(cfg EchoConfig) (*Echo, error) {
	if cfg.Chip == "" {
		return nil, errors.New("capture: chip required")
	}
	if cfg.Tick == 0 {
		cfg.Tick = DefaultTick
	}

	counter, err := NewCounter(MonotonicClock{}, cfg.Tick)
	if err != nil {
		return nil, err
	}

	e := &Echo{Counter: counter}

	line, err := gpiocdev.RequestLine(cfg.Chip, cfg.Offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(e.onEdge))
	if err != nil {
		return nil, fmt.Errorf("capture: request echo line %s:%d: %w", cfg.Chip, cfg.Offset, err)
	}
	e.line = line

	return e, nil
}

// ResetCounter zeroes the counter and clears the capture latch.
func (e *Echo) ResetCounter() {
	e.Counter.ResetCounter()
	e.latched.Store(0)
}

func (e *Echo) SetEdgePolarity(p ranging.Polarity) {
	e.polarity.Store(uint32(p))
}

func (e *Echo) ReadCapturedValue() uint16 {
	return uint16(e.latched.Load())
}

// Close releases the echo line.
func (e *Echo) Close() error {
	if e == nil || e.line == nil {
		return nil
	}
	return e.line.Close()
}

func (e *Echo) onEdge(evt gpiocdev.LineEvent) {
	if edgePolarity(evt.Type) != ranging.Polarity(e.polarity.Load()) {
		return
	}
	e.latched.Store(uint32(e.At(evt.Timestamp)))
}

func edgePolarity(t gpiocdev.LineEventType) ranging.Polarity {
	if t == gpiocdev.LineEventFallingEdge {
		return ranging.Falling
	}
	return ranging.Rising
}
