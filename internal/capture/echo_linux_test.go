//go:build linux

// internal/capture/echo_linux_test.go

package capture

import (
	"testing"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/tamzrod/rover-ranging/internal/ranging"
)

func newTestEcho(t *testing.T, clk *fakeClock) *Echo {
	t.Helper()
	c, err := NewCounter(clk, time.Microsecond)
	if err != nil {
		t.Fatalf("NewCounter err=%v", err)
	}
	return &Echo{Counter: c}
}

func edge(typ gpiocdev.LineEventType, ts time.Duration) gpiocdev.LineEvent {
	return gpiocdev.LineEvent{Type: typ, Timestamp: ts}
}

func TestEcho_LatchesOnlySelectedPolarity(t *testing.T) {
	base := 10 * time.Second
	clk := &fakeClock{now: base}
	e := newTestEcho(t, clk)

	e.ResetCounter()
	e.SetEdgePolarity(ranging.Rising)

	// wrong edge is dropped
	e.onEdge(edge(gpiocdev.LineEventFallingEdge, base+300*time.Microsecond))
	if got := e.ReadCapturedValue(); got != 0 {
		t.Fatalf("falling edge latched while rising selected: %d", got)
	}

	// kernel timestamp becomes a counter value
	e.onEdge(edge(gpiocdev.LineEventRisingEdge, base+500*time.Microsecond))
	if got := e.ReadCapturedValue(); got != 500 {
		t.Fatalf("rising capture: got=%d want=500", got)
	}

	e.SetEdgePolarity(ranging.Falling)

	e.onEdge(edge(gpiocdev.LineEventRisingEdge, base+900*time.Microsecond))
	if got := e.ReadCapturedValue(); got != 500 {
		t.Fatalf("rising edge overwrote latch while falling selected: %d", got)
	}

	e.onEdge(edge(gpiocdev.LineEventFallingEdge, base+6500*time.Microsecond))
	if got := e.ReadCapturedValue(); got != 6500 {
		t.Fatalf("falling capture: got=%d want=6500", got)
	}
}

func TestEcho_TimestampWrapsWithCounter(t *testing.T) {
	base := time.Second
	clk := &fakeClock{now: base}
	e := newTestEcho(t, clk)

	e.ResetCounter()
	e.onEdge(edge(gpiocdev.LineEventRisingEdge, base+70000*time.Microsecond))

	// 70000 mod 65536
	if got := e.ReadCapturedValue(); got != 4464 {
		t.Fatalf("wrapped capture: got=%d want=4464", got)
	}
}

func TestEcho_ResetClearsLatch(t *testing.T) {
	base := time.Second
	clk := &fakeClock{now: base}
	e := newTestEcho(t, clk)

	e.ResetCounter()
	e.onEdge(edge(gpiocdev.LineEventRisingEdge, base+1200*time.Microsecond))
	if e.ReadCapturedValue() != 1200 {
		t.Fatalf("edge not latched")
	}

	clk.now = base + 50*time.Millisecond
	e.ResetCounter()
	if got := e.ReadCapturedValue(); got != 0 {
		t.Fatalf("latch survived reset: %d", got)
	}
	if got := e.ReadCounter(); got != 0 {
		t.Fatalf("counter not reset: %d", got)
	}

	// an edge stamped before the reset reads as zero ticks
	e.onEdge(edge(gpiocdev.LineEventRisingEdge, base+10*time.Millisecond))
	if got := e.ReadCapturedValue(); got != 0 {
		t.Fatalf("pre-reset edge: got=%d want=0", got)
	}
}

func TestEdgePolarity(t *testing.T) {
	if edgePolarity(gpiocdev.LineEventRisingEdge) != ranging.Rising {
		t.Fatalf("rising edge misclassified")
	}
	if edgePolarity(gpiocdev.LineEventFallingEdge) != ranging.Falling {
		t.Fatalf("falling edge misclassified")
	}
}
