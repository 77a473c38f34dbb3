// internal/ranging/sequencer.go
package ranging

import (
	"errors"
	"sync"
)

// Reading is the outcome of one successful measurement cycle.
type Reading struct {
	Start       uint16 // captured at the rising edge
	End         uint16 // captured at the falling edge
	Pulse       uint16 // End - Start over the 16-bit ring
	Centimeters uint32
}

// Sequencer runs the trigger/echo protocol on hardware it owns exclusively.
// Measure calls are serialized; a cycle always runs to completion.
type Sequencer struct {
	mu sync.Mutex
	hw Hardware

	echoStart Budget
	echoEnd   Budget
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithEchoStartBudget replaces the echo-start wait budget.
func WithEchoStartBudget(b Budget) Option {
	return func(s *Sequencer) { s.echoStart = b }
}

// WithEchoEndBudget replaces the echo-end wait budget.
func WithEchoEndBudget(b Budget) Option {
	return func(s *Sequencer) { s.echoEnd = b }
}

// New takes ownership of hw. Callers must not touch hw afterwards.
func New(hw Hardware, opts ...Option) (*Sequencer, error) {
	if hw.Timer == nil {
		return nil, errors.New("ranging: capture timer required")
	}
	if hw.Trigger == nil {
		return nil, errors.New("ranging: trigger required")
	}

	s := &Sequencer{
		hw:        hw,
		echoStart: Iterations(DefaultPollBudget),
		echoEnd:   Iterations(DefaultPollBudget),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.echoStart == nil || s.echoEnd == nil {
		return nil, errors.New("ranging: nil budget")
	}
	return s, nil
}

// Measure performs exactly one measurement cycle.
// Any exhausted wait aborts the cycle with a *TimeoutError. No retries.
func (s *Sequencer) Measure() (Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.hw.Timer

	t.ResetCounter()
	t.SetEdgePolarity(Rising)
	s.hw.Trigger.FireTrigger()

	// The threshold covers sensor settling plus echo assertion latency.
	if !wait(s.echoStart, func() bool {
		return t.ReadCounter() >= EchoStartThreshold
	}) {
		return Reading{}, &TimeoutError{Phase: EchoStart}
	}

	start := t.ReadCapturedValue()

	t.SetEdgePolarity(Falling)

	baseline := t.ReadCounter()
	if !wait(s.echoEnd, func() bool {
		return t.ReadCounter()-baseline >= EchoEndDelta
	}) {
		return Reading{}, &TimeoutError{Phase: EchoEnd}
	}

	end := t.ReadCapturedValue()

	pulse := PulseDuration(start, end)
	return Reading{
		Start:       start,
		End:         end,
		Pulse:       pulse,
		Centimeters: Centimeters(pulse),
	}, nil
}

// MeasureDistance returns centimeters, or Sentinel when the cycle timed out.
func (s *Sequencer) MeasureDistance() uint32 {
	r, err := s.Measure()
	if err != nil {
		return Sentinel
	}
	return r.Centimeters
}

func wait(b Budget, done func() bool) bool {
	d := b.Start()
	for !done() {
		if !d.Spend() {
			return false
		}
	}
	return true
}
