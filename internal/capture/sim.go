// internal/capture/sim.go
package capture

import "github.com/tamzrod/rover-ranging/internal/ranging"

// SimConfig describes a simulated sensor in counter ticks.
type SimConfig struct {
	Step    uint16 // ticks the counter advances per read
	RiseAt  uint32 // ticks from trigger to echo rising edge
	Width   uint32 // ticks the echo stays high
	NoEcho  bool   // sensor never answers
	StallAt uint32 // counter halts at this many ticks after reset; 0 = never
}

// DefaultSimConfig answers every trigger with a ~1 m echo.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Step:   4,
		RiseAt: 500,
		Width:  6000,
	}
}

// Sim is a deterministic sensor + capture timer pair. It implements both
// ranging.CaptureTimer and ranging.Trigger. Time only moves on counter reads.
type Sim struct {
	cfg SimConfig

	elapsed  uint32 // ticks since reset, not wrapped
	polarity ranging.Polarity
	armedAt  uint32 // elapsed when the current polarity was selected
	fired    bool
	firedAt  uint32
	latched  uint16
	triggers int
}

func NewSim(cfg SimConfig) *Sim {
	return &Sim{cfg: cfg}
}

func (s *Sim) ResetCounter() {
	s.elapsed = 0
	s.fired = false
	s.armedAt = 0
	s.latched = 0
}

func (s *Sim) ReadCounter() uint16 {
	s.elapsed += uint32(s.cfg.Step)
	if s.cfg.StallAt != 0 && s.elapsed > s.cfg.StallAt {
		s.elapsed = s.cfg.StallAt
	}
	s.latch()
	return uint16(s.elapsed)
}

func (s *Sim) SetEdgePolarity(p ranging.Polarity) {
	s.polarity = p
	s.armedAt = s.elapsed
}

func (s *Sim) ReadCapturedValue() uint16 {
	return s.latched
}

func (s *Sim) FireTrigger() {
	s.fired = true
	s.firedAt = s.elapsed
	s.triggers++
}

// Triggers returns how many trigger pulses were fired.
func (s *Sim) Triggers() int {
	return s.triggers
}

// latch captures an edge of the selected polarity that occurred after the
// polarity was armed and at or before the current instant.
func (s *Sim) latch() {
	if !s.fired || s.cfg.NoEcho {
		return
	}

	edge := s.firedAt + s.cfg.RiseAt
	if s.polarity == ranging.Falling {
		edge += s.cfg.Width
	}

	if edge >= s.armedAt && edge <= s.elapsed {
		s.latched = uint16(edge)
	}
}
