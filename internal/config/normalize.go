// internal/config/normalize.go
package config

import (
	"periph.io/x/conn/v3/physic"

	"github.com/tamzrod/rover-ranging/internal/capture"
	"github.com/tamzrod/rover-ranging/internal/drive"
	"github.com/tamzrod/rover-ranging/internal/ranging"
	"github.com/tamzrod/rover-ranging/internal/status"
)

// Defaults applied by Normalize.
const (
	DefaultName       = "rover"
	DefaultTickUs     = 1
	DefaultIntervalMs = 100
	DefaultTimeoutMs  = 1000

	// DeadlineMargin scales the cdev wall-clock budgets past the tick thresholds.
	DeadlineMargin = 2
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	r := &cfg.Rover

	if r.Name == "" {
		r.Name = DefaultName
	}

	// ---- sensor ----
	s := &r.Sensor
	if s.Backend == "" {
		s.Backend = BackendCdev
	}
	if s.TickUs == 0 {
		s.TickUs = DefaultTickUs
	}
	if s.TriggerUs == 0 {
		s.TriggerUs = int(ranging.TriggerPulseWidth.Microseconds())
	}
	if s.PollBudget == 0 {
		s.PollBudget = ranging.DefaultPollBudget
	}
	// A real clock outruns any fixed poll count; bound the waits in time instead.
	if s.Backend == BackendCdev {
		if s.StartTimeoutUs == 0 {
			s.StartTimeoutUs = DeadlineMargin * int(ranging.EchoStartThreshold) * s.TickUs
		}
		if s.EndTimeoutUs == 0 {
			s.EndTimeoutUs = DeadlineMargin * int(ranging.EchoEndDelta) * s.TickUs
		}
	}
	if s.Backend == BackendSim && s.Sim == nil {
		s.Sim = &SimConfig{}
	}
	if s.Sim != nil {
		def := capture.DefaultSimConfig()
		if s.Sim.Step == 0 {
			s.Sim.Step = def.Step
		}
		if s.Sim.RiseAt == 0 {
			s.Sim.RiseAt = def.RiseAt
		}
		if s.Sim.Width == 0 {
			s.Sim.Width = def.Width
		}
	}

	// ---- drive ----
	if d := r.Drive; d != nil {
		if d.Period == 0 {
			d.Period = drive.DefaultPeriod
		}
		if d.FrequencyHz == 0 {
			d.FrequencyHz = int(drive.DefaultFrequency / physic.Hertz)
		}
		if d.InitialPercent == nil {
			p := drive.DefaultInitialPercent
			d.InitialPercent = &p
		}
	}

	// ---- poll ----
	if r.Poll.IntervalMs == 0 {
		r.Poll.IntervalMs = DefaultIntervalMs
	}

	// ---- publish ----
	for i := range r.Publish.Targets {
		if r.Publish.Targets[i].TimeoutMs == 0 {
			r.Publish.Targets[i].TimeoutMs = DefaultTimeoutMs
		}
	}
	if st := r.Publish.Status; st != nil {
		if st.TimeoutMs == 0 {
			st.TimeoutMs = DefaultTimeoutMs
		}
		if st.DeviceName == "" {
			st.DeviceName = r.Name
		}
		// ASCII already validated
		if len(st.DeviceName) > status.DeviceNameMaxChars {
			st.DeviceName = st.DeviceName[:status.DeviceNameMaxChars]
		}
	}
}
