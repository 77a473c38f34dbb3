// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/tamzrod/rover-ranging/internal/drive"
	"github.com/tamzrod/rover-ranging/internal/status"
)

// SupportedVersions is the config schema range this build understands.
const SupportedVersions = "~1"

// Upper bounds for sensor timing knobs.
const (
	MaxSpinPerUs = 1_000_000
	MaxTickUs    = 1000
)

// Backends accepted by sensor.backend. Empty means BackendCdev.
const (
	BackendCdev = "cdev"
	BackendSim  = "sim"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	if err := validateVersion(cfg.Version); err != nil {
		return err
	}

	r := cfg.Rover

	if err := asciiOnly("rover.name", r.Name); err != nil {
		return err
	}

	if err := validateSensor(r.Sensor); err != nil {
		return err
	}

	if r.Drive != nil {
		if err := validateDrive(*r.Drive, r.Sensor.TriggerPin); err != nil {
			return err
		}
	}

	if r.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll.interval_ms must be >= 0")
	}
	if r.Poll.Retries < 0 || r.Poll.Retries > 10 {
		return fmt.Errorf("poll.retries must be within 0..10")
	}

	return validatePublish(r.Publish)
}

func validateVersion(v string) error {
	if v == "" {
		return fmt.Errorf("version is required")
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("version %q: %w", v, err)
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(ver) {
		return fmt.Errorf("version %s not supported (require %s)", v, SupportedVersions)
	}
	return nil
}

func validateSensor(s SensorConfig) error {
	switch s.Backend {
	case "", BackendCdev:
		if s.Chip == "" {
			return fmt.Errorf("sensor.chip is required for the cdev backend")
		}
		if s.EchoLine < 0 {
			return fmt.Errorf("sensor.echo_line must be >= 0")
		}
		if s.TriggerPin == "" {
			return fmt.Errorf("sensor.trigger_pin is required for the cdev backend")
		}
	case BackendSim:
	default:
		return fmt.Errorf("sensor.backend %q: want %q or %q", s.Backend, BackendCdev, BackendSim)
	}

	nonNegative := []struct {
		name string
		v    int
	}{
		{"sensor.tick_us", s.TickUs},
		{"sensor.trigger_us", s.TriggerUs},
		{"sensor.spin_per_us", s.SpinPerUs},
		{"sensor.poll_budget", s.PollBudget},
		{"sensor.echo_start_timeout_us", s.StartTimeoutUs},
		{"sensor.echo_end_timeout_us", s.EndTimeoutUs},
	}
	for _, f := range nonNegative {
		if f.v < 0 {
			return fmt.Errorf("%s must be >= 0", f.name)
		}
	}

	if s.SpinPerUs > MaxSpinPerUs {
		return fmt.Errorf("sensor.spin_per_us must be <= %d", MaxSpinPerUs)
	}
	if s.TickUs > MaxTickUs {
		return fmt.Errorf("sensor.tick_us must be <= %d", MaxTickUs)
	}

	return nil
}

func validateDrive(d DriveConfig, triggerPin string) error {
	if d.StandbyPin == "" {
		return fmt.Errorf("drive.standby_pin is required")
	}
	if d.FrequencyHz < 0 {
		return fmt.Errorf("drive.frequency_hz must be >= 0")
	}
	if d.InitialPercent != nil && *d.InitialPercent > drive.MaxPercent {
		return fmt.Errorf("drive.initial_percent must be <= %d", drive.MaxPercent)
	}
	if len(d.Motors) != drive.NumMotors {
		return fmt.Errorf("drive.motors: want %d motors, got %d", drive.NumMotors, len(d.Motors))
	}

	// every pin may be claimed once
	owner := make(map[string]string)
	claim := func(pin, who string) error {
		if pin == "" {
			return fmt.Errorf("%s: pin is required", who)
		}
		if prev, taken := owner[pin]; taken {
			return fmt.Errorf("pin %s used by both %s and %s", pin, prev, who)
		}
		owner[pin] = who
		return nil
	}
	if triggerPin != "" {
		owner[triggerPin] = "sensor.trigger_pin"
	}
	if err := claim(d.StandbyPin, "drive.standby_pin"); err != nil {
		return err
	}

	seen := make(map[drive.Position]bool)
	for i, m := range d.Motors {
		p, err := drive.ParsePosition(m.Position)
		if err != nil {
			return fmt.Errorf("drive.motors[%d]: %w", i, err)
		}
		if seen[p] {
			return fmt.Errorf("drive.motors[%d]: position %s defined twice", i, p)
		}
		seen[p] = true

		for _, pin := range []struct{ name, v string }{
			{"pwm_pin", m.PWMPin},
			{"in1_pin", m.IN1Pin},
			{"in2_pin", m.IN2Pin},
		} {
			if err := claim(pin.v, fmt.Sprintf("drive.motors[%s].%s", p, pin.name)); err != nil {
				return err
			}
		}
	}

	return nil
}

func validatePublish(p PublishConfig) error {
	type span struct {
		start uint32
		end   uint32
		owner string
	}

	// key = endpoint | unit_id
	spans := make(map[string][]span)

	add := func(endpoint string, unitID uint8, start uint32, size uint32, owner string) error {
		s := span{start: start, end: start + size - 1, owner: owner}
		if s.end > 0xFFFF {
			return fmt.Errorf("%s: register range %d-%d exceeds the address space", owner, s.start, s.end)
		}

		key := fmt.Sprintf("%s|%d", endpoint, unitID)
		for _, prev := range spans[key] {
			// overlap check (inclusive)
			if !(s.end < prev.start || s.start > prev.end) {
				return fmt.Errorf(
					"register overlap: endpoint=%s unit_id=%d %s range=%d-%d overlaps with %s range=%d-%d",
					endpoint, unitID, owner, s.start, s.end, prev.owner, prev.start, prev.end,
				)
			}
		}
		spans[key] = append(spans[key], s)
		return nil
	}

	for i, t := range p.Targets {
		owner := fmt.Sprintf("publish.targets[%d]", i)
		if t.Endpoint == "" {
			return fmt.Errorf("%s: endpoint is required", owner)
		}
		if t.TimeoutMs < 0 {
			return fmt.Errorf("%s: timeout_ms must be >= 0", owner)
		}
		if err := add(t.Endpoint, t.UnitID, uint32(t.Address), status.DataRegisters, owner); err != nil {
			return err
		}
	}

	if s := p.Status; s != nil {
		if s.Endpoint == "" {
			return fmt.Errorf("publish.status: endpoint is required")
		}
		if s.TimeoutMs < 0 {
			return fmt.Errorf("publish.status: timeout_ms must be >= 0")
		}
		if err := asciiOnly("publish.status.device_name", s.DeviceName); err != nil {
			return err
		}
		base := uint32(s.Slot) * status.SlotsPerDevice
		if err := add(s.Endpoint, s.UnitID, base, status.SlotsPerDevice, "publish.status"); err != nil {
			return err
		}
	}

	return nil
}

func asciiOnly(field, v string) error {
	for i := 0; i < len(v); i++ {
		if v[i] > 0x7F {
			return fmt.Errorf("%s must contain ASCII characters only", field)
		}
	}
	return nil
}
