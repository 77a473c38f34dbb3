// internal/rig/rig.go
package rig

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/tamzrod/rover-ranging/internal/capture"
	cfg "github.com/tamzrod/rover-ranging/internal/config"
	"github.com/tamzrod/rover-ranging/internal/drive"
	"github.com/tamzrod/rover-ranging/internal/ranging"
	"github.com/tamzrod/rover-ranging/internal/trigger"
)

// Rig is the rover hardware bound to one config.
// Driver is nil when the config has no drive section.
type Rig struct {
	Sequencer *ranging.Sequencer
	Driver    *drive.Driver

	pins    map[string]gpio.PinIO
	closers []func() error
	closed  bool
}

// Open binds config to hardware. Config must already be validated and normalized.
func Open(r cfg.RoverConfig) (*Rig, error) {
	rig := &Rig{pins: make(map[string]gpio.PinIO)}

	var (
		hw  ranging.Hardware
		err error
	)
	switch r.Sensor.Backend {
	case cfg.BackendSim:
		hw = openSim(r.Sensor)
	case cfg.BackendCdev:
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("rig: periph host init: %w", err)
		}
		hw, err = rig.openCdev(r.Sensor)
	default:
		err = fmt.Errorf("rig: unknown sensor backend %q", r.Sensor.Backend)
	}
	if err != nil {
		_ = rig.Close()
		return nil, err
	}

	rig.Sequencer, err = ranging.New(hw, budgets(r.Sensor)...)
	if err != nil {
		_ = rig.Close()
		return nil, err
	}

	if r.Drive != nil {
		pin := rig.lookup
		if r.Sensor.Backend == cfg.BackendSim {
			pin = rig.fake
		}
		if rig.Driver, err = buildDriver(*r.Drive, pin); err != nil {
			_ = rig.Close()
			return nil, err
		}
	}

	return rig, nil
}

// Close stops the motors and releases every claimed line.
// Safe to call more than once.
func (r *Rig) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.Driver != nil {
		err = multierr.Append(err, r.Driver.Halt())
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, r.closers[i]())
	}
	r.closers = nil
	return err
}

func (r *Rig) openCdev(s cfg.SensorConfig) (ranging.Hardware, error) {
	tick := time.Duration(s.TickUs) * time.Microsecond

	echo, err := capture.OpenEcho(capture.EchoConfig{
		Chip:   s.Chip,
		Offset: s.EchoLine,
		Tick:   tick,
	})
	if err != nil {
		return ranging.Hardware{}, err
	}
	r.closers = append(r.closers, echo.Close)

	pin, err := r.lookup(s.TriggerPin)
	if err != nil {
		return ranging.Hardware{}, err
	}

	var delay trigger.Delay = trigger.BusyWait{}
	if s.SpinPerUs > 0 {
		delay = trigger.SpinCount{LoopsPerMicrosecond: uint32(s.SpinPerUs)}
	}

	em, err := trigger.New(trigger.Config{
		Pin:   pin,
		Delay: delay,
		Width: time.Duration(s.TriggerUs) * time.Microsecond,
	})
	if err != nil {
		return ranging.Hardware{}, fmt.Errorf("rig: trigger %s: %w", s.TriggerPin, err)
	}

	return ranging.Hardware{Timer: echo, Trigger: em}, nil
}

func openSim(s cfg.SensorConfig) ranging.Hardware {
	sc := capture.DefaultSimConfig()
	if s.Sim != nil {
		sc = capture.SimConfig{
			Step:    s.Sim.Step,
			RiseAt:  s.Sim.RiseAt,
			Width:   s.Sim.Width,
			NoEcho:  s.Sim.NoEcho,
			StallAt: s.Sim.StallAt,
		}
	}
	sim := capture.NewSim(sc)
	return ranging.Hardware{Timer: sim, Trigger: sim}
}

func budgets(s cfg.SensorConfig) []ranging.Option {
	start, end := phaseBudgets(s)
	return []ranging.Option{
		ranging.WithEchoStartBudget(start),
		ranging.WithEchoEndBudget(end),
	}
}

// phaseBudgets picks a wall-clock budget for a phase with a timeout set,
// the iteration budget otherwise.
func phaseBudgets(s cfg.SensorConfig) (start, end ranging.Budget) {
	pick := func(timeoutUs int) ranging.Budget {
		if timeoutUs > 0 {
			return ranging.WallClock{Timeout: time.Duration(timeoutUs) * time.Microsecond}
		}
		return ranging.Iterations(s.PollBudget)
	}
	return pick(s.StartTimeoutUs), pick(s.EndTimeoutUs)
}

func buildDriver(d cfg.DriveConfig, pin func(string) (gpio.PinIO, error)) (*drive.Driver, error) {
	var dc drive.Config
	var err error

	if dc.Standby, err = pin(d.StandbyPin); err != nil {
		return nil, err
	}
	for _, m := range d.Motors {
		pos, err := drive.ParsePosition(m.Position)
		if err != nil {
			return nil, fmt.Errorf("rig: %w", err)
		}
		var mo drive.Motor
		if mo.PWM, err = pin(m.PWMPin); err != nil {
			return nil, err
		}
		if mo.IN1, err = pin(m.IN1Pin); err != nil {
			return nil, err
		}
		if mo.IN2, err = pin(m.IN2Pin); err != nil {
			return nil, err
		}
		dc.Motors[pos] = mo
	}

	dc.Period = d.Period
	dc.Frequency = physic.Frequency(d.FrequencyHz) * physic.Hertz
	if d.InitialPercent != nil {
		dc.InitialPercent = *d.InitialPercent
	}

	return drive.New(dc)
}

// lookup resolves a pin by name through the periph registry.
func (r *Rig) lookup(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("rig: unknown pin %q", name)
	}
	r.pins[name] = p
	r.closers = append(r.closers, p.Halt)
	return p, nil
}

// fake stands in a recording pin for the sim backend.
func (r *Rig) fake(name string) (gpio.PinIO, error) {
	p := &gpiotest.Pin{N: name}
	r.pins[name] = p
	return p, nil
}
