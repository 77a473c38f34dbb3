// internal/drive/drive.go
package drive

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Defaults for the PWM timer.
const (
	DefaultPeriod         uint32 = 999
	DefaultFrequency             = 1 * physic.KiloHertz
	DefaultInitialPercent uint8  = 30
)

// Motor is one H-bridge channel.
type Motor struct {
	PWM gpio.PinOut
	IN1 gpio.PinOut
	IN2 gpio.PinOut
}

// Config wires the four channels and the bridge standby pin.
type Config struct {
	Standby        gpio.PinOut
	Motors         [NumMotors]Motor
	Period         uint32 // auto-reload value; compare = (Period+1)*percent/100
	Frequency      physic.Frequency
	InitialPercent uint8
}

// State is what the driver last commanded.
type State struct {
	Motion  Motion
	Percent [NumMotors]uint8
}

// Driver is table-driven direction and speed control. Safe for concurrent use.
type Driver struct {
	mu    sync.Mutex
	cfg   Config
	state State
}

func New(cfg Config) (*Driver, error) {
	if cfg.Standby == nil {
		return nil, errors.New("drive: standby pin required")
	}
	for i, m := range cfg.Motors {
		if m.PWM == nil || m.IN1 == nil || m.IN2 == nil {
			return nil, fmt.Errorf("drive: motor %s: pwm, in1 and in2 pins required", Position(i))
		}
	}
	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = DefaultFrequency
	}
	if cfg.InitialPercent > MaxPercent {
		cfg.InitialPercent = MaxPercent
	}

	return &Driver{cfg: cfg}, nil
}

// Init enables the bridge, brakes every motor and starts PWM at the initial duty.
func (d *Driver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.cfg.Standby.Out(gpio.High)
	err = multierr.Append(err, d.applyLocked(Stop))
	err = multierr.Append(err, d.setLocked(uniform(d.cfg.InitialPercent)))
	return err
}

// SetAllPercent sets one duty cycle on every channel.
func (d *Driver) SetAllPercent(percent uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setLocked(uniform(percent))
}

// SetEachPercent sets per-channel duty cycles.
func (d *Driver) SetEachPercent(lf, lr, rf, rr uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setLocked([NumMotors]uint8{lf, lr, rf, rr})
}

// Apply drives every direction pin low, then raises the pattern for m.
func (d *Driver) Apply(m Motion) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applyLocked(m)
}

func (d *Driver) Forward() error   { return d.Apply(Forward) }
func (d *Driver) Backward() error  { return d.Apply(Backward) }
func (d *Driver) TurnLeft() error  { return d.Apply(TurnLeft) }
func (d *Driver) TurnRight() error { return d.Apply(TurnRight) }
func (d *Driver) Stop() error      { return d.Apply(Stop) }

// Halt brakes, zeroes every duty cycle and puts the bridge in standby.
func (d *Driver) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.applyLocked(Stop)
	err = multierr.Append(err, d.setLocked(uniform(0)))
	err = multierr.Append(err, d.cfg.Standby.Out(gpio.Low))
	return err
}

func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) setLocked(percent [NumMotors]uint8) error {
	var err error
	for i, m := range d.cfg.Motors {
		p := percent[i]
		if p > MaxPercent {
			p = MaxPercent
		}
		duty := DutyFor(d.cfg.Period, Compare(d.cfg.Period, p))
		if e := m.PWM.PWM(duty, d.cfg.Frequency); e != nil {
			err = multierr.Append(err, fmt.Errorf("drive: %s pwm: %w", Position(i), e))
			continue
		}
		d.state.Percent[i] = p
	}
	return err
}

func (d *Driver) applyLocked(m Motion) error {
	var err error

	// all eight direction pins low first
	for i, mot := range d.cfg.Motors {
		err = multierr.Append(err, out(mot.IN1, gpio.Low, Position(i), "in1"))
		err = multierr.Append(err, out(mot.IN2, gpio.Low, Position(i), "in2"))
	}

	for i, mot := range d.cfg.Motors {
		switch spinFor(m, Position(i)) {
		case Ahead:
			err = multierr.Append(err, out(mot.IN1, gpio.High, Position(i), "in1"))
		case Reverse:
			err = multierr.Append(err, out(mot.IN2, gpio.High, Position(i), "in2"))
		}
	}

	if err == nil {
		d.state.Motion = m
	}
	return err
}

func out(pin gpio.PinOut, l gpio.Level, p Position, name string) error {
	if err := pin.Out(l); err != nil {
		return fmt.Errorf("drive: %s %s: %w", p, name, err)
	}
	return nil
}

func uniform(percent uint8) [NumMotors]uint8 {
	return [NumMotors]uint8{percent, percent, percent, percent}
}
