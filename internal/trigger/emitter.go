// internal/trigger/emitter.go
package trigger

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/tamzrod/rover-ranging/internal/ranging"
)

// Emitter drives the sensor's trigger input.
type Emitter struct {
	pin   gpio.PinOut
	delay Delay
	width time.Duration
}

// Config is the emitter's pin and pulse shape. Zero values take defaults.
type Config struct {
	Pin   gpio.PinOut
	Delay Delay
	Width time.Duration
}

// New parks the trigger pin low and returns the emitter.
func New(cfg Config) (*Emitter, error) {
	if cfg.Pin == nil {
		return nil, errors.New("trigger: pin required")
	}
	if cfg.Delay == nil {
		cfg.Delay = BusyWait{}
	}
	if cfg.Width <= 0 {
		cfg.Width = ranging.TriggerPulseWidth
	}

	if err := cfg.Pin.Out(gpio.Low); err != nil {
		return nil, err
	}

	return &Emitter{
		pin:   cfg.Pin,
		delay: cfg.Delay,
		width: cfg.Width,
	}, nil
}

// FireTrigger raises the pin for the pulse width, then lowers it.
// Pin errors are not reported: a missed trigger surfaces as an echo timeout.
func (e *Emitter) FireTrigger() {
	e.pin.Out(gpio.High)
	e.delay.Wait(e.width)
	e.pin.Out(gpio.Low)
}
