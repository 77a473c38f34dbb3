//go:build !linux

// internal/capture/echo_other.go

package capture

import (
	"errors"
	"time"

	"github.com/tamzrod/rover-ranging/internal/ranging"
)

// Echo is only available on Linux.
type Echo struct {
	*Counter
}

type EchoConfig struct {
	Chip   string
	Offset int
	Tick   time.Duration
}

func OpenEcho(cfg EchoConfig) (*Echo, error) {
	return nil, errors.New("capture: GPIO character devices require linux")
}

func (e *Echo) SetEdgePolarity(p ranging.Polarity) {}

func (e *Echo) ReadCapturedValue() uint16 { return 0 }

func (e *Echo) Close() error { return nil }
