// internal/writer/writer.go
package writer

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/tamzrod/rover-ranging/internal/poller"
	"github.com/tamzrod/rover-ranging/internal/status"
)

type dataWriter struct {
	plan    Plan
	clients map[string]EndpointClient
}

func New(plan Plan, clients map[string]EndpointClient) Writer {
	return &dataWriter{
		plan:    plan,
		clients: clients,
	}
}

// Write publishes the data block to every target.
// Failed polls are published too, with the distance sentinel.
func (w *dataWriter) Write(res poller.Result) error {
	regs := DataBlock(res)

	var err error
	for _, tgt := range w.plan.Targets {
		cli := w.clients[tgt.Endpoint]
		if cli == nil {
			err = multierr.Append(err, fmt.Errorf(
				"writer: missing client for endpoint %s",
				tgt.Endpoint,
			))
			continue
		}

		if werr := cli.WriteRegisters(tgt.UnitID, tgt.Address, regs); werr != nil {
			err = multierr.Append(err, fmt.Errorf(
				"writer: ep=%s unit=%d addr=%d: %w",
				tgt.Endpoint, tgt.UnitID, tgt.Address, werr,
			))
		}
	}

	return err
}

// DataBlock encodes one poll result into the data block layout.
func DataBlock(res poller.Result) []uint16 {
	regs := make([]uint16, status.DataRegisters)

	if res.Err != nil {
		regs[status.RegDistance] = status.DistanceSentinel
		regs[status.RegErrorCode] = status.ErrorCode(res.Err)
	} else {
		regs[status.RegDistance] = clamp16(res.Reading.Centimeters)
		regs[status.RegPulse] = res.Reading.Pulse
	}

	if res.Attempts > 0 {
		regs[status.RegAttempts] = clamp16(uint32(res.Attempts))
	}

	return regs
}

func clamp16(v uint32) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
