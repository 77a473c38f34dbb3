// internal/writer/status_writer.go
package writer

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/tamzrod/rover-ranging/internal/status"
)

// StatusWriter is the delivery-only contract for device status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

type deviceStatusWriter struct {
	plan *StatusPlan
	cli  EndpointClient

	needFull bool
	last     status.Snapshot
}

// NewDeviceStatusWriter builds a status writer if status is enabled.
// If plan.Status is nil, status is disabled.
func NewDeviceStatusWriter(plan Plan, clients map[string]EndpointClient) (StatusWriter, bool) {
	if plan.Status == nil {
		return nil, false
	}

	return &deviceStatusWriter{
		plan:     plan.Status,
		cli:      clients[plan.Status.Endpoint],
		needFull: true, // full re-assert on first write
	}, true
}

// WriteStatus delivers a device status snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	base := sw.baseAddr()
	unitID := sw.plan.UnitID

	// ---- full block write (identity re-assert) ----
	if sw.needFull {
		if err := sw.cli.WriteRegisters(unitID, base, status.Encode(s, sw.plan.DeviceName)); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	// ---- incremental: changed live slots only ----
	slots := []struct {
		slot uint16
		name string
		prev *uint16
		next uint16
	}{
		{status.SlotHealthCode, "health", &sw.last.Health, s.Health},
		{status.SlotLastErrorCode, "last_error", &sw.last.LastErrorCode, s.LastErrorCode},
		{status.SlotSecondsInError, "seconds_in_error", &sw.last.SecondsInError, s.SecondsInError},
		{status.SlotLastDistance, "last_distance", &sw.last.LastDistance, s.LastDistance},
		{status.SlotConsecutiveFailures, "consecutive_failures", &sw.last.ConsecutiveFailures, s.ConsecutiveFailures},
	}

	var err error
	for _, sl := range slots {
		if *sl.prev == sl.next {
			continue
		}
		if werr := sw.cli.WriteRegisters(unitID, base+sl.slot, []uint16{sl.next}); werr != nil {
			err = multierr.Append(err, fmt.Errorf("slot%d %s write failed: %w", sl.slot, sl.name, werr))
			continue
		}
		*sl.prev = sl.next
	}

	if err != nil {
		// Any partial failure introduces doubt: re-assert on next write.
		sw.needFull = true
		return fmt.Errorf("status writer: %w", err)
	}

	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each device owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}
