// internal/writer/types.go
package writer

import "github.com/tamzrod/rover-ranging/internal/poller"

// Target is one data block destination.
type Target struct {
	Endpoint string
	UnitID   uint8
	Address  uint16
}

// StatusPlan is the status block destination.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one rover.
type Plan struct {
	Name    string
	Targets []Target
	Status  *StatusPlan // nil = status disabled
}

// Writer writes poll results into targets.
type Writer interface {
	Write(res poller.Result) error
}

// EndpointClient is the exact contract the writers use.
type EndpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
