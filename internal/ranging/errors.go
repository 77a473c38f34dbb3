// internal/ranging/errors.go
package ranging

import (
	"errors"
	"fmt"
)

// ErrTimeout is matched by every TimeoutError.
var ErrTimeout = errors.New("ranging: timeout")

// Phase names a wait phase of the measurement cycle.
type Phase uint8

const (
	EchoStart Phase = iota
	EchoEnd
)

func (p Phase) String() string {
	switch p {
	case EchoStart:
		return "echo-start"
	case EchoEnd:
		return "echo-end"
	default:
		return "unknown"
	}
}

// Status block error codes.
const (
	CodeEchoStartTimeout uint16 = 0x0010
	CodeEchoEndTimeout   uint16 = 0x0011
)

// TimeoutError reports which wait phase exhausted its budget.
type TimeoutError struct {
	Phase Phase
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("ranging: %s wait exhausted its budget", e.Phase)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Code is the status block error code for the phase.
func (e *TimeoutError) Code() uint16 {
	if e.Phase == EchoEnd {
		return CodeEchoEndTimeout
	}
	return CodeEchoStartTimeout
}
