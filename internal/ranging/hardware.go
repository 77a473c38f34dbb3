// internal/ranging/hardware.go
package ranging

import "time"

// Measurement constants.
// These values encode calibrated sensor timing and MUST NOT be tuned here.
const (
	// TriggerPulseWidth is how long the trigger output is held high.
	TriggerPulseWidth = 10 * time.Microsecond

	// EchoStartThreshold is the raw counter value (ticks since reset) at which
	// the echo is treated as started.
	EchoStartThreshold uint16 = 5000

	// EchoEndDelta is how far the counter must advance past the polarity switch
	// before the falling capture is read.
	EchoEndDelta uint16 = 30000

	// DefaultPollBudget is the iteration budget of each wait phase.
	DefaultPollBudget = 10000

	// MaxCounter is the last value of the free-running counter before it wraps.
	MaxCounter uint16 = 0xFFFF

	// SoundNumerator / SoundDenominator is 0.0343 cm/us halved for the round trip.
	SoundNumerator   = 343
	SoundDenominator = 2000

	// Sentinel is the distance value reported at compatibility boundaries when
	// a measurement failed.
	Sentinel uint32 = 0xFFFF
)

// Polarity selects which echo transition the capture channel latches on.
type Polarity uint8

const (
	Rising Polarity = iota
	Falling
)

func (p Polarity) String() string {
	switch p {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return "unknown"
	}
}

// CaptureTimer is a free-running 16-bit counter with one input-capture channel.
// ReadCapturedValue is only meaningful after a matching edge has occurred.
type CaptureTimer interface {
	ResetCounter()
	ReadCounter() uint16
	SetEdgePolarity(p Polarity)
	ReadCapturedValue() uint16
}

// Trigger emits one trigger pulse. It has no failure mode.
type Trigger interface {
	FireTrigger()
}

// Hardware is the register set one Sequencer owns exclusively.
type Hardware struct {
	Timer   CaptureTimer
	Trigger Trigger
}
