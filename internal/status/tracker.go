// internal/status/tracker.go
package status

import "math"

// Tracker owns the device snapshot between writes.
// Each method reports whether the snapshot changed and needs delivery.
// Not safe for concurrent use; the runner owns it.
type Tracker struct {
	snap Snapshot
}

// NewTracker starts in the boot state.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

func (t *Tracker) Snapshot() Snapshot {
	return t.snap
}

// Success records a good measurement. Recovery clears the error fields.
func (t *Tracker) Success(cm uint16) bool {
	next := Snapshot{
		Health:       HealthOK,
		LastDistance: cm,
	}
	changed := next != t.snap
	t.snap = next
	return changed
}

// Failure records a failed poll with its error code.
// seconds_in_error is left to Tick.
func (t *Tracker) Failure(code uint16) bool {
	next := t.snap
	next.Health = HealthError
	next.LastErrorCode = code
	if next.ConsecutiveFailures < math.MaxUint16 {
		next.ConsecutiveFailures++
	}
	changed := next != t.snap
	t.snap = next
	return changed
}

// Tick is called at 1 Hz. While not OK, seconds_in_error counts up and
// saturates instead of wrapping.
func (t *Tracker) Tick() bool {
	if t.snap.Health == HealthOK {
		return false
	}
	if t.snap.SecondsInError == math.MaxUint16 {
		return false
	}
	t.snap.SecondsInError++
	return true
}
