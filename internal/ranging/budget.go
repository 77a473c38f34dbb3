// internal/ranging/budget.go
package ranging

import "time"

// Budget bounds one wait phase. Start is called once per phase.
type Budget interface {
	Start() Deadline
}

// Deadline is consumed once per unsuccessful poll.
// Spend reports false once the budget is exhausted.
type Deadline interface {
	Spend() bool
}

// Iterations is a poll-count budget. Iteration count stands in for elapsed
// time at a fixed loop speed.
type Iterations int

func (n Iterations) Start() Deadline {
	d := iterationDeadline(n)
	return &d
}

type iterationDeadline int

func (d *iterationDeadline) Spend() bool {
	if *d <= 0 {
		return false
	}
	*d--
	return *d > 0
}

// WallClock is an elapsed-time budget for hosts whose loop speed is not
// calibrated. Now defaults to time.Now.
type WallClock struct {
	Timeout time.Duration
	Now     func() time.Time
}

func (w WallClock) Start() Deadline {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	return &wallDeadline{now: now, until: now().Add(w.Timeout)}
}

type wallDeadline struct {
	now   func() time.Time
	until time.Time
}

func (d *wallDeadline) Spend() bool {
	return d.now().Before(d.until)
}
