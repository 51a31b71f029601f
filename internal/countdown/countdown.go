// Package countdown provides the elapsing-duration primitive that ends a
// typing session.
package countdown

import (
	"fmt"
	"time"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

// State is the lifecycle phase of a Countdown.
type State int

const (
	Idle State = iota
	Running
	Expired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Countdown tracks remaining time against a configured duration.
// Remaining stays within [0, Duration] and never increases while running.
// It owns no goroutines or timers; callers feed it elapsed time.
type Countdown struct {
	state     State
	duration  time.Duration
	remaining time.Duration
}

// Start moves an idle countdown to Running with the full duration remaining.
func (c *Countdown) Start(d time.Duration) error {
	if c.state != Idle {
		return fmt.Errorf("%w: countdown already %s", model.ErrInvalidState, c.state)
	}
	if d <= 0 {
		return fmt.Errorf("%w: countdown duration must be positive, got %s", model.ErrDomain, d)
	}
	c.duration = d
	c.remaining = d
	c.state = Running
	return nil
}

// Tick subtracts elapsed from the remaining time, clamped at zero. Reaching
// zero expires the countdown; ticks after that change nothing. Negative
// elapsed values count as zero.
func (c *Countdown) Tick(elapsed time.Duration) error {
	switch c.state {
	case Idle:
		return fmt.Errorf("%w: countdown not started", model.ErrInvalidState)
	case Expired:
		return nil
	}
	if elapsed <= 0 {
		return nil
	}
	if elapsed >= c.remaining {
		c.remaining = 0
		c.state = Expired
		return nil
	}
	c.remaining -= elapsed
	return nil
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration {
	return c.remaining
}

// Duration returns the configured duration.
func (c *Countdown) Duration() time.Duration {
	return c.duration
}

// State returns the current phase.
func (c *Countdown) State() State {
	return c.state
}

// Expired reports whether the countdown reached zero.
func (c *Countdown) Expired() bool {
	return c.state == Expired
}
