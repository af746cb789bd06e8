// Package clock wraps the system clock behind an interface so time-driven
// loops (the dump follow poller) can be tested with a manually advanced
// fake instead of real sleeps.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the time source handed to anything that ticks or sleeps.
type Clock interface {
	clockwork.Clock
}

// FakeClock is a Clock that only moves when a test advances it.
type FakeClock interface {
	clockwork.FakeClock
}

// NewRealClock returns a Clock backed by the system clock.
func NewRealClock() Clock {
	return clockwork.NewRealClock()
}

// NewFakeClock returns a FakeClock for tests.
func NewFakeClock() FakeClock {
	return clockwork.NewFakeClock()
}

// NewFakeClockAt returns a FakeClock frozen at t.
func NewFakeClockAt(t time.Time) FakeClock {
	return clockwork.NewFakeClockAt(t)
}
