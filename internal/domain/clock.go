package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps composed maps and times feed fetches. Tests swap in a fake.
var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the package time source. Pass nil to restore real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}

// Since returns the time elapsed on the package clock since t.
func Since(t time.Time) time.Duration {
	return clock.Since(t)
}
