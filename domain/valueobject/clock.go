package valueobject

import "time"

// Clock is the source of "now". Production code uses RealClock; tests
// inject FakeClock for deterministic results.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns a Clock backed by the system clock.
func RealClock() Clock {
	return realClock{}
}

// FakeClock is a Clock frozen at a fixed time.
type FakeClock struct {
	T time.Time
}

// Now returns the frozen time.
func (c FakeClock) Now() time.Time {
	return c.T
}
