package clock

import "time"

// Clock abstracts time.Now so hold expiry and the sweeper are testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Real returns a Clock backed by time.Now in UTC.
func Real() Clock {
	return realClock{}
}

// Frozen is a Clock fixed at a specific instant, for tests. Advance moves it
// forward.
type Frozen struct {
	Current time.Time
}

// NewFrozen creates a Frozen clock at t.
func NewFrozen(t time.Time) *Frozen {
	return &Frozen{Current: t}
}

func (f *Frozen) Now() time.Time {
	return f.Current
}

// Advance moves the frozen clock forward by d.
func (f *Frozen) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
