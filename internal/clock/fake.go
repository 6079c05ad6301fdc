package clock

import (
	"sync"
	"time"
)

// Fake is a controllable Clock for tests.
type Fake struct {
	mu      sync.Mutex
	current time.Time
}

// NewFake returns a fake clock initialised to the supplied time.
func NewFake(start time.Time) *Fake {
	return &Fake{current: start}
}

// Now returns the current instant tracked by the clock.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Set updates the clock to the provided time.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.current = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d and returns the updated time.
func (f *Fake) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	f.current = f.current.Add(d)
	updated := f.current
	f.mu.Unlock()
	return updated
}
