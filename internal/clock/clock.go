package clock

import "time"

// Clock is the time source used by every scheduling decision, so that the
// loops can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall-clock time source used in production.
func System() Clock { return systemClock{} }
