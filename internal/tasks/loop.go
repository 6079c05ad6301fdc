// Package tasks provides the periodic-timer capability shared by the
// scheduling loops: a named fixed-interval loop whose Start is idempotent,
// so it can be re-invoked safely from events that refire (gateway ready on
// reconnect, for example).
package tasks

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Loop runs fn on a fixed interval until its context is canceled. Ticks run
// serially on a single goroutine: a tick that outlasts the interval causes
// later ticks to be dropped by the ticker, never run concurrently.
type Loop struct {
	name     string
	interval time.Duration
	fn       func(context.Context)
	log      *zap.Logger
	running  atomic.Bool
}

// NewLoop creates a loop that is not yet running.
func NewLoop(name string, interval time.Duration, log *zap.Logger, fn func(context.Context)) *Loop {
	return &Loop{
		name:     name,
		interval: interval,
		fn:       fn,
		log:      log,
	}
}

// Start launches the loop goroutine. It reports whether this call started
// the loop; calling Start on a running loop is a no-op.
func (l *Loop) Start(ctx context.Context) bool {
	if !l.running.CompareAndSwap(false, true) {
		return false
	}
	go l.run(ctx)
	return true
}

// Running reports whether the loop goroutine is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}

func (l *Loop) run(ctx context.Context) {
	defer l.running.Store(false)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info("loop stopping", zap.String("task", l.name))
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

// tick runs one iteration; a panicking tick is contained so a bad cycle
// cannot take the whole loop down.
func (l *Loop) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("tick panicked",
				zap.String("task", l.name),
				zap.Any("panic", r),
			)
		}
	}()
	l.fn(ctx)
}
