// Package scheduler contains the two evaluation loops at the heart of the
// bot: the periodic reminder scheduler and the twice-daily reset sweep.
// Both poll the store on their own tick and deliver through notify.Sink.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mqtch4n-ba/Serina/internal/clock"
	"github.com/mqtch4n-ba/Serina/internal/domain"
	"github.com/mqtch4n-ba/Serina/internal/notify"
	"github.com/mqtch4n-ba/Serina/internal/store"
)

const fireText = "Sensei, it has been 3 hours since the cafe refresh! Time to go see your students."

// dueBatchSize bounds one tick's scan.
const dueBatchSize = 100

// Scheduler fires due reminders and reschedules them one interval ahead.
type Scheduler struct {
	repo  store.Repo
	log   *zap.Logger
	sink  notify.Sink
	clock clock.Clock
}

// New creates a Scheduler. Drive it by calling Tick on a fixed period.
func New(repo store.Repo, log *zap.Logger, sink notify.Sink, clk clock.Clock) *Scheduler {
	return &Scheduler{repo: repo, log: log, sink: sink, clock: clk}
}

// Tick performs one scheduling cycle: find due reminders, notify, advance.
// The schedule advances whether or not delivery succeeds, so a transient
// failure or an unreachable channel never causes a duplicate fire for the
// same interval and never jams the cycle.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.clock.Now()

	due, err := s.repo.ListDue(ctx, now, dueBatchSize)
	if err != nil {
		// Store failure aborts this tick only; the next tick retries.
		s.log.Error("ListDue failed", zap.Error(err))
		return
	}

	for _, rem := range due {
		s.fire(ctx, rem, now)
	}
}

func (s *Scheduler) fire(ctx context.Context, rem domain.Reminder, now time.Time) {
	if err := s.sink.Resolve(rem.ChannelID); err != nil {
		s.log.Warn("channel unreachable, skipping send",
			zap.Int64("userID", rem.UserID),
			zap.Int64("channelID", rem.ChannelID),
			zap.Error(err),
		)
	} else {
		text := fireText
		if rem.MentionEnabled {
			text = domain.Mention(rem.UserID) + " " + text
		}
		if err := s.sink.Send(rem.ChannelID, text); err != nil {
			s.log.Error("send failed",
				zap.Int64("userID", rem.UserID),
				zap.Int64("channelID", rem.ChannelID),
				zap.Error(err),
			)
		}
	}

	next := domain.Advance(rem.NextFireAt, now)
	if err := s.repo.Advance(ctx, rem.UserID, next); err != nil {
		s.log.Error("Advance failed",
			zap.Int64("userID", rem.UserID),
			zap.Error(err),
		)
	}
}
