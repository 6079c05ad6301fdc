package scheduler

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mqtch4n-ba/Serina/internal/clock"
	"github.com/mqtch4n-ba/Serina/internal/domain"
	"github.com/mqtch4n-ba/Serina/internal/notify"
	"github.com/mqtch4n-ba/Serina/internal/store"
)

const (
	morningSweepText = "Sensei, it's 4 AM. No more staying up late, okay? I've tidied up the reminders for you."
	eveningSweepText = "Sensei, it's 4 PM. I've cleared the afternoon reminders. Call me again whenever you need me."
)

// Sweep clears every reminder at the two configured times of day and sends
// one grouped notification per channel.
type Sweep struct {
	repo        store.Repo
	log         *zap.Logger
	sink        notify.Sink
	clock       clock.Clock
	morningHour int
	eveningHour int

	// lastSwept remembers the (date, hour) already handled so multiple
	// ticks inside the matching minute sweep exactly once.
	lastSwept time.Time
}

// NewSweep creates a Sweep for the given reset hours (local to the process
// clock). Drive it by calling Tick on a fixed period of at most a minute.
func NewSweep(repo store.Repo, log *zap.Logger, sink notify.Sink, clk clock.Clock, morningHour, eveningHour int) *Sweep {
	return &Sweep{
		repo:        repo,
		log:         log,
		sink:        sink,
		clock:       clk,
		morningHour: morningHour,
		eveningHour: eveningHour,
	}
}

// Tick checks whether now matches a reset time to the minute and, if so,
// performs the sweep once for that minute.
func (w *Sweep) Tick(ctx context.Context) {
	now := w.clock.Now()
	if now.Minute() != 0 {
		return
	}
	hour := now.Hour()
	if hour != w.morningHour && hour != w.eveningHour {
		return
	}

	mark := now.Truncate(time.Hour)
	if mark.Equal(w.lastSwept) {
		return
	}

	if w.sweep(ctx, hour) {
		w.lastSwept = mark
	}
}

// sweep snapshots and clears the store, then notifies each channel once.
// It reports whether the store was reached, so a store outage is retried on
// the next tick within the minute rather than silently skipped.
func (w *Sweep) sweep(ctx context.Context, hour int) bool {
	all, err := w.repo.ListAll(ctx)
	if err != nil {
		w.log.Error("ListAll failed", zap.Error(err))
		return false
	}
	if len(all) == 0 {
		return true
	}

	text := morningSweepText
	if hour == w.eveningHour {
		text = eveningSweepText
	}

	for channelID, mentions := range groupMentions(all) {
		body := text
		if len(mentions) > 0 {
			body = strings.Join(mentions, " ") + " " + text
		}
		if err := w.sink.Resolve(channelID); err != nil {
			w.log.Warn("channel unreachable, skipping sweep notice",
				zap.Int64("channelID", channelID),
				zap.Error(err),
			)
			continue
		}
		if err := w.sink.Send(channelID, body); err != nil {
			w.log.Error("sweep notice failed",
				zap.Int64("channelID", channelID),
				zap.Error(err),
			)
		}
	}

	cleared, err := w.repo.ClearAll(ctx)
	if err != nil {
		w.log.Error("ClearAll failed", zap.Error(err))
		return false
	}
	w.log.Info("reset sweep done",
		zap.Int("hour", hour),
		zap.Int("cleared", len(cleared)),
	)
	return true
}

// groupMentions buckets reminders by channel, collecting mentions only for
// users who kept the sweep mention enabled. Mentions are sorted for stable
// message output.
func groupMentions(all []domain.Reminder) map[int64][]string {
	groups := make(map[int64][]string)
	for _, rem := range all {
		if _, ok := groups[rem.ChannelID]; !ok {
			groups[rem.ChannelID] = nil
		}
		if rem.ResetMentionEnabled {
			groups[rem.ChannelID] = append(groups[rem.ChannelID], domain.Mention(rem.UserID))
		}
	}
	for _, mentions := range groups {
		sort.Strings(mentions)
	}
	return groups
}
