package store

import (
	"context"
	"errors"
	"time"

	"github.com/mqtch4n-ba/Serina/internal/domain"
)

// ErrNotFound is returned when no reminder exists for the requested user.
var ErrNotFound = errors.New("reminder not found")

// Repo defines storage operations for reminders and scheduling.
type Repo interface {
	// Get returns the user's reminder or ErrNotFound.
	Get(ctx context.Context, userID int64) (*domain.Reminder, error)

	// Upsert creates or replaces the user's reminder and returns the
	// computed due time: the base time plus the fixed interval, where the
	// base is now unless the caller supplies a start time. A wall-clock
	// start ("06:30") must already be resolved to an absolute time via
	// domain.StartAt, which rolls an elapsed time to the next day.
	// Mention flags are reset to enabled on every creation.
	Upsert(ctx context.Context, userID, channelID int64, start *time.Time) (time.Time, error)

	// Remove deletes the user's reminder and reports whether one existed.
	Remove(ctx context.Context, userID int64) (bool, error)

	// SetMentionEnabled toggles the periodic-fire mention flag.
	// Returns ErrNotFound when the user has no reminder.
	SetMentionEnabled(ctx context.Context, userID int64, enabled bool) error

	// SetResetMentionEnabled toggles the daily-sweep mention flag.
	// Returns ErrNotFound when the user has no reminder.
	SetResetMentionEnabled(ctx context.Context, userID int64, enabled bool) error

	// ListDue returns up to limit reminders with next_time <= now,
	// ordered by due time ascending.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Reminder, error)

	// ListAll returns every reminder.
	ListAll(ctx context.Context) ([]domain.Reminder, error)

	// Advance atomically sets the user's next due time after a fire.
	Advance(ctx context.Context, userID int64, next time.Time) error

	// ClearAll snapshots every reminder, empties the store in the same
	// transaction, and returns the snapshot.
	ClearAll(ctx context.Context) ([]domain.Reminder, error)

	// DistinctChannels returns the unique delivery channels across all
	// reminders, for broadcast fan-out.
	DistinctChannels(ctx context.Context) ([]int64, error)

	Close() error
}
