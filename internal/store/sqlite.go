package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/mqtch4n-ba/Serina/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
// The now function is the time source for Upsert's base-time computation.
func OpenSQLite(ctx context.Context, path string, now func() time.Time) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine. A single
	// connection also serializes concurrent mutations from the loops.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	if now == nil {
		now = time.Now
	}
	return &SQLiteRepo{db: db, now: now}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

const reminderColumns = "user_id, next_time, channel_id, mention_enabled, reset_mention_enabled"

func scanReminder(scan func(dest ...any) error) (domain.Reminder, error) {
	var (
		rem      domain.Reminder
		nextText string
		mention  int
		resetM   int
	)
	if err := scan(&rem.UserID, &nextText, &rem.ChannelID, &mention, &resetM); err != nil {
		return domain.Reminder{}, err
	}
	next, err := decodeTime(nextText)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("decode next_time: %w", err)
	}
	rem.NextFireAt = next
	rem.MentionEnabled = mention != 0
	rem.ResetMentionEnabled = resetM != 0
	return rem, nil
}

// Get returns the user's reminder or ErrNotFound.
func (r *SQLiteRepo) Get(ctx context.Context, userID int64) (*domain.Reminder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE user_id = ?`,
		userID,
	)
	rem, err := scanReminder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

// Upsert creates or replaces the user's reminder. Any prior row for the user
// is replaced wholesale, so mention flags come back enabled on re-creation.
func (r *SQLiteRepo) Upsert(ctx context.Context, userID, channelID int64, start *time.Time) (time.Time, error) {
	next := domain.NextFireAt(r.now(), start)
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reminders
			(user_id, next_time, channel_id, mention_enabled, reset_mention_enabled)
		VALUES (?, ?, ?, 1, 1)`,
		userID, encodeTime(next), channelID,
	)
	if err != nil {
		return time.Time{}, err
	}
	return next, nil
}

// Remove deletes the user's reminder and reports whether one existed.
func (r *SQLiteRepo) Remove(ctx context.Context, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE user_id = ?`, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetMentionEnabled toggles the periodic-fire mention flag.
func (r *SQLiteRepo) SetMentionEnabled(ctx context.Context, userID int64, enabled bool) error {
	return r.setFlag(ctx, "mention_enabled", userID, enabled)
}

// SetResetMentionEnabled toggles the daily-sweep mention flag.
func (r *SQLiteRepo) SetResetMentionEnabled(ctx context.Context, userID int64, enabled bool) error {
	return r.setFlag(ctx, "reset_mention_enabled", userID, enabled)
}

func (r *SQLiteRepo) setFlag(ctx context.Context, column string, userID int64, enabled bool) error {
	// column is one of two compile-time constants, never user input.
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET `+column+` = ? WHERE user_id = ?`,
		boolToInt(enabled), userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDue returns up to limit reminders due at or before now, ordered by
// due time ascending.
func (r *SQLiteRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE next_time <= ?
		ORDER BY next_time ASC
		LIMIT ?`,
		encodeTime(now), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReminders(rows)
}

// ListAll returns every reminder.
func (r *SQLiteRepo) ListAll(ctx context.Context) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reminderColumns+` FROM reminders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReminders(rows)
}

func collectReminders(rows *sql.Rows) ([]domain.Reminder, error) {
	var res []domain.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Advance atomically sets the user's next due time after a fire.
func (r *SQLiteRepo) Advance(ctx context.Context, userID int64, next time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET next_time = ?
		WHERE user_id = ?`,
		encodeTime(next), userID,
	)
	return err
}

// ClearAll snapshots every reminder and empties the store in one transaction.
func (r *SQLiteRepo) ClearAll(ctx context.Context) ([]domain.Reminder, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT `+reminderColumns+` FROM reminders`)
	if err != nil {
		return nil, err
	}
	snapshot, err := collectReminders(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reminders`); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// DistinctChannels returns the unique delivery channels across all reminders.
func (r *SQLiteRepo) DistinctChannels(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT channel_id FROM reminders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
