package domain

import "time"

// NextFireAt computes the due time for a new reminder: base time plus the
// fixed interval, where base is now unless a start time is supplied.
func NextFireAt(now time.Time, start *time.Time) time.Time {
	base := now
	if start != nil {
		base = *start
	}
	return base.Add(FireInterval).UTC()
}

// StartAt resolves a wall-clock time (hour, minute) against the current day.
// If that moment already elapsed today, it rolls to the same time tomorrow.
func StartAt(now time.Time, hour, minute int) time.Time {
	start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if start.Before(now) {
		start = start.Add(24 * time.Hour)
	}
	return start
}

// Advance returns the due time following a fire: the old due time plus the
// interval, stepped forward until strictly after now. A long outage therefore
// produces a single fire and a future due time, never a catch-up burst.
func Advance(due, now time.Time) time.Time {
	next := due.Add(FireInterval)
	for !next.After(now) {
		next = next.Add(FireInterval)
	}
	return next.UTC()
}
