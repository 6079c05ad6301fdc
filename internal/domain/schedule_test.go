package domain

import (
	"testing"
	"time"
)

func mustUTC(t *testing.T, y int, m time.Month, d, hh, mm, ss int) time.Time {
	t.Helper()
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestNextFireAt_NoStartTime(t *testing.T) {
	now := mustUTC(t, 2024, time.January, 1, 10, 0, 0)
	next := NextFireAt(now, nil)
	want := mustUTC(t, 2024, time.January, 1, 13, 0, 0)
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
}

func TestNextFireAt_StartTimeToday(t *testing.T) {
	now := mustUTC(t, 2024, time.January, 1, 10, 0, 0)
	start := StartAt(now, 18, 30)
	next := NextFireAt(now, &start)
	want := mustUTC(t, 2024, time.January, 1, 21, 30, 0)
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
}

func TestNextFireAt_StartTimeRollsToTomorrow(t *testing.T) {
	// 06:30 already elapsed at 20:00, so the base rolls to the next day.
	now := mustUTC(t, 2024, time.January, 1, 20, 0, 0)
	start := StartAt(now, 6, 30)
	if want := mustUTC(t, 2024, time.January, 2, 6, 30, 0); !start.Equal(want) {
		t.Fatalf("start: want %v, got %v", want, start)
	}
	next := NextFireAt(now, &start)
	if want := mustUTC(t, 2024, time.January, 2, 9, 30, 0); !next.Equal(want) {
		t.Fatalf("next: want %v, got %v", want, next)
	}
}

func TestAdvance_OneInterval(t *testing.T) {
	due := mustUTC(t, 2024, time.January, 1, 13, 0, 0)
	now := mustUTC(t, 2024, time.January, 1, 13, 0, 1)
	next := Advance(due, now)
	if want := mustUTC(t, 2024, time.January, 1, 16, 0, 0); !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
}

func TestAdvance_SkipsMissedIntervals(t *testing.T) {
	// The process was down for half a day; the schedule jumps past the
	// missed slots instead of queueing a burst.
	due := mustUTC(t, 2024, time.January, 1, 13, 0, 0)
	now := mustUTC(t, 2024, time.January, 2, 1, 30, 0)
	next := Advance(due, now)
	if want := mustUTC(t, 2024, time.January, 2, 4, 0, 0); !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
	if !next.After(now) {
		t.Fatalf("advanced time %v is not in the future of %v", next, now)
	}
}
