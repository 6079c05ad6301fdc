package store

import "time"

// next_time is stored as fixed-width RFC3339 text (nanoseconds zero-padded,
// always UTC) so values round-trip through restarts and the text ordering in
// SQL matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
