package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTimeFormat is returned for start-time input that is not HH:MM.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// ParseClock parses a wall-clock time like "06:30" into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: invalid hour in %q", ErrInvalidTimeFormat, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: invalid minute in %q", ErrInvalidTimeFormat, s)
	}
	return hour, minute, nil
}

// Mention renders a Discord user mention.
func Mention(userID int64) string {
	return fmt.Sprintf("<@%d>", userID)
}
