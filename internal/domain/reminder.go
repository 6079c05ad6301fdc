package domain

import "time"

// FireInterval is the fixed spacing between periodic reminder notifications.
const FireInterval = 3 * time.Hour

// Reminder is one user's recurring notification schedule. At most one exists
// per user; removing it ends the schedule entirely.
type Reminder struct {
	UserID              int64
	NextFireAt          time.Time // UTC
	ChannelID           int64
	MentionEnabled      bool
	ResetMentionEnabled bool
}
