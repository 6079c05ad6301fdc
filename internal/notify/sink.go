// Package notify defines the outbound delivery capability the scheduling
// core depends on. The Discord layer implements it; the core never imports
// the transport directly.
package notify

import "errors"

// ErrChannelNotFound is returned by Resolve when the destination channel
// does not exist or is not visible to the bot.
var ErrChannelNotFound = errors.New("channel not found")

// Sink delivers notification text to a destination channel. Callers treat
// send failures as non-fatal: a failed delivery is logged and skipped, it
// never aborts a batch.
type Sink interface {
	// Resolve reports whether the destination channel is reachable.
	Resolve(channelID int64) error

	// Send delivers text to the channel.
	Send(channelID int64, text string) error
}
