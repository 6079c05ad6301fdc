package discord

import (
	"fmt"

	"go.uber.org/zap"
)

// handleBroadcast is the owner-only fan-out command. It counts the target
// channels and parks the message until the owner confirms with "yes".
func (r *Router) handleBroadcast(userID, channelID int64, message string) {
	if userID != r.ownerID || message == "" {
		return
	}

	channels, err := r.repo.DistinctChannels(r.ctx)
	if err != nil {
		r.log.Error("DistinctChannels failed", zap.Error(err))
		r.sendText(channelID, "I couldn't collect the target channels.")
		return
	}
	if len(channels) == 0 {
		r.sendText(channelID, broadcastNoneText)
		return
	}

	r.mu.Lock()
	r.pending = &pendingBroadcast{
		message:   message,
		channelID: channelID,
		expires:   r.clock.Now().Add(broadcastConfirmWindow),
	}
	r.mu.Unlock()

	r.sendText(channelID, fmt.Sprintf(broadcastAskText, len(channels)))
}

// tryConfirmBroadcast consumes an owner "yes" for a pending broadcast. It
// reports whether the message was handled as a confirmation. The pending
// entry is consumed only by a "yes" in the channel that asked for it; owner
// chatter elsewhere leaves the confirmation live.
func (r *Router) tryConfirmBroadcast(channelID int64, content string) bool {
	if content != "yes" {
		return false
	}

	r.mu.Lock()
	pending := r.pending
	if pending == nil || pending.channelID != channelID {
		r.mu.Unlock()
		return false
	}
	r.pending = nil
	r.mu.Unlock()

	if r.clock.Now().After(pending.expires) {
		r.sendText(channelID, broadcastExpired)
		return true
	}

	r.runBroadcast(channelID, pending.message)
	return true
}

// runBroadcast delivers the message to every distinct reminder channel,
// rate-limited, skipping channels that fail without aborting the rest.
func (r *Router) runBroadcast(replyTo int64, message string) {
	channels, err := r.repo.DistinctChannels(r.ctx)
	if err != nil {
		r.log.Error("DistinctChannels failed", zap.Error(err))
		r.sendText(replyTo, "I couldn't collect the target channels.")
		return
	}

	body := fmt.Sprintf(broadcastBodyText, message)
	sent := 0
	for _, ch := range channels {
		if err := r.limiter.Wait(r.ctx); err != nil {
			// Shutdown mid-broadcast; report what went out.
			break
		}
		if _, err := r.session.ChannelMessageSend(formatID(ch), body); err != nil {
			r.log.Warn("broadcast send failed", zap.Int64("channelID", ch), zap.Error(err))
			continue
		}
		sent++
	}
	r.sendText(replyTo, fmt.Sprintf(broadcastDoneText, sent))
}
