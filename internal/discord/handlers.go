package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mqtch4n-ba/Serina/internal/domain"
	"github.com/mqtch4n-ba/Serina/internal/store"
)

func (r *Router) handleHelp(channelID int64) {
	r.sendEmbed(channelID, helpEmbed())
}

// handleCafe creates or replaces the user's reminder. An optional HH:MM
// argument anchors the schedule to that wall-clock time (today, or tomorrow
// if it already passed).
func (r *Router) handleCafe(userID, channelID int64, username, arg string) {
	var start *time.Time
	if arg != "" {
		hour, minute, err := domain.ParseClock(arg)
		if err != nil {
			r.sendText(channelID, cafeBadTimeText)
			return
		}
		at := domain.StartAt(r.clock.Now(), hour, minute)
		start = &at
	}

	next, err := r.repo.Upsert(r.ctx, userID, channelID, start)
	if err != nil {
		r.log.Error("Upsert failed", zap.Int64("userID", userID), zap.Error(err))
		r.sendText(channelID, "I couldn't save the reminder. Please try again later.")
		return
	}

	display := next.In(r.clock.Now().Location()).Format("15:04")
	if arg != "" {
		r.sendText(channelID, fmt.Sprintf(cafeSetWithBase, arg, username, display))
		return
	}
	r.sendText(channelID, fmt.Sprintf(cafeSetText, username, display))
}

func (r *Router) handleCheck(userID, channelID int64) {
	rem, err := r.repo.Get(r.ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(channelID, checkNoneText)
		return
	}
	if err != nil {
		r.log.Error("Get failed", zap.Int64("userID", userID), zap.Error(err))
		r.sendText(channelID, "I couldn't read your reminder. Please try again later.")
		return
	}
	display := rem.NextFireAt.In(r.clock.Now().Location()).Format("15:04")
	r.sendText(channelID, fmt.Sprintf(checkText, display))
}

func (r *Router) handleStop(userID, channelID int64) {
	removed, err := r.repo.Remove(r.ctx, userID)
	if err != nil {
		r.log.Error("Remove failed", zap.Int64("userID", userID), zap.Error(err))
		r.sendText(channelID, "I couldn't cancel the reminder. Please try again later.")
		return
	}
	if removed {
		r.sendText(channelID, stopText)
		return
	}
	r.sendText(channelID, stopNoneText)
}

func (r *Router) handleMention(userID, channelID int64, arg string) {
	r.handleToggle(userID, channelID, arg, "mention", "Mention",
		func(rem *domain.Reminder) bool { return rem.MentionEnabled },
		r.repo.SetMentionEnabled,
	)
}

func (r *Router) handleResetMention(userID, channelID int64, arg string) {
	r.handleToggle(userID, channelID, arg, "resetmention", "Reset-time mention",
		func(rem *domain.Reminder) bool { return rem.ResetMentionEnabled },
		r.repo.SetResetMentionEnabled,
	)
}

// handleToggle implements both mention commands: no argument shows the
// current value, otherwise the argument must be on or off.
func (r *Router) handleToggle(userID, channelID int64, arg, cmd, label string, current func(*domain.Reminder) bool, set func(ctx context.Context, userID int64, enabled bool) error) {
	rem, err := r.repo.Get(r.ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(channelID, toggleFirstText)
		return
	}
	if err != nil {
		r.log.Error("Get failed", zap.Int64("userID", userID), zap.Error(err))
		r.sendText(channelID, "I couldn't read your settings. Please try again later.")
		return
	}

	if arg == "" {
		r.sendText(channelID, fmt.Sprintf(toggleShowText, onOff(current(rem)), cmd))
		return
	}

	var enabled bool
	switch strings.ToLower(arg) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		r.sendText(channelID, toggleBadText)
		return
	}

	if err := set(r.ctx, userID, enabled); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.sendText(channelID, toggleFirstText)
			return
		}
		r.log.Error("toggle failed", zap.Int64("userID", userID), zap.String("cmd", cmd), zap.Error(err))
		r.sendText(channelID, "I couldn't save the setting. Please try again later.")
		return
	}
	r.sendText(channelID, fmt.Sprintf(toggleDoneText, label, onOff(enabled)))
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func (r *Router) handlePing(channelID int64) {
	r.sendText(channelID, fmt.Sprintf(pingText, r.session.HeartbeatLatency().Milliseconds()))
}

func (r *Router) handleStatus(userID, channelID int64) {
	guilds := r.session.State.Guilds

	if userID == r.ownerID {
		var b strings.Builder
		b.WriteString("🏥 **Admin: server list**\n")
		for _, g := range guilds {
			fmt.Fprintf(&b, "・%s (%d members)\n", g.Name, g.MemberCount)
		}
		r.sendText(channelID, b.String())
		return
	}

	total := 0
	for _, g := range guilds {
		total += g.MemberCount
	}
	r.sendText(channelID, fmt.Sprintf(statusPublicText, total, len(guilds)))
}

func (r *Router) handleFeedback(userID, channelID int64, username, message string) {
	if message == "" || r.logChannelID == 0 {
		return
	}
	r.sendEmbed(r.logChannelID, feedbackEmbed(username, userID, message))
	r.sendText(channelID, feedbackThanksText)
}
