package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Presence periodically refreshes the bot's activity line with the current
// guild count.
type Presence struct {
	session *discordgo.Session
	log     *zap.Logger
}

// NewPresence creates the presence updater.
func NewPresence(session *discordgo.Session, log *zap.Logger) *Presence {
	return &Presence{session: session, log: log}
}

// Tick pushes one presence update.
func (p *Presence) Tick(_ context.Context) {
	count := len(p.session.State.Guilds)
	err := p.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{{
			Name: fmt.Sprintf("rescue work in %d servers | !!help", count),
			Type: discordgo.ActivityTypeCompeting,
		}},
	})
	if err != nil {
		p.log.Warn("presence update failed", zap.Error(err))
	}
}
