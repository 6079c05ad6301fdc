package discord

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/mqtch4n-ba/Serina/internal/notify"
)

// Sink delivers scheduler and sweep notifications through the Discord
// session. It implements notify.Sink.
type Sink struct {
	session *discordgo.Session
}

// NewSink wraps a session as a notification sink.
func NewSink(session *discordgo.Session) *Sink {
	return &Sink{session: session}
}

// Resolve checks that the channel is visible to the bot: the gateway state
// cache first, then a REST lookup for channels the cache has not seen.
func (s *Sink) Resolve(channelID int64) error {
	id := formatID(channelID)
	if _, err := s.session.State.Channel(id); err == nil {
		return nil
	}
	if _, err := s.session.Channel(id); err != nil {
		return fmt.Errorf("%w: %d", notify.ErrChannelNotFound, channelID)
	}
	return nil
}

// Send delivers text to the channel.
func (s *Sink) Send(channelID int64, text string) error {
	_, err := s.session.ChannelMessageSend(formatID(channelID), text)
	return err
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
