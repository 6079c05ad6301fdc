package discord

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mqtch4n-ba/Serina/internal/clock"
	"github.com/mqtch4n-ba/Serina/internal/store"
)

// Command prefixes accepted in chat.
var prefixes = []string{"!!", "??"}

const broadcastConfirmWindow = 30 * time.Second

// pendingBroadcast is an owner broadcast awaiting a "yes" confirmation.
type pendingBroadcast struct {
	message   string
	channelID int64
	expires   time.Time
}

// Router maps chat commands onto store operations. It validates and converts
// the raw message text into typed requests before anything reaches the core.
type Router struct {
	session      *discordgo.Session
	log          *zap.Logger
	repo         store.Repo
	clock        clock.Clock
	ownerID      int64
	logChannelID int64

	// discordgo handlers carry no context; the app's run context bounds
	// store calls and broadcast pacing instead.
	ctx context.Context

	limiter *rate.Limiter

	mu      sync.Mutex
	pending *pendingBroadcast
}

// NewRouter creates the command router.
func NewRouter(ctx context.Context, session *discordgo.Session, log *zap.Logger, repo store.Repo, clk clock.Clock, ownerID, logChannelID int64) *Router {
	return &Router{
		session:      session,
		log:          log,
		repo:         repo,
		clock:        clk,
		ownerID:      ownerID,
		logChannelID: logChannelID,
		ctx:          ctx,
		// Broadcast fan-out pacing; well under the per-channel limit.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// parseCommand strips a known prefix and splits the command word from its
// argument. ok is false for ordinary chatter.
func parseCommand(content string) (cmd, arg string, ok bool) {
	content = strings.TrimSpace(content)
	for _, p := range prefixes {
		if strings.HasPrefix(content, p) {
			rest := strings.TrimSpace(strings.TrimPrefix(content, p))
			if rest == "" {
				return "", "", false
			}
			cmd, arg, _ = strings.Cut(rest, " ")
			return strings.ToLower(cmd), strings.TrimSpace(arg), true
		}
	}
	return "", "", false
}

// HandleMessage routes one incoming message. Registered as a discordgo
// MessageCreate handler.
func (r *Router) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	userID, err := parseID(m.Author.ID)
	if err != nil {
		r.log.Warn("unparseable author id", zap.String("id", m.Author.ID))
		return
	}
	channelID, err := parseID(m.ChannelID)
	if err != nil {
		r.log.Warn("unparseable channel id", zap.String("id", m.ChannelID))
		return
	}

	// A bare "yes" from the owner may confirm a pending broadcast.
	if userID == r.ownerID && r.tryConfirmBroadcast(channelID, m.Content) {
		return
	}

	cmd, arg, ok := parseCommand(m.Content)
	if !ok {
		return
	}

	switch cmd {
	case "help":
		r.handleHelp(channelID)
	case "cafe":
		r.handleCafe(userID, channelID, m.Author.Username, arg)
	case "check":
		r.handleCheck(userID, channelID)
	case "stop":
		r.handleStop(userID, channelID)
	case "mention":
		r.handleMention(userID, channelID, arg)
	case "resetmention":
		r.handleResetMention(userID, channelID, arg)
	case "ping":
		r.handlePing(channelID)
	case "status":
		r.handleStatus(userID, channelID)
	case "feedback":
		r.handleFeedback(userID, channelID, m.Author.Username, arg)
	case "broadcast":
		r.handleBroadcast(userID, channelID, arg)
	default:
		// Unknown command: stay quiet, the prefixes also occur in chatter.
	}
}

// sendText sends a plain text reply, logging (not propagating) failures.
func (r *Router) sendText(channelID int64, text string) {
	if _, err := r.session.ChannelMessageSend(formatID(channelID), text); err != nil {
		r.log.Error("reply failed", zap.Int64("channelID", channelID), zap.Error(err))
	}
}

func (r *Router) sendEmbed(channelID int64, embed *discordgo.MessageEmbed) {
	if _, err := r.session.ChannelMessageSendEmbed(formatID(channelID), embed); err != nil {
		r.log.Error("embed reply failed", zap.Int64("channelID", channelID), zap.Error(err))
	}
}
