package discord

import "github.com/bwmarrin/discordgo"

// UI texts in English.
const (
	cafeSetText        = "Understood, Sensei %s. I'll call you around **%s**."
	cafeSetWithBase    = "Set with %s as the base, Sensei %s. I'll call you around **%s**."
	cafeBadTimeText    = "Sensei, could you give me the time as `06:30`?"
	checkText          = "Sensei, your next call is planned around **%s**!"
	checkNoneText      = "You have no reminder set! Start one with `!!cafe`."
	stopText           = "Reminder cancelled. Call me again whenever you need me."
	stopNoneText       = "There is no reminder running right now."
	toggleFirstText    = "Please start a reminder with `!!cafe` first."
	toggleShowText     = "It is currently **%s**. You can change it with `!!%s on/off`."
	toggleBadText      = "Sensei, the setting has to be `on` or `off`."
	toggleDoneText     = "Got it! %s is now **%s**."
	feedbackThanksText = "I'll use it to improve the rescue work. Thank you for your help!"
	pingText           = "Pong! (%dms)"
	statusPublicText   = "🏥 **Current operations**\nWatching over **%d** Sensei across **%d** servers."
	broadcastNoneText  = "No target channels were found."
	broadcastAskText   = "📢 **Broadcast confirmation**\nThis will be sent to **%d channels**. Reply **yes** within 30 seconds to proceed."
	broadcastExpired   = "⌛ Time is up. Broadcast cancelled."
	broadcastDoneText  = "✅ **Delivered to %d channels.**"
	broadcastBodyText  = "📢 **A notice for Sensei**\n\n%s"
)

const embedColor = 0xffc0cb

// helpEmbed describes everything the bot can do.
func helpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🍀 Rescue Knight Serina — service guide",
		Color:       embedColor,
		Description: "Thank you for your hard work, Sensei! Here is what I can help with.",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🏥 Main feature",
				Value: "**!!cafe [time]**\nI notify you every 3 hours. A start time like `06:30` is optional.",
			},
			{
				Name: "🔔 Notification settings",
				Value: "**!!mention on/off**\nToggle the mention on cafe notices\n" +
					"**!!resetmention on/off**\nToggle the mention on the 4:00/16:00 cleanup",
			},
			{
				Name:   "🔍 Checking in",
				Value:  "**!!check**: show the next call\n**!!stop**: stop the rescue work",
				Inline: true,
			},
			{
				Name:   "⚙️ Other",
				Value:  "**!!ping**: response time\n**!!feedback [text]**: send a request to the developer",
				Inline: true,
			},
			{
				Name:  "📊 Statistics",
				Value: "**!!status**: show my current activity",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "I'll call you any time, Sensei, so please don't worry.",
		},
	}
}

// feedbackEmbed wraps a user request for the log channel.
func feedbackEmbed(author string, authorID int64, message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "💌 Request received",
		Color: 0xffd700,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "From", Value: author + " (" + formatID(authorID) + ")"},
			{Name: "Message", Value: message},
		},
	}
}
