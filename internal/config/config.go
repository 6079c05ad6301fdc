package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DiscordToken string `envconfig:"DISCORD_BOT_TOKEN" required:"true"`
	DBPath       string `envconfig:"DB_PATH" default:"./data/serina.db"`
	LogChannelID int64  `envconfig:"LOG_CHANNEL_ID" default:"0"` // feedback destination
	OwnerID      int64  `envconfig:"OWNER_ID" default:"0"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr     string `envconfig:"HTTP_ADDR" default:":8080"`

	// Tick granularities of the periodic tasks, not reminder intervals.
	CheckInterval    time.Duration `envconfig:"CHECK_INTERVAL" default:"30s"`
	ResetInterval    time.Duration `envconfig:"RESET_INTERVAL" default:"60s"`
	PresenceInterval time.Duration `envconfig:"PRESENCE_INTERVAL" default:"5m"`

	MorningResetHour int `envconfig:"MORNING_RESET_HOUR" default:"4"`
	EveningResetHour int `envconfig:"EVENING_RESET_HOUR" default:"16"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
