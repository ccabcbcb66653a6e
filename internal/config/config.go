package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
// GroupChatIDs is a comma-separated list; all weekly triggers fire in
// Timezone; APIKey is the shared secret for POST /status.
type Config struct {
	BotToken     string        `envconfig:"BOT_TOKEN" required:"true"`
	AdminChatID  int64         `envconfig:"ADMIN_CHAT_ID" required:"true"`
	GroupChatIDs []int64       `envconfig:"GROUP_CHAT_IDS"`
	APIKey       string        `envconfig:"API_KEY" required:"true"`
	DBPath       string        `envconfig:"DB_PATH" default:"./data/reserv.db"`
	Timezone     string        `envconfig:"TIMEZONE" default:"Asia/Tehran"`
	ConfirmRetry time.Duration `envconfig:"CONFIRM_RETRY" default:"2h"`
	HTTPAddr     string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
}

// Load reads an optional .env file and the environment into Config.
func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
