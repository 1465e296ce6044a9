package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config keeps runtime settings for the bot. It is built once at startup
// and passed by reference; nothing reads the environment after Load.
type Config struct {
	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID" required:"true"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN" required:"true"`
	WhatsAppFrom     string `envconfig:"TWILIO_WHATSAPP_NUMBER" required:"true"`

	// PublicBaseURL is the externally visible origin of this service.
	// Twilio signs webhooks over the full public URL, so signature
	// verification breaks if this does not match the configured webhook.
	PublicBaseURL string `envconfig:"WEBHOOK_BASE_URL" default:"http://localhost:8080"`

	DatabasePath string `envconfig:"DATABASE_PATH" default:"standup.db"`
	HTTPAddr     string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	Timezone      string `envconfig:"STANDUP_TIMEZONE" default:"UTC"`
	MorningHour   int    `envconfig:"MORNING_CHECKIN_HOUR" default:"8"`
	EveningHour   int    `envconfig:"EVENING_DIGEST_HOUR" default:"18"`
	PurgeHour     int    `envconfig:"PURGE_TASK_HOUR" default:"2"`
	RetentionDays int    `envconfig:"STANDUP_RETENTION_DAYS" default:"30"`

	// Roster is an optional explicit recipient list. When empty, the
	// roster is derived from distinct senders in the entry store.
	Roster []string `envconfig:"STANDUP_ROSTER"`

	SendTimeout time.Duration `envconfig:"SEND_TIMEOUT" default:"15s"`

	// Location is resolved from Timezone during Load.
	Location *time.Location `ignored:"true"`
}

// Load reads configuration from environment variables and validates it.
// Any problem here is a startup failure, never deferred to first use.
func Load() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}

	for name, hour := range map[string]int{
		"MORNING_CHECKIN_HOUR": cfg.MorningHour,
		"EVENING_DIGEST_HOUR":  cfg.EveningHour,
		"PURGE_TASK_HOUR":      cfg.PurgeHour,
	} {
		if hour < 0 || hour > 23 {
			return cfg, fmt.Errorf("%s must be in 0..23, got %d", name, hour)
		}
	}

	if cfg.RetentionDays <= 0 {
		return cfg, fmt.Errorf("STANDUP_RETENTION_DAYS must be a positive integer, got %d", cfg.RetentionDays)
	}

	if cfg.SendTimeout <= 0 {
		return cfg, fmt.Errorf("SEND_TIMEOUT must be positive, got %s", cfg.SendTimeout)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("invalid STANDUP_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}
