package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	MongoURI      string `envconfig:"MONGO_URI" required:"true"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"event_bot"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`

	SMTPHost       string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SenderEmail    string `envconfig:"SENDER_EMAIL"`
	SenderPassword string `envconfig:"SENDER_PASSWORD"`

	ReferenceTZ      string        `envconfig:"REFERENCE_TZ" default:"Asia/Kolkata"`
	ReminderInterval time.Duration `envconfig:"REMINDER_INTERVAL" default:"1m"`
	ReminderDedup    bool          `envconfig:"REMINDER_DEDUP" default:"false"` // opt-in "already notified" ledger
	LedgerPath       string        `envconfig:"LEDGER_PATH" default:"./data/reminders.db"`

	HTTPAddr         string `envconfig:"HTTP_ADDR" default:":5055"`
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`       // empty disables the Telegram channel
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var errNoSender = errors.New("SENDER_EMAIL is required")

// ValidateMail checks settings needed to actually send reminder email.
func (c Config) ValidateMail() error {
	if c.SenderEmail == "" {
		return errNoSender
	}
	return nil
}

// ValidateServe checks settings only the long-running server needs.
func (c Config) ValidateServe() error {
	var errs []error
	if c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if err := c.ValidateMail(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
