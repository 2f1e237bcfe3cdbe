package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BotToken      string
	SelfURL       string
	WebhookSecret string
	DBUrl         string
	TimeZone      string
	Port          string

	LogLevel    string
	LogEncoding string

	PollInterval time.Duration
	SendRate     float64
	SessionTTL   time.Duration
}

// env names kept from the deployment this bot grew out of
var envKeys = map[string]string{
	"telegram.bot_token":      "TELEGRAM_BOT_TOKEN",
	"telegram.self_url":       "SELF_URL",
	"telegram.webhook_secret": "TG_WEBHOOK_SECRET",
	"database.url":            "DATABASE_URL",
	"timezone.default":        "DEFAULT_TIMEZONE",
	"http.port":               "PORT",
	"logger.level":            "LOG_LEVEL",
	"logger.encoding":         "LOG_ENCODING",
	"notifier.poll_interval":  "NOTIFIER_POLL_INTERVAL",
	"notifier.send_rate":      "NOTIFIER_SEND_RATE",
	"wizard.session_ttl":      "WIZARD_SESSION_TTL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone.default", "Europe/Moscow")
	v.SetDefault("http.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("notifier.poll_interval", "15s")
	v.SetDefault("notifier.send_rate", 20)
	v.SetDefault("wizard.session_ttl", "24h")
}

// Load reads config.yaml (from path if given, else ./config or .) and
// overlays environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		BotToken:      v.GetString("telegram.bot_token"),
		SelfURL:       strings.TrimRight(v.GetString("telegram.self_url"), "/"),
		WebhookSecret: v.GetString("telegram.webhook_secret"),
		DBUrl:         v.GetString("database.url"),
		TimeZone:      v.GetString("timezone.default"),
		Port:          v.GetString("http.port"),
		LogLevel:      v.GetString("logger.level"),
		LogEncoding:   v.GetString("logger.encoding"),
		PollInterval:  v.GetDuration("notifier.poll_interval"),
		SendRate:      v.GetFloat64("notifier.send_rate"),
		SessionTTL:    v.GetDuration("wizard.session_ttl"),
	}
	return cfg, nil
}

// Validate reports the first missing or malformed setting needed to serve.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if c.DBUrl == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE %q: %w", c.TimeZone, err)
	}
	if c.SelfURL != "" && c.WebhookSecret == "" {
		return fmt.Errorf("TG_WEBHOOK_SECRET is required in webhook mode")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("notifier.poll_interval must be positive")
	}
	if c.SendRate <= 0 {
		return fmt.Errorf("notifier.send_rate must be positive")
	}
	return nil
}
