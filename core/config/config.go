package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// BotConfig holds Telegram settings for a single bot identity.
type BotConfig struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
	RunMode  string `yaml:"run_mode"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int           `yaml:"longpoll_timeout_seconds"`
	Webhook                WebhookConfig `yaml:"webhook"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url"`
	Listen string `yaml:"listen"`
	Port   int    `yaml:"port"`
}

// ServerConfig holds the landing-page HTTP server settings.
type ServerConfig struct {
	Listen string `yaml:"listen" envconfig:"SERVER_LISTEN"`
	// PublicURL is the externally visible base URL used in share links.
	PublicURL string `yaml:"public_url" envconfig:"SERVER_PUBLIC_URL"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Stacks      string `yaml:"stacks"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	ErrorsFile  string `yaml:"errors_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
	// UpdateInlineQuery identifies inline query updates for rate limit exclusions.
	UpdateInlineQuery = "inline_query"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
// - "inline_query": inline query updates
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// DatabaseConfig holds database connection settings. It mirrors the database
// layer's own config struct; the conversion happens in the composition root so
// this package stays free of a dependency on core/database.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Config aggregates the full FormRunner configuration.
type Config struct {
	AdminBot  BotConfig       `yaml:"admin_bot"`
	UserBot   BotConfig       `yaml:"user_bot"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	applyTokenEnv(&cfg)

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyTokenEnv overlays per-bot secrets that envconfig cannot reach through the
// shared BotConfig struct.
func applyTokenEnv(cfg *Config) {
	if v := os.Getenv("ADMIN_BOT_TOKEN"); v != "" {
		cfg.AdminBot.Token = v
	}
	if v := os.Getenv("USER_BOT_TOKEN"); v != "" {
		cfg.UserBot.Token = v
	}
	if v := os.Getenv("USER_BOT_USERNAME"); v != "" {
		cfg.UserBot.Username = v
	}
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if err := normalizeBot("admin_bot", &cfg.AdminBot); err != nil {
		return err
	}
	if err := normalizeBot("user_bot", &cfg.UserBot); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.UserBot.Username) == "" {
		return fmt.Errorf("user_bot.username is required to build share links")
	}
	cfg.UserBot.Username = strings.TrimPrefix(strings.TrimSpace(cfg.UserBot.Username), "@")

	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":8080"
	}
	cfg.Server.PublicURL = strings.TrimRight(strings.TrimSpace(cfg.Server.PublicURL), "/")

	allowed := map[string]struct{}{
		UpdateCallback:    {},
		UpdateMessage:     {},
		UpdateInlineQuery: {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message, inline_query", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}

func normalizeBot(name string, bot *BotConfig) error {
	if strings.TrimSpace(bot.Token) == "" {
		return fmt.Errorf("%s.token is required", name)
	}

	rm := strings.ToLower(strings.TrimSpace(bot.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(bot.Webhook.URL) == "" {
			return fmt.Errorf("%s.webhook.url is required when run_mode is 'webhook'", name)
		}
		if strings.TrimSpace(bot.Webhook.Listen) == "" {
			return fmt.Errorf("%s.webhook.listen is required when run_mode is 'webhook'", name)
		}
		if bot.Webhook.Port <= 0 {
			return fmt.Errorf("%s.webhook.port must be > 0 when run_mode is 'webhook'", name)
		}
	case RunModeLongpoll:
		if bot.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("%s.longpoll_timeout_seconds must be >= 0", name)
		}
	default:
		return fmt.Errorf("invalid %s.run_mode %q; allowed: webhook, longpoll", name, bot.RunMode)
	}
	bot.RunMode = rm
	return nil
}
