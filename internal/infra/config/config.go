package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseURL     string // Optional; direct Postgres access instead of the REST API
	SessionSecret   string
	HTTPAddr        string
	HTTPTimeout     time.Duration
	LogLevel        string
	Environment     string
	Location        *time.Location // For "today" in the date picker
	CronSpecHealth  string

	TelegramToken         string
	TelegramPartnerChatID int64
	TelegramAPIURL        string // Optional; a self-hosted Bot API server
}

// TelegramEnabled reports whether the partner notification sink is configured.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramPartnerChatID != 0
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.SupabaseURL = strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is not set")
	}

	cfg.SupabaseAnonKey = os.Getenv("SUPABASE_ANON_KEY")
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.HTTPTimeout = 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		cfg.HTTPTimeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		cfg.Location, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
	}

	cfg.CronSpecHealth = os.Getenv("HEALTHCHECK_CRON")
	if cfg.CronSpecHealth == "" {
		cfg.CronSpecHealth = "*/5 * * * *" // Default: every 5 minutes
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramAPIURL = strings.TrimRight(os.Getenv("TELEGRAM_API_URL"), "/")
	chatIDStr := os.Getenv("TELEGRAM_PARTNER_CHAT_ID")
	if chatIDStr != "" {
		cfg.TelegramPartnerChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_PARTNER_CHAT_ID: %w", err)
		}
	}
	if (cfg.TelegramToken == "") != (cfg.TelegramPartnerChatID == 0) {
		return nil, fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_PARTNER_CHAT_ID must be set together")
	}

	return cfg, nil
}
