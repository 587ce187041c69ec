package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the server settings read from the environment
type Config struct {
	HTTPAddr       string
	DBPath         string
	RateLimitRPS   float64
	RateLimitBurst int
	TelegramToken  string
	TelegramChatID int64
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		DBPath:         getenv("DB_PATH", "/data/history.db"),
		RateLimitRPS:   10,
		RateLimitBurst: 20,
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q", v)
		}
		cfg.RateLimitRPS = rps
	}

	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST %q", v)
		}
		cfg.RateLimitBurst = burst
	}

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		cfg.TelegramChatID = chatID
	}

	return cfg, nil
}

// TelegramEnabled reports whether download notifications are configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
