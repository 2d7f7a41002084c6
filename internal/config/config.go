package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram settings
	TelegramToken string
	TelegramChat  int64 // delivery chat for monitored news

	// AI settings (both optional; absence switches analysis to fallbacks)
	OpenAIAPIKey     string
	GeminiAPIKey     string
	OpenAIDailyLimit int
	GeminiDailyLimit int

	// RSS settings
	FeedsConfigPath string
	EntriesPerFeed  int

	// Monitor loop settings
	CheckInterval    time.Duration
	RecoveryInterval time.Duration
	SendPause        time.Duration

	// Price settings
	PriceCacheTTL time.Duration
	HTTPTimeout   time.Duration

	// State settings
	StateDir string

	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		FeedsConfigPath:  getEnvOrDefault("FEEDS_CONFIG_PATH", "configs/feeds.yaml"),
		EntriesPerFeed:   getEnvIntOrDefault("ENTRIES_PER_FEED", 5),
		CheckInterval:    getEnvDurationOrDefault("CHECK_INTERVAL", 120*time.Second),
		RecoveryInterval: getEnvDurationOrDefault("RECOVERY_INTERVAL", 60*time.Second),
		SendPause:        getEnvDurationOrDefault("SEND_PAUSE", 2*time.Second),
		PriceCacheTTL:    getEnvDurationOrDefault("PRICE_CACHE_TTL", 5*time.Minute),
		HTTPTimeout:      getEnvDurationOrDefault("HTTP_TIMEOUT", 5*time.Second),
		OpenAIDailyLimit: getEnvIntOrDefault("OPENAI_DAILY_LIMIT", 200),
		GeminiDailyLimit: getEnvIntOrDefault("GEMINI_DAILY_LIMIT", 1000),
		StateDir:         getEnvOrDefault("STATE_DIR", "."),
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be numeric: %v", err)
		}
		cfg.TelegramChat = id
	}

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramChat == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}
	return nil
}
