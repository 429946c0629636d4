package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/icondeck/internal/constants"
)

type Config struct {
	Wiki    WikiConfig
	Images  ImagesConfig
	Redis   RedisConfig
	Deck    DeckConfig
	Export  ExportConfig
	Logging LoggingConfig
}

type WikiConfig struct {
	BaseURL        string
	ThumbSize      int
	UserAgent      string
	Timeout        time.Duration
	ScrapeFallback bool
}

type ImagesConfig struct {
	CriticalCount int
	BatchSize     int
	Concurrency   int
	MinDisplay    time.Duration
	CacheTTL      time.Duration
	Offline       bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Enabled reports whether a Redis image cache was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Host) != ""
}

type DeckConfig struct {
	SwipeDelay   time.Duration
	ClearConfirm time.Duration
}

type ExportConfig struct {
	Dir string
}

type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Wiki: WikiConfig{
			BaseURL:        strings.TrimRight(getEnv("WIKI_BASE_URL", constants.APIConfig.WikiBaseURL), "/"),
			ThumbSize:      getEnvInt("WIKI_THUMB_SIZE", constants.ImageConfig.ThumbnailSize),
			UserAgent:      getEnv("WIKI_USER_AGENT", constants.APIConfig.UserAgent),
			Timeout:        time.Duration(getEnvInt("WIKI_TIMEOUT_SECONDS", int(constants.APIConfig.WikiTimeout/time.Second))) * time.Second,
			ScrapeFallback: getEnvBool("WIKI_SCRAPE_FALLBACK", true),
		},
		Images: ImagesConfig{
			CriticalCount: getEnvInt("IMAGES_CRITICAL_COUNT", constants.ImageConfig.CriticalCount),
			BatchSize:     getEnvInt("IMAGES_BATCH_SIZE", constants.ImageConfig.BatchSize),
			Concurrency:   getEnvInt("IMAGES_CONCURRENCY", constants.ImageConfig.Concurrency),
			MinDisplay:    time.Duration(getEnvInt("LOADING_MIN_DISPLAY_MS", int(constants.ImageConfig.MinDisplay/time.Millisecond))) * time.Millisecond,
			CacheTTL:      time.Duration(getEnvInt("IMAGE_CACHE_TTL_MINUTES", int(constants.ImageConfig.CacheTTL/time.Minute))) * time.Minute,
			Offline:       getEnvBool("IMAGES_OFFLINE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Deck: DeckConfig{
			SwipeDelay:   time.Duration(getEnvInt("SWIPE_DELAY_MS", int(constants.DeckConfig.SwipeDelay/time.Millisecond))) * time.Millisecond,
			ClearConfirm: time.Duration(getEnvInt("CLEAR_CONFIRM_SECONDS", int(constants.DeckConfig.ClearConfirm/time.Second))) * time.Second,
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "."),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", "logs/icondeck.log"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Wiki.BaseURL == "" {
		return fmt.Errorf("WIKI_BASE_URL is required")
	}
	if c.Wiki.ThumbSize <= 0 {
		return fmt.Errorf("WIKI_THUMB_SIZE must be positive")
	}
	if c.Wiki.Timeout <= 0 {
		return fmt.Errorf("WIKI_TIMEOUT_SECONDS must be positive")
	}
	if c.Images.CriticalCount < 0 {
		return fmt.Errorf("IMAGES_CRITICAL_COUNT must not be negative")
	}
	if c.Images.BatchSize <= 0 {
		return fmt.Errorf("IMAGES_BATCH_SIZE must be positive")
	}
	if c.Images.Concurrency <= 0 {
		return fmt.Errorf("IMAGES_CONCURRENCY must be positive")
	}
	if c.Images.MinDisplay < 0 {
		return fmt.Errorf("LOADING_MIN_DISPLAY_MS must not be negative")
	}
	if c.Deck.SwipeDelay < 0 {
		return fmt.Errorf("SWIPE_DELAY_MS must not be negative")
	}
	if c.Deck.ClearConfirm <= 0 {
		return fmt.Errorf("CLEAR_CONFIRM_SECONDS must be positive")
	}
	if strings.TrimSpace(c.Export.Dir) == "" {
		return fmt.Errorf("EXPORT_DIR is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
