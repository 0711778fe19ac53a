package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the link resolver
type Config struct {
	Database  DatabaseConfig
	API       APIConfig
	Cache     CacheConfig
	Telegraph TelegraphConfig
	Logging   LoggingConfig
}

// DatabaseConfig holds cache database configuration
type DatabaseConfig struct {
	URL string
}

// APIConfig holds upstream API configuration
type APIConfig struct {
	BaseURL   string
	UserAgent string
	Insecure  bool
}

// CacheConfig holds per-kind cache freshness windows
type CacheConfig struct {
	DynamicTTL time.Duration
	AudioTTL   time.Duration
	LiveTTL    time.Duration
	BangumiTTL time.Duration
	VideoTTL   time.Duration
	ReadTTL    time.Duration
	ReplyTTL   time.Duration
}

// TelegraphConfig holds article republishing configuration
type TelegraphConfig struct {
	APIURL    string
	UploadURL string
	ShortName string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Result is fx.Out struct for providing config dependencies
type Result struct {
	fx.Out

	Config          *Config
	DatabaseConfig  *DatabaseConfig
	APIConfig       *APIConfig
	CacheConfig     *CacheConfig
	TelegraphConfig *TelegraphConfig
	LoggingConfig   *LoggingConfig
}

// Out returns fx-compatible config result
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:          cfg,
		DatabaseConfig:  &cfg.Database,
		APIConfig:       &cfg.API,
		CacheConfig:     &cfg.Cache,
		TelegraphConfig: &cfg.Telegraph,
		LoggingConfig:   &cfg.Logging,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "sqlite://cache.db"),
		},
		API: APIConfig{
			BaseURL:   getEnv("BILI_API", "https://api.bilibili.com"),
			UserAgent: getEnv("USER_AGENT", defaultUserAgent),
			Insecure:  getEnvBool("INSECURE_FETCH", true),
		},
		Cache: CacheConfig{
			DynamicTTL: getEnvDuration("CACHE_DYNAMIC_TTL", 24*time.Hour),
			AudioTTL:   getEnvDuration("CACHE_AUDIO_TTL", 24*time.Hour),
			LiveTTL:    getEnvDuration("CACHE_LIVE_TTL", 5*time.Minute),
			BangumiTTL: getEnvDuration("CACHE_BANGUMI_TTL", 24*time.Hour),
			VideoTTL:   getEnvDuration("CACHE_VIDEO_TTL", 24*time.Hour),
			ReadTTL:    getEnvDuration("CACHE_READ_TTL", 24*time.Hour),
			ReplyTTL:   getEnvDuration("CACHE_REPLY_TTL", 24*time.Hour),
		},
		Telegraph: TelegraphConfig{
			APIURL:    getEnv("TELEGRAPH_API", "https://api.telegra.ph"),
			UploadURL: getEnv("TELEGRAPH_UPLOAD", "https://telegra.ph"),
			ShortName: getEnv("TELEGRAPH_SHORT_NAME", "bilifeedbot"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

const defaultUserAgent = "Mozilla/5.0 (Linux; Android 12) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, _, err := c.Database.parse(); err != nil {
		return err
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("BILI_API is required")
	}

	if c.Telegraph.ShortName == "" {
		return fmt.Errorf("TELEGRAPH_SHORT_NAME is required")
	}

	return nil
}

// Driver returns the database driver name encoded in the URL scheme
func (c *DatabaseConfig) Driver() string {
	driver, _, _ := c.parse()
	return driver
}

// DSN returns the driver-specific connection string
func (c *DatabaseConfig) DSN() string {
	_, dsn, _ := c.parse()
	return dsn
}

func (c *DatabaseConfig) parse() (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(c.URL, "sqlite://"):
		return "sqlite", strings.TrimPrefix(c.URL, "sqlite://"), nil
	case strings.HasPrefix(c.URL, "postgres://"), strings.HasPrefix(c.URL, "postgresql://"):
		return "postgres", c.URL, nil
	default:
		return "", "", fmt.Errorf("DATABASE_URL has unsupported scheme: %s", c.URL)
	}
}

// TTLFor returns the freshness window for a cache kind name
func (c *CacheConfig) TTLFor(kind string) time.Duration {
	switch kind {
	case "dynamic":
		return c.DynamicTTL
	case "audio":
		return c.AudioTTL
	case "live":
		return c.LiveTTL
	case "bangumi":
		return c.BangumiTTL
	case "video":
		return c.VideoTTL
	case "read":
		return c.ReadTTL
	case "reply":
		return c.ReplyTTL
	default:
		return 0
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration gets environment variable as duration with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

// getEnvBool gets environment variable as bool with default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}
