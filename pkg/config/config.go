package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional; price store disabled when URL is empty)
	Database DatabaseConfig

	// Redis (optional provider cache)
	Redis RedisConfig

	// Data providers
	TWSE  TWSEConfig
	USMkt USMktConfig

	// Watchlist scheduler
	Watch WatchConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration for the price store.
type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether the price store should be wired up.
func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

// RedisConfig holds Redis configuration for the provider cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// TWSEConfig holds Taiwan market data source configuration.
type TWSEConfig struct {
	BaseURL         string // 台灣證券交易所 (JSON 報表)
	ShareholdingURL string // 股權結構/董監質押頁 (HTML)
	RatePerSec      int
	HTTPTimeout     time.Duration
}

// USMktConfig holds US market data source configuration.
type USMktConfig struct {
	ChartBaseURL string
	QuoteBaseURL string
	RatePerSec   int
	HTTPTimeout  time.Duration
}

// WatchConfig holds the watchlist scheduler configuration.
type WatchConfig struct {
	Codes    []string // stock codes analyzed on each run
	CronSpec string   // robfig/cron spec with seconds field
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		TWSE: TWSEConfig{
			BaseURL:         getEnv("TWSE_BASE_URL", "https://www.twse.com.tw"),
			ShareholdingURL: getEnv("TWSE_SHAREHOLDING_URL", "https://mops.twse.com.tw/mops/web/stapap1"),
			RatePerSec:      getEnvAsInt("TWSE_RATE_PER_SEC", 3),
			HTTPTimeout:     getEnvAsDuration("TWSE_HTTP_TIMEOUT", "15s"),
		},

		USMkt: USMktConfig{
			ChartBaseURL: getEnv("US_CHART_BASE_URL", "https://query1.finance.yahoo.com"),
			QuoteBaseURL: getEnv("US_QUOTE_BASE_URL", "https://query1.finance.yahoo.com"),
			RatePerSec:   getEnvAsInt("US_RATE_PER_SEC", 5),
			HTTPTimeout:  getEnvAsDuration("US_HTTP_TIMEOUT", "15s"),
		},

		Watch: WatchConfig{
			Codes:    getEnvAsList("WATCH_CODES", nil),
			CronSpec: getEnv("WATCH_CRON", "0 30 14 * * 1-5"), // 平日14:30 (收盤後)
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if c.TWSE.BaseURL == "" {
		return fmt.Errorf("TWSE_BASE_URL must not be empty")
	}
	if c.USMkt.ChartBaseURL == "" {
		return fmt.Errorf("US_CHART_BASE_URL must not be empty")
	}
	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
