package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Default timeout for outbound HTTP clients
	HTTPTimeout time.Duration

	// Redis
	Redis RedisConfig

	// External APIs
	Yahoo    YahooConfig
	Screener ScreenerConfig

	// Analysis
	Analysis AnalysisConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds Yahoo Finance quote API configuration
type YahooConfig struct {
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// ScreenerConfig holds screener.in configuration
type ScreenerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AnalysisConfig controls how tickers are resolved and scored in batches
type AnalysisConfig struct {
	Concurrency    int
	CatalogPath    string // empty = embedded default catalog
	BundleCacheTTL time.Duration
}

// SchedulerConfig holds cron expressions for background jobs
type SchedulerConfig struct {
	WatchlistRefresh string
	JobTimeout       time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", "30s"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		Yahoo: YahooConfig{
			BaseURL:           getEnv("YAHOO_BASE_URL", "https://query2.finance.yahoo.com"),
			RequestsPerSecond: getEnvAsFloat("YAHOO_REQUESTS_PER_SECOND", 2),
			Timeout:           getEnvAsDuration("YAHOO_TIMEOUT", "10s"),
		},

		Screener: ScreenerConfig{
			BaseURL: getEnv("SCREENER_BASE_URL", "https://www.screener.in"),
			Timeout: getEnvAsDuration("SCREENER_TIMEOUT", "15s"),
		},

		// Analysis
		Analysis: AnalysisConfig{
			Concurrency:    getEnvAsInt("ANALYSIS_CONCURRENCY", 4),
			CatalogPath:    getEnv("CATALOG_PATH", ""),
			BundleCacheTTL: getEnvAsDuration("BUNDLE_CACHE_TTL", "1m"),
		},

		// Scheduler
		Scheduler: SchedulerConfig{
			WatchlistRefresh: getEnv("WATCHLIST_REFRESH_CRON", "0 */15 * * * *"),
			JobTimeout:       getEnvAsDuration("SCHEDULER_JOB_TIMEOUT", "5m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.Concurrency <= 0 {
		return fmt.Errorf("ANALYSIS_CONCURRENCY must be positive")
	}

	if c.Yahoo.RequestsPerSecond <= 0 {
		return fmt.Errorf("YAHOO_REQUESTS_PER_SECOND must be positive")
	}

	if c.Yahoo.BaseURL == "" {
		return fmt.Errorf("YAHOO_BASE_URL is required")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
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
