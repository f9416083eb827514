// Package config loads the application configuration from the environment
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Storage selects the product repository backend
	Storage string
	// Redis configures the optional read cache
	Redis RedisConfig
	// Log configures the zap logger
	Log LogConfig
	// Review configures the revision review job
	Review ReviewConfig
	// RateLimit configures the per-IP limiter
	RateLimit RateLimitConfig
	// Client configures the product service client used by fpctl
	Client ClientConfig
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
	// BasePath prefixes every product route
	BasePath string
	// CORSOrigin is the allowed browser origin
	CORSOrigin string
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// DSN returns the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL returns the connection URL used by migrations
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// RedisConfig contains cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether the cache should be used
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// LogConfig contains logger settings
type LogConfig struct {
	// Env is dev, test or prod
	Env   string
	Level string
}

// ReviewConfig contains the revision review job settings
type ReviewConfig struct {
	Enabled  bool
	Schedule string
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Requests int // Number of requests allowed per window
	Window   int // Time window in seconds
	Burst    int // Maximum burst size
}

// ClientConfig contains settings for the product service client
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port:       getEnvOrDefault("API_PORT", "3002"),
		BasePath:   getEnvOrDefault("API_BASE_PATH", "/bp"),
		CORSOrigin: getEnvOrDefault("CORS_ORIGIN", "*"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "financial_products"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
	}
	c.Storage = getEnvOrDefault("STORAGE", StoragePostgres)
	c.Redis = RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvAsInt("REDIS_DB", 0),
		TTL:      getEnvAsDuration("CACHE_TTL", 30*time.Second),
	}
	c.Log = LogConfig{
		Env:   getEnvOrDefault("LOG_ENV", "dev"),
		Level: getEnvOrDefault("LOG_LEVEL", "info"),
	}
	c.Review = ReviewConfig{
		Enabled:  getEnvAsBool("REVIEW_ENABLED", true),
		Schedule: getEnvOrDefault("REVIEW_SCHEDULE", "0 6 * * *"),
	}

	// Load rate limit configuration
	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 1000)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 50)

	c.Client = LoadClientFromEnv()

	return c.Validate()
}

// LoadClientFromEnv reads only the client settings. fpctl uses it so that it
// does not need the server's storage or database variables.
func LoadClientFromEnv() ClientConfig {
	return ClientConfig{
		BaseURL: getEnvOrDefault("FP_API_URL", "http://localhost:3002/bp"),
		Timeout: getEnvAsDuration("CLIENT_TIMEOUT", 10*time.Second),
	}
}

// Validate checks values that would otherwise fail late at startup
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.API.Port); err != nil {
		return fmt.Errorf("API_PORT must be numeric: %q", c.API.Port)
	}
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	if c.Review.Enabled {
		if _, err := cron.ParseStandard(c.Review.Schedule); err != nil {
			return fmt.Errorf("invalid REVIEW_SCHEDULE %q: %w", c.Review.Schedule, err)
		}
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if s, err := strconv.Atoi(v); err == nil {
			return time.Duration(s) * time.Second
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
