// Package config loads pulse settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// DefaultUserID is the single local user when PULSE_USER_ID is unset.
const DefaultUserID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string
	Timezone string

	// Database
	LocalMode      bool
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string

	// Redis summary cache
	RedisURL                string
	SummaryCacheTTL         time.Duration
	CacheBreakerMaxFailures int
	CacheBreakerTimeout     time.Duration

	// RabbitMQ
	RabbitMQURL     string
	WorkerQueueName string

	// Outbox
	OutboxPollInterval    time.Duration
	OutboxBatchSize       int
	OutboxMaxRetries      int
	OutboxRetentionDays   int
	OutboxCleanupInterval time.Duration

	// Worker
	WorkerHealthAddr string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load reads the environment. A .env file in the working directory is
// applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	cfg := &Config{
		AppEnv:   getEnv("PULSE_ENV", "development"),
		LogLevel: getEnv("PULSE_LOG_LEVEL", "info"),
		UserID:   getEnv("PULSE_USER_ID", DefaultUserID),
		Timezone: getEnv("PULSE_TIMEZONE", "Local"),

		LocalMode:      getBoolEnv("PULSE_LOCAL_MODE", databaseURL == ""),
		DatabaseDriver: getEnv("PULSE_DB_DRIVER", ""),
		DatabaseURL:    databaseURL,
		SQLitePath:     getEnv("PULSE_SQLITE_PATH", defaultSQLitePath()),

		RedisURL:                getEnv("REDIS_URL", ""),
		SummaryCacheTTL:         getDurationEnv("PULSE_SUMMARY_CACHE_TTL", 10*time.Minute),
		CacheBreakerMaxFailures: getIntEnv("PULSE_CACHE_BREAKER_MAX_FAILURES", 5),
		CacheBreakerTimeout:     getDurationEnv("PULSE_CACHE_BREAKER_TIMEOUT", 30*time.Second),

		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		WorkerQueueName: getEnv("PULSE_WORKER_QUEUE", "pulse.activity"),

		OutboxPollInterval:    getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:       getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:      getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:   getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval: getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	if cfg.LocalMode {
		cfg.DatabaseDriver = "sqlite"
	} else if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = detectDriver(cfg.DatabaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := uuid.Parse(c.UserID); err != nil {
		return fmt.Errorf("PULSE_USER_ID must be a UUID: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("PULSE_TIMEZONE: %w", err)
	}
	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "postgres" {
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.IsPostgres() && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for postgres")
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }
func (c *Config) IsProduction() bool  { return c.AppEnv == "production" }
func (c *Config) IsLocalMode() bool   { return c.LocalMode }
func (c *Config) IsSQLite() bool      { return c.DatabaseDriver == "sqlite" }
func (c *Config) IsPostgres() bool    { return c.DatabaseDriver == "postgres" }

// CurrentUserID returns the configured user. Validate guarantees it parses.
func (c *Config) CurrentUserID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}

// Location returns the time zone that defines calendar days.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func detectDriver(url string) string {
	if url == "" || strings.HasPrefix(url, "file:") || strings.HasSuffix(url, ".db") {
		return "sqlite"
	}
	return "postgres"
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".pulse", "pulse.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
