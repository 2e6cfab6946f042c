package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	ActorID   string

	// Database
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	LocalMode      bool

	// Redis
	RedisURL     string
	UserCacheTTL time.Duration

	// RabbitMQ
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetryBackoff     time.Duration
	OutboxRetryBackoffMax  time.Duration
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Publisher circuit breaker
	PublisherBreakerThreshold   int
	PublisherBreakerTimeout     time.Duration
	PublisherBreakerMaxRequests int

	// Worker
	WorkerHealthAddr string
	MetricsAddr      string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	localMode := getBoolEnv("DIGIBANK_LOCAL_MODE", databaseURL == "")
	driver := getEnv("DATABASE_DRIVER", "auto")
	if localMode {
		driver = "sqlite"
	}

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		ActorID:   getEnv("DIGIBANK_ACTOR_ID", "system"),

		DatabaseURL:    databaseURL,
		DatabaseDriver: driver,
		SQLitePath:     getEnv("SQLITE_PATH", defaultSQLitePath()),
		LocalMode:      localMode,

		RedisURL:     getEnv("REDIS_URL", ""),
		UserCacheTTL: getDurationEnv("USER_CACHE_TTL", 5*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetryBackoff:     getDurationEnv("OUTBOX_RETRY_BACKOFF", time.Second),
		OutboxRetryBackoffMax:  getDurationEnv("OUTBOX_RETRY_BACKOFF_MAX", time.Minute),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		PublisherBreakerThreshold:   getIntEnv("PUBLISHER_BREAKER_THRESHOLD", 5),
		PublisherBreakerTimeout:     getDurationEnv("PUBLISHER_BREAKER_TIMEOUT", 30*time.Second),
		PublisherBreakerMaxRequests: getIntEnv("PUBLISHER_BREAKER_MAX_REQUESTS", 1),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		MetricsAddr:      getEnv("METRICS_ADDR", ""),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the binaries cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if !c.LocalMode && c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required when DIGIBANK_LOCAL_MODE is false"))
	}
	if c.OutboxBatchSize <= 0 {
		errs = append(errs, errors.New("OUTBOX_BATCH_SIZE must be positive"))
	}
	if c.OutboxMaxRetries < 0 {
		errs = append(errs, errors.New("OUTBOX_MAX_RETRIES must not be negative"))
	}
	if c.PublisherBreakerThreshold <= 0 {
		errs = append(errs, errors.New("PUBLISHER_BREAKER_THRESHOLD must be positive"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction reports APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// OutboxRetention converts the retention window to a duration.
func (c *Config) OutboxRetention() time.Duration {
	return time.Duration(c.OutboxRetentionDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseEnv returns fallback when key is unset or does not parse.
func parseEnv[T any](key string, fallback T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := parse(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getIntEnv(key string, fallback int) int {
	return parseEnv(key, fallback, strconv.Atoi)
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	return parseEnv(key, fallback, time.ParseDuration)
}

func getBoolEnv(key string, fallback bool) bool {
	return parseEnv(key, fallback, strconv.ParseBool)
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".digibank", "data.db")
	}
	return filepath.Join(home, ".digibank", "data.db")
}
