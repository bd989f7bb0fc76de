// Package config provides configuration structures and validation for the marketplace services.
// It covers the HTTP API, the databases, the event bus, caching, authentication and the
// activity projector's operational parameters.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration. Each field is one subsystem and is
// validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Redis       RedisConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
	Marketplace MarketplaceConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	EventsTopic       string
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// RedisConfig contains Redis configuration for the shared cache and rate-limit counters
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration // TTL of cached catalog entries, in both cache levels
}

// AuthConfig contains the identity provider token settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// RateLimitConfig contains fixed-window rate limit settings per client IP
type RateLimitConfig struct {
	Window              time.Duration
	MaxRequests         int
	RegisterWindow      time.Duration
	MaxRegisterRequests int
}

// OutboxConfig contains outbox pattern configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int
}

// MarketplaceConfig contains business rules that product can tune without a release
type MarketplaceConfig struct {
	AllowReverification bool // Lets VERIFIED owners resubmit documents
	DefaultPageSize     int
	MaxPageSize         int
	ActivityFeedLimit   int
}

// validate performs validation of all configuration values and reports every violation at once
func (c *Config) validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.EventsTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_EVENTS_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.Kafka.DLQTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required")
	}

	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	if c.Redis.Addr == "" {
		validationErrors = append(validationErrors, "REDIS_ADDR is required")
	}
	if c.Redis.DB < 0 {
		validationErrors = append(validationErrors, "REDIS_DB must not be negative")
	}
	if c.Redis.CacheTTL <= 0 {
		validationErrors = append(validationErrors, "REDIS_CACHE_TTL must be greater than 0")
	}

	if len(c.Auth.JWTSecret) < 32 {
		validationErrors = append(validationErrors, "AUTH_JWT_SECRET must be at least 32 characters")
	}
	if c.Auth.Issuer == "" {
		validationErrors = append(validationErrors, "AUTH_ISSUER is required")
	}
	if c.Auth.TokenTTL <= 0 {
		validationErrors = append(validationErrors, "AUTH_TOKEN_TTL must be greater than 0")
	}

	if c.RateLimit.Window <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_WINDOW must be greater than 0")
	}
	if c.RateLimit.MaxRequests <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_MAX_REQUESTS must be greater than 0")
	}
	if c.RateLimit.RegisterWindow <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_REGISTER_WINDOW must be greater than 0")
	}
	if c.RateLimit.MaxRegisterRequests <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_MAX_REGISTER_REQUESTS must be greater than 0")
	}

	if c.Outbox.PollingInterval <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	}
	if c.Outbox.BatchSize <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if c.Outbox.MaxRetryAttempts <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")
	}

	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if c.Marketplace.DefaultPageSize <= 0 {
		validationErrors = append(validationErrors, "MARKETPLACE_DEFAULT_PAGE_SIZE must be greater than 0")
	}
	if c.Marketplace.MaxPageSize < c.Marketplace.DefaultPageSize {
		validationErrors = append(validationErrors, "MARKETPLACE_MAX_PAGE_SIZE must not be lower than MARKETPLACE_DEFAULT_PAGE_SIZE")
	}
	if c.Marketplace.ActivityFeedLimit <= 0 {
		validationErrors = append(validationErrors, "MARKETPLACE_ACTIVITY_FEED_LIMIT must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
