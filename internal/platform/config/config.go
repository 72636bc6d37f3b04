package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers understood by the server.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"ADMIN_ADDR"             envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"ADMIN_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"ADMIN_REQUEST_TIMEOUT"  envDefault:"30s"`

	Log     LogConfig
	Storage StorageConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Lockout LockoutConfig
	Kafka   KafkaConfig
	Latency LatencyConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH"    envDefault:"practiceadmin.db"`
	Seed        bool   `env:"STORAGE_SEED"   envDefault:"true"`
}

// RedisConfig configures the optional Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

// AuthConfig holds the single admin credential and token settings.
type AuthConfig struct {
	// Development default; override JWT_SIGNING_KEY in any shared environment.
	JWTSigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer        string        `env:"JWT_ISSUER"      envDefault:"practiceadmin"`
	SessionTTL    time.Duration `env:"SESSION_TTL"     envDefault:"12h"`
	AdminEmail    string        `env:"ADMIN_EMAIL"     envDefault:"user@example.com"`
	AdminPassword string        `env:"ADMIN_PASSWORD"  envDefault:"password"`
	AdminName     string        `env:"ADMIN_NAME"      envDefault:"John Doe"`
}

// LockoutConfig limits failed sign-ins per email and client IP.
type LockoutConfig struct {
	Attempts     int           `env:"SIGNIN_MAX_ATTEMPTS"  envDefault:"5"`
	Window       time.Duration `env:"SIGNIN_WINDOW"        envDefault:"15m"`
	LockDuration time.Duration `env:"SIGNIN_LOCK_DURATION" envDefault:"15m"`
}

// KafkaConfig enables the Kafka audit sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS"     envSeparator:","`
	AuditTopic string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"practiceadmin.audit"`
}

// LatencyConfig adds an artificial delay to store reads and writes.
type LatencyConfig struct {
	Simulated time.Duration `env:"LATENCY_SIMULATED" envDefault:"0s"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c Server) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for storage driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Lockout.Attempts <= 0 || c.Lockout.Window <= 0 || c.Lockout.LockDuration <= 0 {
		return fmt.Errorf("SIGNIN_MAX_ATTEMPTS, SIGNIN_WINDOW and SIGNIN_LOCK_DURATION must be positive")
	}
	if c.Latency.Simulated < 0 {
		return fmt.Errorf("LATENCY_SIMULATED must not be negative")
	}
	return nil
}
