package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Revocation store backends.
const (
	RevocationMemory = "memory"
	RevocationRedis  = "redis"
)

// Config holds the whole application configuration, populated from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Reader   ReaderConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Database          string
	SSLMode           string
	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	ConnectTimeout    time.Duration
	AutoMigrate       bool // apply embedded migrations on startup

	// Loan transactions
	TxIsolation   string
	TxMaxAttempts int
	TxBaseDelay   time.Duration
	TxJitter      float64 // fraction of each backoff delay added at random
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	Prefix   string
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

type AuthConfig struct {
	RevocationBackend string // memory, redis
}

type ReaderConfig struct {
	PhoneRegion string // ISO 3166-1 region used for numbers without a country code
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	var errs durationErrors

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Library API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "library"),
			Password:          getEnv("DB_PASSWORD", ""),
			Database:          getEnv("DB_NAME", "library"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          getEnvInt("DB_MAX_CONNECTIONS", 25),
			MinConns:          getEnvInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime:   errs.duration("DB_MAX_CONN_LIFETIME", "5m"),
			MaxConnIdleTime:   errs.duration("DB_MAX_CONN_IDLE_TIME", "1m"),
			HealthCheckPeriod: errs.duration("DB_HEALTH_CHECK_PERIOD", "1m"),
			MaxRetries:        getEnvInt("DB_MAX_RETRIES", 5),
			RetryDelay:        errs.duration("DB_RETRY_DELAY", "1s"),
			ConnectTimeout:    errs.duration("DB_CONNECT_TIMEOUT", "10s"),
			AutoMigrate:       getEnvBool("DB_AUTO_MIGRATE", true),
			TxIsolation:       getEnv("DB_TX_ISOLATION", "read committed"),
			TxMaxAttempts:     getEnvInt("DB_TX_MAX_ATTEMPTS", 6),
			TxBaseDelay:       errs.duration("DB_TX_BASE_DELAY", "10ms"),
			TxJitter:          getEnvFloat("DB_TX_JITTER", 0.3),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "library:"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 30),
		},
		Auth: AuthConfig{
			RevocationBackend: getEnv("AUTH_REVOCATION_BACKEND", RevocationMemory),
		},
		Reader: ReaderConfig{
			PhoneRegion: getEnv("READER_PHONE_REGION", "US"),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed: %w", errs[0])
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the values Load cannot safely default.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	switch c.Auth.RevocationBackend {
	case RevocationMemory, RevocationRedis:
	default:
		return fmt.Errorf("AUTH_REVOCATION_BACKEND must be %q or %q, got %q",
			RevocationMemory, RevocationRedis, c.Auth.RevocationBackend)
	}

	if c.JWT.AccessTokenExpiry <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRY must be positive")
	}
	if c.Database.TxMaxAttempts <= 0 {
		return fmt.Errorf("DB_TX_MAX_ATTEMPTS must be positive")
	}
	if c.Database.TxJitter < 0 || c.Database.TxJitter > 1 {
		return fmt.Errorf("DB_TX_JITTER must be between 0 and 1")
	}
	if len(c.Reader.PhoneRegion) != 2 {
		return fmt.Errorf("READER_PHONE_REGION must be a two letter region code")
	}

	return nil
}

// AccessTokenTTL returns the access token lifetime.
func (c JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiry) * time.Minute
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
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

func getEnvList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type durationErrors []error

func (e *durationErrors) duration(key, defaultValue string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		*e = append(*e, fmt.Errorf("invalid %s: %w", key, err))
		return 0
	}
	return d
}
