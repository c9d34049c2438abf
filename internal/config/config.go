// Package config loads service configuration from the environment.
//
// Values are read once at startup by Load. A .env file (path from
// ENV_FILE, default ".env") is loaded first when present; variables already
// set in the process environment take precedence over it. Validate reports
// every problem at once:
//
//	cfg, err := config.Load()
//	if err == nil {
//	    err = cfg.Validate()
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Ideas    IdeasConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
	Migrate   bool
}

// JWTConfig holds token settings. The server only needs the public key;
// the private key is used by the dev token tool.
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	ExpirationMins int
	Issuer         string
}

// RedisConfig holds the optional Redis connection used for the name cache
// and idempotency keys. An empty URL disables both.
type RedisConfig struct {
	URL            string
	NameCacheTTL   time.Duration
	IdempotencyTTL time.Duration
}

// NATSConfig holds the optional event bus connection. An empty URL
// disables event publishing.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

// IdeasConfig holds limits for the idea operations
type IdeasConfig struct {
	DefaultPageSize   int
	MaxPageSize       int
	OperationTimeout  time.Duration
	ToggleRetries     int
	// ReconcileInterval schedules the like count repair job; zero disables it.
	ReconcileInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	if err := loadDotenv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "ideaboard"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
			Migrate:   getBoolEnv("DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			ExpirationMins: getIntEnv("JWT_EXPIRATION_MINS", 60),
			Issuer:         getEnv("JWT_ISSUER", "ideaboard"),
		},
		Redis: RedisConfig{
			URL:            getEnv("REDIS_URL", ""),
			NameCacheTTL:   getDurationEnv("NAME_CACHE_TTL", 5*time.Minute),
			IdempotencyTTL: getDurationEnv("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "idea"),
		},
		Ideas: IdeasConfig{
			DefaultPageSize:   getIntEnv("IDEAS_DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:       getIntEnv("IDEAS_MAX_PAGE_SIZE", 100),
			OperationTimeout:  getDurationEnv("IDEAS_OPERATION_TIMEOUT", 5*time.Second),
			ToggleRetries:     getIntEnv("IDEAS_TOGGLE_RETRIES", 3),
			ReconcileInterval: getDurationEnv("IDEAS_RECONCILE_INTERVAL", 10*time.Minute),
		},
	}, nil
}

// loadDotenv populates the environment from path if the file exists.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got '%s'", c.Server.LogLevel))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	if c.JWT.PublicKeyPath == "" {
		errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required"))
	}
	if c.JWT.Issuer == "" {
		errs = append(errs, errors.New("JWT_ISSUER is required"))
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	if c.Redis.URL != "" {
		if c.Redis.NameCacheTTL <= 0 {
			errs = append(errs, errors.New("NAME_CACHE_TTL must be positive"))
		}
		if c.Redis.IdempotencyTTL <= 0 {
			errs = append(errs, errors.New("IDEMPOTENCY_TTL must be positive"))
		}
	}
	if c.NATS.URL != "" && c.NATS.SubjectPrefix == "" {
		errs = append(errs, errors.New("NATS_SUBJECT_PREFIX is required when NATS_URL is set"))
	}

	if c.Ideas.DefaultPageSize <= 0 {
		errs = append(errs, errors.New("IDEAS_DEFAULT_PAGE_SIZE must be positive"))
	}
	if c.Ideas.MaxPageSize < c.Ideas.DefaultPageSize {
		errs = append(errs, errors.New("IDEAS_MAX_PAGE_SIZE must be at least IDEAS_DEFAULT_PAGE_SIZE"))
	}
	if c.Ideas.OperationTimeout <= 0 {
		errs = append(errs, errors.New("IDEAS_OPERATION_TIMEOUT must be positive"))
	}
	if c.Ideas.ToggleRetries < 0 {
		errs = append(errs, errors.New("IDEAS_TOGGLE_RETRIES must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
