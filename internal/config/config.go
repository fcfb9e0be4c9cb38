package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the CRM API server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Identity IdentityConfig
}

type ServerConfig struct {
	Port              int
	Env               string
	RequestsPerMinute int
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// IdentityConfig configures the external identity/membership provider.
// SessionCacheTTL bounds how long a resolved identity may be served from
// cache before the provider is consulted again.
type IdentityConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	SessionCacheTTL time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              envInt("CRMCORE_PORT", 8080),
			Env:               envString("CRMCORE_ENV", "development"),
			RequestsPerMinute: envInt("CRMCORE_RATE_LIMIT_PER_MIN", 120),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Identity: IdentityConfig{
			BaseURL:         os.Getenv("IDENTITY_BASE_URL"),
			APIKey:          os.Getenv("IDENTITY_API_KEY"),
			Timeout:         envDuration("IDENTITY_TIMEOUT", 10*time.Second),
			SessionCacheTTL: envDuration("IDENTITY_SESSION_CACHE_TTL", 60*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Identity.BaseURL == "" {
		return fmt.Errorf("IDENTITY_BASE_URL is required")
	}
	if !strings.HasPrefix(c.Identity.BaseURL, "http://") && !strings.HasPrefix(c.Identity.BaseURL, "https://") {
		return fmt.Errorf("IDENTITY_BASE_URL must start with http:// or https://, got %q", c.Identity.BaseURL)
	}
	if c.Identity.APIKey == "" {
		return fmt.Errorf("IDENTITY_API_KEY is required")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
