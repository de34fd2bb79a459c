// Package config loads service configuration from the environment.
// Every knob has a working default so a bare `go run` serves quotes;
// PRICING_CONFIG is the one escape hatch for shipping new rate tables
// without a rebuild.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/selekti/landedcost/internal/pricing"
)

type Config struct {
	Server  ServerConfig
	Fetch   FetchConfig
	Cache   CacheConfig
	Redis   RedisConfig
	Logging LoggingConfig

	// DatabaseURL enables the quote log when set.
	DatabaseURL string
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type FetchConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

type CacheConfig struct {
	Size int
	TTL  time.Duration
}

type RedisConfig struct {
	// Addr switches the quote cache from in-process LRU to Redis.
	Addr     string
	Password string
	DB       int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:      getEnvDuration("FETCH_TIMEOUT", 8*time.Second),
			UserAgent:    getEnv("FETCH_USER_AGENT", ""),
			MaxBodyBytes: int64(getEnvInt("FETCH_MAX_BODY_BYTES", 2<<20)),
		},
		Cache: CacheConfig{
			Size: getEnvInt("CACHE_SIZE", 512),
			TTL:  getEnvDuration("CACHE_TTL", 15*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		DatabaseURL: getEnv("DATABASE_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size must not be negative")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// LoadPricing returns the pricing tables: the built-in snapshot, or the
// JSON document named by PRICING_CONFIG when set. A file that exists but
// does not validate is an error, not a silent fallback.
func LoadPricing() (*pricing.Config, error) {
	path := getEnv("PRICING_CONFIG", "")
	if path == "" {
		return pricing.DefaultConfig(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing config: %w", err)
	}
	var cfg pricing.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse pricing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pricing config %s: %w", path, err)
	}
	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
