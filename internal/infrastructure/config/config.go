// Package config loads the service configuration from NAPO_ prefixed
// environment variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "NAPO_"

// Config holds all configuration for the application
type Config struct {
	// App
	Env   string `koanf:"env" validate:"required"`
	Debug bool   `koanf:"debug"`

	// Server
	Port               string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"required"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"required"`
	CORSAllowedOrigins string        `koanf:"cors_allowed_origins" validate:"required"`

	// Database
	DBDriver           string        `koanf:"db_driver" validate:"oneof=postgres sqlite"`
	DatabaseURL        string        `koanf:"database_url" validate:"required"`
	DBPoolSize         int           `koanf:"db_pool_size" validate:"min=1"`
	DBMaxOverflow      int           `koanf:"db_max_overflow" validate:"min=0"`
	DBPoolRecycle      time.Duration `koanf:"db_pool_recycle" validate:"required"`
	DBPoolTimeout      time.Duration `koanf:"db_pool_timeout" validate:"required"`
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`

	// MongoDB audit trail, disabled when MongoURI is empty
	MongoURI string `koanf:"mongo_uri"`
	MongoDB  string `koanf:"mongo_db" validate:"required_with=MongoURI"`

	// Redis distance cache, disabled when RedisAddr is empty
	RedisAddr        string        `koanf:"redis_addr"`
	DistanceCacheTTL time.Duration `koanf:"distance_cache_ttl" validate:"required_with=RedisAddr"`

	// Observability
	LogLevel         string `koanf:"log_level" validate:"oneof=debug info warn error"`
	MetricsNamespace string `koanf:"metrics_namespace" validate:"required"`
}

// Default returns the configuration used when no environment overrides are set
func Default() *Config {
	return &Config{
		Env:                "development",
		Port:               "8080",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		CORSAllowedOrigins: "http://localhost:3200",
		DBDriver:           "postgres",
		DatabaseURL:        "postgres://localhost:5432/napo?sslmode=disable",
		DBPoolSize:         5,
		DBMaxOverflow:      10,
		DBPoolRecycle:      300 * time.Second,
		DBPoolTimeout:      30 * time.Second,
		SlowQueryThreshold: 200 * time.Millisecond,
		MongoDB:            "napo",
		DistanceCacheTTL:   10 * time.Minute,
		LogLevel:           "info",
		MetricsNamespace:   "napo",
	}
}

// LoadConfig loads configuration from environment variables on top of the defaults
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// AllowedOrigins splits the CORS origin list
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// MaxOpenConns is the pool size plus the allowed overflow
func (c *Config) MaxOpenConns() int {
	return c.DBPoolSize + c.DBMaxOverflow
}

// MongoEnabled reports whether the audit trail store is configured
func (c *Config) MongoEnabled() bool {
	return c.MongoURI != ""
}

// RedisEnabled reports whether the distance cache is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
