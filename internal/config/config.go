package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config defines booking service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"BOOKING_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"BOOKING_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"BOOKING_REDIS_ADDR"`
		Password string `yaml:"password" env:"BOOKING_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"BOOKING_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"BOOKING_REDIS_TTL"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret" env:"BOOKING_JWT_SECRET"`
	} `yaml:"auth"`
	Jobs struct {
		AutoCompleteSpec string `yaml:"autoCompleteSpec" env:"BOOKING_JOB_AUTOCOMPLETE_SPEC"`
		ReconcileSpec    string `yaml:"reconcileSpec" env:"BOOKING_JOB_RECONCILE_SPEC"`
		StalePendingSpec string `yaml:"stalePendingSpec" env:"BOOKING_JOB_STALE_PENDING_SPEC"`
	} `yaml:"jobs"`
}

// Load reads configuration via the shared loader and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8084"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 60
	cfg.Jobs.AutoCompleteSpec = "* * * * *"
	cfg.Jobs.ReconcileSpec = "*/10 * * * *"
	cfg.Jobs.StalePendingSpec = "*/5 * * * *"

	if err := loadInto(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8084"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// SnapshotTTL returns the station cache ttl as duration.
func (c *Config) SnapshotTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return time.Minute
	}
	return time.Duration(c.Redis.TTL) * time.Second
}
