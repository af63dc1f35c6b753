// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"

	"identity_backend/internal/platform/courier"
	"identity_backend/internal/platform/db"
	"identity_backend/internal/platform/redis"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = db.DriverSQLite
	StorePostgres = db.DriverPostgres
	StoreBolt     = "bolt"
)

// Courier kinds.
const (
	CourierLog   = "log"
	CourierRedis = "redis"
	CourierHTTP  = "http"
)

var (
	stores   = []string{StoreMemory, StoreSQLite, StorePostgres, StoreBolt}
	couriers = []string{CourierLog, CourierRedis, CourierHTTP}
)

// Config is the full service configuration.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Store    string        `env:"STORE" envDefault:"memory"`
	BoltPath string        `env:"BOLT_PATH" envDefault:"identity.bolt"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	Courier   string `env:"COURIER" envDefault:"log"`
	OutboxKey string `env:"OUTBOX_KEY" envDefault:"identity:access_codes"`

	DB    db.Config          `envPrefix:"DB_"`
	Redis redis.Config       `envPrefix:"REDIS_"`
	SMS   courier.HTTPConfig `envPrefix:"SMS_"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Store == StoreSQLite || cfg.Store == StorePostgres {
		cfg.DB.Driver = cfg.Store
	}
	return cfg, nil
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(stores, c.Store) {
		errs = append(errs, fmt.Errorf("STORE must be one of %v, got %q", stores, c.Store))
	}
	if !slices.Contains(couriers, c.Courier) {
		errs = append(errs, fmt.Errorf("COURIER must be one of %v, got %q", couriers, c.Courier))
	}
	if c.Courier == CourierRedis && !c.Redis.Enabled() {
		errs = append(errs, errors.New("COURIER=redis requires REDIS_HOST"))
	}
	if c.Courier == CourierHTTP && c.SMS.BaseURL == "" {
		errs = append(errs, errors.New("COURIER=http requires SMS_BASE_URL"))
	}
	if c.Store == StorePostgres && c.DB.Name == "" {
		errs = append(errs, errors.New("STORE=postgres requires DB_NAME"))
	}
	return errors.Join(errs...)
}
