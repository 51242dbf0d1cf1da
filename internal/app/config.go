package app

import (
	"fmt"

	"github.com/dmitrymomot/galleri/core/cookie"
	"github.com/dmitrymomot/galleri/core/server"
	"github.com/dmitrymomot/galleri/core/sessiontransport"
	"github.com/dmitrymomot/galleri/integration/database/pg"
	"github.com/dmitrymomot/galleri/integration/database/redis"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// SessionStoreRedis keeps sessions in Redis instead of the storage driver.
const SessionStoreRedis = "redis"

type Config struct {
	Server  server.Config
	Cookie  cookie.Config
	Session sessiontransport.Config
	DB      pg.Config
	Redis   redis.Config

	AppName       string `env:"APP_NAME" envDefault:"galleri"`
	Env           string `env:"APP_ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	SessionStore  string `env:"SESSION_STORE" envDefault:""`
	// TemplatesDir serves templates from disk and reloads them on change.
	TemplatesDir string `env:"TEMPLATES_DIR"`
	SeedOnStart  bool   `env:"SEED_ON_START" envDefault:"false"`
	MetricsPath  string `env:"METRICS_PATH" envDefault:"/metrics"`
	BodyLimit    int64  `env:"BODY_LIMIT" envDefault:"65536"`
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the values env parsing cannot.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.StorageDriver)
	}
	switch c.SessionStore {
	case "", SessionStoreRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSessionStore, c.SessionStore)
	}
	if c.MetricsPath != "" && c.MetricsPath[0] != '/' {
		return fmt.Errorf("%w: %q", ErrInvalidMetricsPath, c.MetricsPath)
	}
	return nil
}
