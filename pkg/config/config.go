package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Persist  PersistConfig
	Checkout CheckoutConfig
	Catalog  CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Persist.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"THREADLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"THREADLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"THREADLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"THREADLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver     string `envconfig:"THREADLINE_DB_DRIVER" default:"sqlite"`
	DSN        string `envconfig:"THREADLINE_DB_DSN"`
	SQLitePath string `envconfig:"THREADLINE_DB_SQLITE_PATH" default:"threadline.db"`

	MaxOpenConns    int           `envconfig:"THREADLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"THREADLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"THREADLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"THREADLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DBDriverSQLite:
		if strings.TrimSpace(db.SQLitePath) == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvDBSQLitePath)
		}
	case DBDriverPostgres:
		if strings.TrimSpace(db.DSN) == "" {
			return fmt.Errorf("%s is required for the postgres driver", EnvDBDSN)
		}
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"THREADLINE_REDIS_URL"`
	Address      string        `envconfig:"THREADLINE_REDIS_ADDR"`
	Password     string        `envconfig:"THREADLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"THREADLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"THREADLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"THREADLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"THREADLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"THREADLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"THREADLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PersistConfig selects the key-value backend used for shopper state snapshots.
type PersistConfig struct {
	Backend   string `envconfig:"THREADLINE_PERSIST_BACKEND" default:"redis"`
	FileDir   string `envconfig:"THREADLINE_PERSIST_FILE_DIR" default:".threadline-state"`
	QueueSize int    `envconfig:"THREADLINE_PERSIST_QUEUE_SIZE" default:"256"`
}

func (p PersistConfig) validate() error {
	switch p.Backend {
	case PersistBackendRedis, PersistBackendFile, PersistBackendMemory:
	default:
		return fmt.Errorf("unsupported persist backend %q", p.Backend)
	}
	if p.Backend == PersistBackendFile && strings.TrimSpace(p.FileDir) == "" {
		return fmt.Errorf("%s is required for the file backend", EnvPersistFileDir)
	}
	return nil
}

type CheckoutConfig struct {
	ShippingFlatRateCents int64 `envconfig:"THREADLINE_SHIPPING_FLAT_RATE_CENTS" default:"500"`
}

type CatalogConfig struct {
	AutoMigrate bool `envconfig:"THREADLINE_CATALOG_AUTO_MIGRATE" default:"true"`
	SeedDemo    bool `envconfig:"THREADLINE_CATALOG_SEED_DEMO" default:"false"`
}
