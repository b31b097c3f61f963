// Package config loads schemad's YAML configuration file and applies
// environment overrides for the secrets that should not live on disk.
package config

import (
	"os"

	"github.com/larkbyte/dialectdb/internal/cache/minio"
	"github.com/larkbyte/dialectdb/internal/database"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/larkbyte/dialectdb/internal/logger"
	"go.yaml.in/yaml/v3"
)

// CacheStore selects the backing store for the metadata cache.
type CacheStore string

const (
	StoreMemory CacheStore = "memory"
	StoreMinIO  CacheStore = "minio"
)

// Config is the full schemad configuration.
type Config struct {
	Log      logger.Config   `yaml:"log"`
	Database database.Config `yaml:"database"`

	Schema struct {
		// Dialect overrides the dialect implied by the driver. Usually empty.
		Dialect       string `yaml:"dialect"`
		DefaultSchema string `yaml:"default_schema"`
		TablePrefix   string `yaml:"table_prefix"`
	} `yaml:"schema"`

	Cache struct {
		Enabled      bool         `yaml:"enabled"`
		QueryEnabled bool         `yaml:"query_enabled"`
		Store        CacheStore   `yaml:"store"`
		MinIO        minio.Config `yaml:"minio"`
	} `yaml:"cache"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// Default returns the configuration used when no file is given: an
// in-memory cache over a local sqlite database, serving on :8085.
func Default() *Config {
	cfg := &Config{}
	cfg.Log = *logger.DefaultConfig()
	cfg.Database = *database.DefaultConfig(database.DriverSQLite, ":memory:")
	cfg.Cache.Enabled = true
	cfg.Cache.Store = StoreMemory
	cfg.Server.Addr = ":8085"
	return cfg
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides (DIALECTDB_DSN, DIALECTDB_MINIO_ACCESS_KEY,
// DIALECTDB_MINIO_SECRET_KEY).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindConfiguration, "cannot read config file", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrKindConfiguration, "cannot parse config file", err)
		}
	}

	if dsn := os.Getenv("DIALECTDB_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if v := os.Getenv("DIALECTDB_MINIO_ACCESS_KEY"); v != "" {
		cfg.Cache.MinIO.AccessKey = v
	}
	if v := os.Getenv("DIALECTDB_MINIO_SECRET_KEY"); v != "" {
		cfg.Cache.MinIO.SecretKey = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverPostgres, database.DriverSQLite:
	default:
		return errs.Newf(errs.ErrKindConfiguration, "unknown database driver %q", c.Database.Driver)
	}
	switch c.Cache.Store {
	case StoreMemory:
	case StoreMinIO:
		if c.Cache.MinIO.Endpoint == "" || c.Cache.MinIO.Bucket == "" {
			return errs.New(errs.ErrKindConfiguration, "minio cache store requires endpoint and bucket")
		}
	default:
		return errs.Newf(errs.ErrKindConfiguration, "unknown cache store %q", c.Cache.Store)
	}
	if c.Database.DSN == "" {
		return errs.New(errs.ErrKindConfiguration, "database dsn is required")
	}
	return nil
}
