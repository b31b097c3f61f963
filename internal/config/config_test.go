package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/larkbyte/dialectdb/internal/database"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schemad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, StoreMemory, cfg.Cache.Store)
	assert.Equal(t, ":8085", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
  dsn: postgres://app:secret@db:5432/app
schema:
  default_schema: public
  table_prefix: app_
cache:
  enabled: true
  query_enabled: true
  store: minio
  minio:
    endpoint: minio:9000
    bucket: schema-cache
server:
  addr: ":9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, database.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://app:secret@db:5432/app", cfg.Database.DSN)
	assert.Equal(t, "public", cfg.Schema.DefaultSchema)
	assert.Equal(t, "app_", cfg.Schema.TablePrefix)
	assert.True(t, cfg.Cache.QueryEnabled)
	assert.Equal(t, StoreMinIO, cfg.Cache.Store)
	assert.Equal(t, "minio:9000", cfg.Cache.MinIO.Endpoint)
	assert.Equal(t, "schema-cache", cfg.Cache.MinIO.Bucket)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mysql
  dsn: user:pass@tcp(localhost:3306)/app
`)

	t.Setenv("DIALECTDB_DSN", "user:env@tcp(db:3306)/app")
	t.Setenv("DIALECTDB_MINIO_ACCESS_KEY", "env-access")
	t.Setenv("DIALECTDB_MINIO_SECRET_KEY", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "user:env@tcp(db:3306)/app", cfg.Database.DSN)
	assert.Equal(t, "env-access", cfg.Cache.MinIO.AccessKey)
	assert.Equal(t, "env-secret", cfg.Cache.MinIO.SecretKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, errs.IsConfiguration(err))
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "database: [not a mapping")
	_, err := Load(path)
	assert.True(t, errs.IsConfiguration(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, true},
		{"unknown store", func(c *Config) { c.Cache.Store = "redis" }, true},
		{"minio without endpoint", func(c *Config) { c.Cache.Store = StoreMinIO }, true},
		{"minio fully specified", func(c *Config) {
			c.Cache.Store = StoreMinIO
			c.Cache.MinIO.Endpoint = "minio:9000"
			c.Cache.MinIO.Bucket = "schema-cache"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.True(t, errs.IsConfiguration(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
