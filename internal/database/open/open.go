package open

import (
	"context"

	"github.com/larkbyte/dialectdb/internal/database"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/larkbyte/dialectdb/internal/schema"
	"github.com/larkbyte/dialectdb/internal/schema/mysql"
	"github.com/larkbyte/dialectdb/internal/schema/postgres"
	"github.com/larkbyte/dialectdb/internal/schema/sqlite"
)

// Open connects to the engine named by cfg.Driver and returns its
// introspection backend. Backends for dialects without bundled drivers
// (oracle, sqlserver) are supplied by the surrounding system and
// constructed directly, not through this factory.
func Open(ctx context.Context, cfg *database.Config) (schema.Backend, func() error, error) {
	switch cfg.Driver {
	case database.DriverMySQL:
		b, err := mysql.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case database.DriverPostgres:
		b, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return b, func() error { b.Close(); return nil }, nil
	case database.DriverSQLite:
		b, err := sqlite.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	}
	return nil, nil, errs.Newf(errs.ErrKindConfiguration, "unknown driver %q", cfg.Driver)
}
