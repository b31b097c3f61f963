package schema

import (
	"context"

	"github.com/larkbyte/dialectdb/internal/dialect"
)

// Backend is the per-dialect introspection boundary. One implementation
// exists per engine (mysql, postgres, sqlite, …); the metadata store treats
// them uniformly and only ever sees the canonical shapes in this package.
//
// Error contract: DescribeTable returns an errs.ErrKindNotFound error for a
// missing table; the store converts it into a cached tombstone. Everything
// else propagates unchanged — no retries happen at this layer. ListSchemas
// returns errs.ErrKindUnsupported on engines without a schema concept.
type Backend interface {
	// Dialect identifies the engine this backend introspects.
	Dialect() dialect.Dialect

	// ListSchemas enumerates user-visible schema names.
	ListSchemas(ctx context.Context) ([]string, error)

	// ListTables enumerates base-table names in the given schema. An empty
	// schema means the connection's default schema.
	ListTables(ctx context.Context, schemaName string) ([]string, error)

	// ListViews enumerates view names in the given schema.
	ListViews(ctx context.Context, schemaName string) ([]string, error)

	// DescribeTable resolves the full metadata of one table or view by its
	// resolved real name (optionally schema-qualified).
	DescribeTable(ctx context.Context, realName string) (*TableSchema, error)
}
