// Package postgres implements schema.Backend for PostgreSQL, backed by a
// pgx connection pool. Column metadata comes from information_schema;
// constraint and index groups come from pg_catalog, which preserves the
// column pairing order information_schema loses for composite keys.
package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larkbyte/dialectdb/internal/database"
	"github.com/larkbyte/dialectdb/internal/dialect"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/larkbyte/dialectdb/internal/schema"
)

// Backend is a PostgreSQL implementation of schema.Backend.
// It is safe for concurrent use by multiple goroutines.
type Backend struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL using the provided Config and returns a
// Backend. It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Backend, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfiguration, "invalid DSN", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindBackendUnavailable, "failed to create connection pool", err)
	}

	b := &Backend{pool: pool}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, mapError(err, "ping failed")
	}

	return b, nil
}

// NewWithPool wraps an existing pool. Used by callers that manage their own
// connections.
func NewWithPool(pool *pgxpool.Pool) *Backend {
	return &Backend{pool: pool}
}

// Close drains the connection pool.
func (b *Backend) Close() {
	b.pool.Close()
}

// --- schema.Backend implementation ---

func (b *Backend) Dialect() dialect.Dialect {
	return dialect.Postgres
}

func (b *Backend) ListSchemas(ctx context.Context) ([]string, error) {
	const q = `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT LIKE 'pg\_%'
		  AND schema_name <> 'information_schema'
		ORDER BY schema_name`

	return b.listNames(ctx, "failed to list schemas", q)
}

func (b *Backend) ListTables(ctx context.Context, schemaName string) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF($1, ''), 'public')
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	return b.listNames(ctx, "failed to list tables", q, schemaName)
}

func (b *Backend) ListViews(ctx context.Context, schemaName string) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF($1, ''), 'public')
		  AND table_type   = 'VIEW'
		ORDER BY table_name`

	return b.listNames(ctx, "failed to list views", q, schemaName)
}

func (b *Backend) DescribeTable(ctx context.Context, realName string) (*schema.TableSchema, error) {
	schemaName, table := schema.SplitName(realName)
	if schemaName == "" {
		schemaName = "public"
	}

	ts := &schema.TableSchema{
		SchemaName: schemaName,
		Name:       table,
	}

	if err := b.fetchColumns(ctx, ts, schemaName, table); err != nil {
		return nil, err
	}
	if len(ts.Columns) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %q does not exist", realName)
	}
	if err := b.fetchIndexes(ctx, ts, schemaName, table); err != nil {
		return nil, err
	}
	if err := b.fetchForeignKeys(ctx, ts, schemaName, table); err != nil {
		return nil, err
	}
	if err := b.fetchChecks(ctx, ts, schemaName, table); err != nil {
		return nil, err
	}

	return ts, nil
}

// --- introspection queries ---

func (b *Backend) fetchColumns(ctx context.Context, ts *schema.TableSchema, schemaName, table string) error {
	const q = `
		SELECT column_name,
		       data_type,
		       udt_name,
		       is_nullable = 'YES',
		       column_default,
		       COALESCE(character_maximum_length, 0),
		       COALESCE(numeric_precision, 0),
		       COALESCE(numeric_scale, 0),
		       is_identity = 'YES'
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`

	rows, err := b.pool.Query(ctx, q, schemaName, table)
	if err != nil {
		return mapError(err, "failed to fetch columns")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, dataType, udtName string
			nullable, isIdentity    bool
			def                     *string
			size, precision, scale  int
		)
		if err := rows.Scan(&name, &dataType, &udtName, &nullable, &def,
			&size, &precision, &scale, &isIdentity); err != nil {
			return mapError(err, "failed to scan column")
		}

		serial := isIdentity || (def != nil && strings.HasPrefix(*def, "nextval("))

		ts.Columns = append(ts.Columns, &schema.ColumnSchema{
			Name:          name,
			Type:          abstractType(dataType, udtName, serial),
			NativeType:    nativeName(dataType, udtName),
			Nullable:      nullable,
			Default:       def,
			Size:          size,
			Precision:     precision,
			Scale:         scale,
			AutoIncrement: serial,
		})
	}
	return mapIterErr(rows.Err(), "error iterating columns")
}

// fetchIndexes reads pg_index for the primary key, unique groups, and plain
// index groups, with columns in index order.
func (b *Backend) fetchIndexes(ctx context.Context, ts *schema.TableSchema, schemaName, table string) error {
	const q = `
		SELECT i.relname,
		       ix.indisprimary,
		       ix.indisunique,
		       a.attname
		FROM pg_index ix
		JOIN pg_class t       ON t.oid  = ix.indrelid
		JOIN pg_namespace ns  ON ns.oid = t.relnamespace
		JOIN pg_class i       ON i.oid  = ix.indexrelid
		JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord) ON true
		JOIN pg_attribute a   ON a.attrelid = t.oid AND a.attnum = k.attnum
		WHERE ns.nspname = $1 AND t.relname = $2
		ORDER BY i.relname, k.ord`

	rows, err := b.pool.Query(ctx, q, schemaName, table)
	if err != nil {
		return mapError(err, "failed to fetch indexes")
	}
	defer rows.Close()

	ts.Indexes = map[string][]string{}
	ts.Uniques = map[string][]string{}

	for rows.Next() {
		var (
			name, column        string
			isPrimary, isUnique bool
		)
		if err := rows.Scan(&name, &isPrimary, &isUnique, &column); err != nil {
			return mapError(err, "failed to scan index")
		}
		switch {
		case isPrimary:
			ts.PrimaryKey = append(ts.PrimaryKey, column)
		case isUnique:
			ts.Uniques[name] = append(ts.Uniques[name], column)
		default:
			ts.Indexes[name] = append(ts.Indexes[name], column)
		}
	}
	return mapIterErr(rows.Err(), "error iterating indexes")
}

// fetchForeignKeys reads pg_constraint, pairing local and referenced columns
// by ordinality so composite keys keep their column order.
func (b *Backend) fetchForeignKeys(ctx context.Context, ts *schema.TableSchema, schemaName, table string) error {
	const q = `
		SELECT con.conname,
		       src.attname,
		       refcl.relname,
		       ref.attname
		FROM pg_constraint con
		JOIN pg_class cl      ON cl.oid  = con.conrelid
		JOIN pg_namespace ns  ON ns.oid  = cl.relnamespace
		JOIN pg_class refcl   ON refcl.oid = con.confrelid
		CROSS JOIN LATERAL unnest(con.conkey, con.confkey)
		     WITH ORDINALITY AS cols(attnum, refattnum, ord)
		JOIN pg_attribute src ON src.attrelid = con.conrelid  AND src.attnum = cols.attnum
		JOIN pg_attribute ref ON ref.attrelid = con.confrelid AND ref.attnum = cols.refattnum
		WHERE con.contype = 'f' AND ns.nspname = $1 AND cl.relname = $2
		ORDER BY con.conname, cols.ord`

	rows, err := b.pool.Query(ctx, q, schemaName, table)
	if err != nil {
		return mapError(err, "failed to fetch foreign keys")
	}
	defer rows.Close()

	ts.ForeignKeys = map[string]schema.ForeignKey{}

	for rows.Next() {
		var name, column, refTable, refColumn string
		if err := rows.Scan(&name, &column, &refTable, &refColumn); err != nil {
			return mapError(err, "failed to scan foreign key")
		}
		fk := ts.ForeignKeys[name]
		fk.Name = name
		fk.RefTable = refTable
		fk.Columns = append(fk.Columns, column)
		fk.RefColumns = append(fk.RefColumns, refColumn)
		ts.ForeignKeys[name] = fk
	}
	return mapIterErr(rows.Err(), "error iterating foreign keys")
}

func (b *Backend) fetchChecks(ctx context.Context, ts *schema.TableSchema, schemaName, table string) error {
	const q = `
		SELECT con.conname, pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class cl     ON cl.oid = con.conrelid
		JOIN pg_namespace ns ON ns.oid = cl.relnamespace
		WHERE con.contype = 'c' AND ns.nspname = $1 AND cl.relname = $2
		ORDER BY con.conname`

	rows, err := b.pool.Query(ctx, q, schemaName, table)
	if err != nil {
		return mapError(err, "failed to fetch check constraints")
	}
	defer rows.Close()

	ts.Checks = map[string]schema.Check{}

	for rows.Next() {
		var name, def string
		if err := rows.Scan(&name, &def); err != nil {
			return mapError(err, "failed to scan check constraint")
		}
		ts.Checks[name] = schema.Check{Name: name, Expression: def}
	}
	return mapIterErr(rows.Err(), "error iterating check constraints")
}

func (b *Backend) listNames(ctx context.Context, msg, q string, args ...any) ([]string, error) {
	rows, err := b.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapError(err, msg)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError(err, msg)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, msg)
	}
	return names, nil
}
