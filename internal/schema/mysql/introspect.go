// Package mysql implements schema.Backend for MySQL and MariaDB over
// information_schema, backed by database/sql and go-sql-driver.
package mysql

import (
	"context"
	"database/sql"
	"sort"

	"github.com/larkbyte/dialectdb/internal/database"
	"github.com/larkbyte/dialectdb/internal/dialect"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/larkbyte/dialectdb/internal/schema"

	_ "github.com/go-sql-driver/mysql" // register "mysql" driver
)

// Backend is a MySQL implementation of schema.Backend.
// It is safe for concurrent use by multiple goroutines.
type Backend struct {
	db *sql.DB
}

// New opens a MySQL connection pool using the provided Config and returns a
// Backend. It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Backend, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfiguration, "invalid DSN", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	b := &Backend{db: db}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, mapError(err, "ping failed")
	}

	return b, nil
}

// NewWithDB wraps an existing pool. Used by tests and by callers that manage
// their own connections.
func NewWithDB(db *sql.DB) *Backend {
	return &Backend{db: db}
}

// Close drains the connection pool.
func (b *Backend) Close() error {
	return b.db.Close()
}

// --- schema.Backend implementation ---

func (b *Backend) Dialect() dialect.Dialect {
	return dialect.MySQL
}

func (b *Backend) ListSchemas(ctx context.Context) ([]string, error) {
	const q = `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('information_schema', 'performance_schema', 'mysql', 'sys')
		ORDER BY schema_name`

	return b.listNames(ctx, "failed to list schemas", q)
}

func (b *Backend) ListTables(ctx context.Context, schemaName string) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	return b.listNames(ctx, "failed to list tables", q, schemaName)
}

func (b *Backend) ListViews(ctx context.Context, schemaName string) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_type   = 'VIEW'
		ORDER BY table_name`

	return b.listNames(ctx, "failed to list views", q, schemaName)
}

func (b *Backend) DescribeTable(ctx context.Context, realName string) (*schema.TableSchema, error) {
	schemaName, table := schema.SplitName(realName)

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
		       column_type,
		       data_type,
		       is_nullable = 'YES',
		       column_default,
		       COALESCE(character_maximum_length, 0),
		       COALESCE(numeric_precision, 0),
		       COALESCE(numeric_scale, 0),
		       column_key,
		       extra
		FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_name   = ?
		ORDER BY ordinal_position`

	rows, err := b.db.QueryContext(ctx, q, schemaName, table)
	if err != nil {
		return mapError(err, "failed to fetch columns")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			col                  schema.ColumnSchema
			columnType, dataType string
			columnKey, extra     string
		)
		if err := rows.Scan(&col.Name, &columnType, &dataType, &col.Nullable,
			&col.Default, &col.Size, &col.Precision, &col.Scale, &columnKey, &extra); err != nil {
			return mapError(err, "failed to scan column")
		}

		col.NativeType = columnType
		col.AutoIncrement = extra == "auto_increment"
		col.Type = abstractType(dataType, columnType, columnKey == "PRI", col.AutoIncrement)

		if columnKey == "PRI" {
			ts.PrimaryKey = append(ts.PrimaryKey, col.Name)
		}
		ts.Columns = append(ts.Columns, &col)
	}
	if err := rows.Err(); err != nil {
		return mapError(err, "error iterating columns")
	}
	return nil
}

func (b *Backend) fetchIndexes(ctx context.Context, ts *schema.TableSchema, schemaName, table string) error {
	const q = `
		SELECT index_name, non_unique, column_name
		FROM information_schema.statistics
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_name   = ?
		ORDER BY index_name, seq_in_index`

	rows, err := b.db.QueryContext(ctx, q, schemaName, table)
	if err != nil {
		return mapError(err, "failed to fetch indexes")
	}
	defer rows.Close()

	ts.Indexes = map[string][]string{}
	ts.Uniques = map[string][]string{}

	for rows.Next() {
		var (
			name, column string
			nonUnique    bool
		)
		if err := rows.Scan(&name, &nonUnique, &column); err != nil {
			return mapError(err, "failed to scan index")
		}
		// The PRIMARY index duplicates the primary-key column set.
		if name == "PRIMARY" {
			continue
		}
		if nonUnique {
			ts.Indexes[name] = append(ts.Indexes[name], column)
		} else {
			ts.Uniques[name] = append(ts.Uniques[name], column)
		}
	}
	return mapError(rows.Err(), "error iterating indexes")
}

func (b *Backend) fetchForeignKeys(ctx context.Context, ts *schema.TableSchema, schemaName, table string) error {
	const q = `
		SELECT constraint_name,
		       column_name,
		       referenced_table_name,
		       referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema           = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_name             = ?
		  AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position`

	rows, err := b.db.QueryContext(ctx, q, schemaName, table)
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
	return mapError(rows.Err(), "error iterating foreign keys")
}

func (b *Backend) fetchChecks(ctx context.Context, ts *schema.TableSchema, schemaName, table string) error {
	// check_constraints exists from MySQL 8.0.16; older servers report the
	// table as missing, which simply means "no checks".
	const q = `
		SELECT tc.constraint_name, cc.check_clause
		FROM information_schema.table_constraints tc
		JOIN information_schema.check_constraints cc
		  ON tc.constraint_schema = cc.constraint_schema
		 AND tc.constraint_name   = cc.constraint_name
		WHERE tc.table_schema     = COALESCE(NULLIF(?, ''), DATABASE())
		  AND tc.table_name       = ?
		  AND tc.constraint_type  = 'CHECK'
		ORDER BY tc.constraint_name`

	rows, err := b.db.QueryContext(ctx, q, schemaName, table)
	if err != nil {
		mapped := mapError(err, "failed to fetch check constraints")
		if errs.IsNotFound(mapped) {
			return nil
		}
		return mapped
	}
	defer rows.Close()

	ts.Checks = map[string]schema.Check{}

	for rows.Next() {
		var name, clause string
		if err := rows.Scan(&name, &clause); err != nil {
			return mapError(err, "failed to scan check constraint")
		}
		ts.Checks[name] = schema.Check{Name: name, Expression: clause}
	}
	return mapError(rows.Err(), "error iterating check constraints")
}

func (b *Backend) listNames(ctx context.Context, msg, q string, args ...any) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, q, args...)
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
	sort.Strings(names)
	return names, nil
}
