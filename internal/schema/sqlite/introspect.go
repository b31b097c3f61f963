// Package sqlite implements schema.Backend for SQLite over sqlite_master
// and the table_info/index_list/foreign_key_list PRAGMAs, backed by
// database/sql and the modernc driver.
//
// SQLite has no schema concept, so ListSchemas reports Unsupported rather
// than NotFound — callers can distinguish "engine cannot" from "nothing
// there" and fall back accordingly.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/larkbyte/dialectdb/internal/database"
	"github.com/larkbyte/dialectdb/internal/dialect"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/larkbyte/dialectdb/internal/schema"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// Backend is a SQLite implementation of schema.Backend.
type Backend struct {
	db *sql.DB
}

// New opens the SQLite database at cfg.DSN (a file path or ":memory:") and
// returns a Backend. It calls Ping to validate the handle before returning.
func New(ctx context.Context, cfg *database.Config) (*Backend, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfiguration, "invalid DSN", err)
	}

	// SQLite serializes writers; a small pool is plenty for metadata reads.
	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)

	b := &Backend{db: db}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, mapError(err, "ping failed")
	}

	return b, nil
}

// NewWithDB wraps an existing handle. Used by tests.
func NewWithDB(db *sql.DB) *Backend {
	return &Backend{db: db}
}

// Close releases the database handle.
func (b *Backend) Close() error {
	return b.db.Close()
}

// --- schema.Backend implementation ---

func (b *Backend) Dialect() dialect.Dialect {
	return dialect.SQLite
}

func (b *Backend) ListSchemas(ctx context.Context) ([]string, error) {
	return nil, errs.New(errs.ErrKindUnsupported, "sqlite has no schema concept")
}

func (b *Backend) ListTables(ctx context.Context, schemaName string) ([]string, error) {
	if schemaName != "" {
		return nil, errs.New(errs.ErrKindUnsupported, "sqlite has no schema concept")
	}
	const q = `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	return b.listNames(ctx, "failed to list tables", q)
}

func (b *Backend) ListViews(ctx context.Context, schemaName string) ([]string, error) {
	if schemaName != "" {
		return nil, errs.New(errs.ErrKindUnsupported, "sqlite has no schema concept")
	}
	const q = `
		SELECT name FROM sqlite_master
		WHERE type = 'view'
		ORDER BY name`

	return b.listNames(ctx, "failed to list views", q)
}

func (b *Backend) DescribeTable(ctx context.Context, realName string) (*schema.TableSchema, error) {
	if schemaName, _ := schema.SplitName(realName); schemaName != "" {
		return nil, errs.New(errs.ErrKindUnsupported, "sqlite has no schema concept")
	}

	ts := &schema.TableSchema{Name: realName}

	if err := b.fetchColumns(ctx, ts, realName); err != nil {
		return nil, err
	}
	if len(ts.Columns) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %q does not exist", realName)
	}
	if err := b.fetchIndexes(ctx, ts, realName); err != nil {
		return nil, err
	}
	if err := b.fetchForeignKeys(ctx, ts, realName); err != nil {
		return nil, err
	}

	return ts, nil
}

// --- introspection PRAGMAs ---

// PRAGMA statements cannot take bound parameters, so the table name is
// interpolated as a quoted identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (b *Backend) fetchColumns(ctx context.Context, ts *schema.TableSchema, table string) error {
	q := fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(table))

	rows, err := b.db.QueryContext(ctx, q)
	if err != nil {
		return mapError(err, "failed to fetch columns")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, pk    int
			name, typ  string
			notNull    bool
			defaultVal *string
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return mapError(err, "failed to scan column")
		}

		size, precision, scale := parseSize(typ)
		ts.Columns = append(ts.Columns, &schema.ColumnSchema{
			Name:       name,
			Type:       abstractType(typ, pk > 0),
			NativeType: typ,
			Nullable:   !notNull && pk == 0,
			Default:    defaultVal,
			Size:       size,
			Precision:  precision,
			Scale:      scale,
		})
		if pk > 0 {
			ts.PrimaryKey = append(ts.PrimaryKey, name)
		}
	}
	return mapIterErr(rows.Err(), "error iterating columns")
}

func (b *Backend) fetchIndexes(ctx context.Context, ts *schema.TableSchema, table string) error {
	q := fmt.Sprintf(`PRAGMA index_list(%s)`, quoteIdent(table))

	rows, err := b.db.QueryContext(ctx, q)
	if err != nil {
		return mapError(err, "failed to fetch index list")
	}

	type indexEntry struct {
		name   string
		unique bool
	}
	var indexes []indexEntry

	for rows.Next() {
		var (
			seq             int
			name, origin    string
			unique, partial bool
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return mapError(err, "failed to scan index list")
		}
		// The pk origin duplicates the primary key from table_info.
		if origin == "pk" {
			continue
		}
		indexes = append(indexes, indexEntry{name: name, unique: unique})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return mapError(err, "error iterating index list")
	}
	rows.Close()

	ts.Indexes = map[string][]string{}
	ts.Uniques = map[string][]string{}

	for _, ix := range indexes {
		columns, err := b.indexColumns(ctx, ix.name)
		if err != nil {
			return err
		}
		if ix.unique {
			ts.Uniques[ix.name] = columns
		} else {
			ts.Indexes[ix.name] = columns
		}
	}
	return nil
}

func (b *Backend) indexColumns(ctx context.Context, index string) ([]string, error) {
	q := fmt.Sprintf(`PRAGMA index_info(%s)`, quoteIdent(index))

	rows, err := b.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to fetch index columns")
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			seqno, cid int
			name       *string // nil for expression index members
		)
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, mapError(err, "failed to scan index column")
		}
		if name != nil {
			columns = append(columns, *name)
		}
	}
	return columns, mapIterErr(rows.Err(), "error iterating index columns")
}

func (b *Backend) fetchForeignKeys(ctx context.Context, ts *schema.TableSchema, table string) error {
	q := fmt.Sprintf(`PRAGMA foreign_key_list(%s)`, quoteIdent(table))

	rows, err := b.db.QueryContext(ctx, q)
	if err != nil {
		return mapError(err, "failed to fetch foreign keys")
	}
	defer rows.Close()

	ts.ForeignKeys = map[string]schema.ForeignKey{}

	for rows.Next() {
		var (
			id, seq                   int
			refTable, from            string
			to                        *string // nil when referencing the PK implicitly
			onUpdate, onDelete, match string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return mapError(err, "failed to scan foreign key")
		}

		// SQLite foreign keys are unnamed; synthesize a stable name per group.
		name := fmt.Sprintf("fk_%s_%d", table, id)
		fk := ts.ForeignKeys[name]
		fk.Name = name
		fk.RefTable = refTable
		fk.Columns = append(fk.Columns, from)
		if to != nil {
			fk.RefColumns = append(fk.RefColumns, *to)
		}
		ts.ForeignKeys[name] = fk
	}
	return mapIterErr(rows.Err(), "error iterating foreign keys")
}

func (b *Backend) listNames(ctx context.Context, msg, q string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, q)
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
	return names, mapIterErr(rows.Err(), msg)
}
