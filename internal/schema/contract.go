package schema

import (
	"context"
	"strings"

	"github.com/larkbyte/dialectdb/internal/cache"
	"github.com/larkbyte/dialectdb/internal/dialect"
	"github.com/larkbyte/dialectdb/internal/errs"
)

// Options configures a Contract. The cache enable flags are threaded through
// construction deliberately — there is no ambient global toggle.
type Options struct {
	Dialect       dialect.Dialect
	TablePrefix   string
	DefaultSchema string
}

// Contract is the public facade of the metadata layer: name resolution,
// enumeration, table metadata lookup, quoting, bind typing, and read/write
// query classification. All methods are reentrant; the only state behind
// them is the shared cache.
type Contract struct {
	dialect       dialect.Dialect
	prefix        string
	defaultSchema string
	store         *Store
	queryCache    *cache.Cache
}

// NewContract wires a Contract over a metadata store and an optional
// query-result cache. The query cache must use a namespace disjoint from the
// schema cache's; passing nil disables query-result caching entirely.
func NewContract(opts Options, store *Store, queryCache *cache.Cache) *Contract {
	return &Contract{
		dialect:       opts.Dialect,
		prefix:        opts.TablePrefix,
		defaultSchema: opts.DefaultSchema,
		store:         store,
		queryCache:    queryCache,
	}
}

// Dialect returns the active dialect.
func (c *Contract) Dialect() dialect.Dialect {
	return c.dialect
}

// DefaultSchema returns the schema used when callers pass an empty schema name.
func (c *Contract) DefaultSchema() string {
	return c.defaultSchema
}

// ResolveTableName turns a raw table name into the real name the engine
// knows: enclosing {{ }} markers are stripped and % is replaced with the
// configured table prefix. Plain names pass through unchanged. This is a
// pure string transform and is never cached.
//
//	ResolveTableName("{{%orders}}") == "app_orders"  (prefix "app_")
func (c *Contract) ResolveTableName(name string) (string, error) {
	if strings.HasPrefix(name, "{{") && strings.HasSuffix(name, "}}") && len(name) > 4 {
		inner := name[2 : len(name)-2]
		if inner == "" || strings.ContainsAny(inner, "{}") {
			return "", errs.Newf(errs.ErrKindConfiguration, "malformed raw table name %q", name)
		}
		return strings.ReplaceAll(inner, "%", c.prefix), nil
	}
	if strings.ContainsAny(name, "{}") {
		return "", errs.Newf(errs.ErrKindConfiguration, "malformed raw table name %q", name)
	}
	return name, nil
}

// QuoteSQL rewrites the dialect-neutral [[ ]] identifier markers in sql into
// the active dialect's quoting syntax.
func (c *Contract) QuoteSQL(sql string) string {
	return dialect.Normalize(sql, c.dialect)
}

// NativeType maps an abstract column type to the active dialect's native type.
func (c *Contract) NativeType(t dialect.ColumnType) string {
	return dialect.NativeType(c.dialect, t)
}

// BindType resolves the bind-parameter type for a runtime value, used to
// pick the correct parameter type when preparing statements.
func (c *Contract) BindType(v any) dialect.BindType {
	return dialect.BindTypeOf(v)
}

// TableSchema resolves the metadata of a table by raw name. Missing tables
// return (nil, nil).
func (c *Contract) TableSchema(ctx context.Context, name string, refresh bool) (*TableSchema, error) {
	realName, err := c.ResolveTableName(name)
	if err != nil {
		return nil, err
	}
	return c.store.TableSchema(ctx, realName, refresh)
}

// TableSchemas resolves the metadata of every table in schemaName. An empty
// schemaName means the default schema.
func (c *Contract) TableSchemas(ctx context.Context, schemaName string, refresh bool) ([]*TableSchema, error) {
	return c.store.TableSchemas(ctx, c.schemaOrDefault(schemaName), refresh)
}

// UniqueIndexes returns a table's unique-index groups keyed by index name.
func (c *Contract) UniqueIndexes(ctx context.Context, name string) (map[string][]string, error) {
	realName, err := c.ResolveTableName(name)
	if err != nil {
		return nil, err
	}
	return c.store.UniqueIndexes(ctx, realName)
}

// SchemaNames enumerates the engine's schema names.
func (c *Contract) SchemaNames(ctx context.Context, refresh bool) ([]string, error) {
	return c.store.SchemaNames(ctx, refresh)
}

// TableNames enumerates base-table names in schemaName ("" = default schema).
func (c *Contract) TableNames(ctx context.Context, schemaName string, refresh bool) ([]string, error) {
	return c.store.TableNames(ctx, c.schemaOrDefault(schemaName), refresh)
}

// ViewNames enumerates view names in schemaName ("" = default schema).
func (c *Contract) ViewNames(ctx context.Context, schemaName string, refresh bool) ([]string, error) {
	return c.store.ViewNames(ctx, c.schemaOrDefault(schemaName), refresh)
}

// Refresh invalidates all cached schema metadata.
func (c *Contract) Refresh(ctx context.Context) {
	c.store.Refresh(ctx)
}

// RefreshTableSchema invalidates the cached metadata of one table by raw name.
func (c *Contract) RefreshTableSchema(ctx context.Context, name string) error {
	realName, err := c.ResolveTableName(name)
	if err != nil {
		return err
	}
	c.store.RefreshTable(ctx, realName)
	return nil
}

// SchemaCacheEnable toggles the schema-metadata cache.
func (c *Contract) SchemaCacheEnable(on bool) {
	c.store.CacheEnable(on)
}

// QueryCacheEnable toggles the query-result cache, when one is wired.
func (c *Contract) QueryCacheEnable(on bool) {
	if c.queryCache != nil {
		c.queryCache.Enable(on)
	}
}

// QueryCache exposes the query-result cache instance to the query layer.
// May be nil when result caching is not configured.
func (c *Contract) QueryCache() *cache.Cache {
	return c.queryCache
}

// readKeywords is the allow-list of leading keywords that classify a
// statement as read-only. Anything else — including statements the
// classifier cannot recognize — is conservatively a write.
var readKeywords = map[string]struct{}{
	"SELECT":   {},
	"SHOW":     {},
	"DESCRIBE": {},
	"EXPLAIN":  {},
}

// IsReadQuery classifies sql as read-only by its leading keyword, after
// stripping leading whitespace and -- / /* */ comments. The result feeds
// connection routing (read-replica selection); the only failure mode is the
// conservative "write" default.
func (c *Contract) IsReadQuery(sql string) bool {
	rest := skipLeading(sql)
	if rest == "" {
		return false
	}

	end := 0
	for end < len(rest) {
		ch := rest[end]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return false
	}

	_, ok := readKeywords[strings.ToUpper(rest[:end])]
	return ok
}

// skipLeading strips leading whitespace, -- line comments, and /* */ block
// comments. An unterminated block comment consumes the rest of the input,
// which classifies as a write.
func skipLeading(sql string) string {
	for {
		sql = strings.TrimLeft(sql, " \t\r\n")
		switch {
		case strings.HasPrefix(sql, "--"):
			if i := strings.IndexByte(sql, '\n'); i >= 0 {
				sql = sql[i+1:]
				continue
			}
			return ""
		case strings.HasPrefix(sql, "/*"):
			if i := strings.Index(sql, "*/"); i >= 0 {
				sql = sql[i+2:]
				continue
			}
			return ""
		}
		return sql
	}
}

func (c *Contract) schemaOrDefault(schemaName string) string {
	if schemaName == "" {
		return c.defaultSchema
	}
	return schemaName
}
