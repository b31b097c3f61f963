package schema

import (
	"context"
	"encoding/json"

	"github.com/larkbyte/dialectdb/internal/cache"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/larkbyte/dialectdb/internal/logger"
)

// Store mediates between the contract facade and a per-dialect introspection
// backend, caching everything the backend resolves. It holds no mutable
// state of its own beyond the cache's enable flag: concurrent refresh and
// lookup race as last-write-wins, which is safe because TableSchema values
// are immutable once constructed and re-introspection is idempotent.
type Store struct {
	backend Backend
	cache   *cache.Cache
	log     *logger.Logger
}

// NewStore creates a metadata store over backend, caching through c.
func NewStore(backend Backend, c *cache.Cache, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{backend: backend, cache: c, log: log}
}

// TableSchema resolves the metadata of one table by its resolved real name.
// It returns (nil, nil) for a table that does not exist; the miss is cached
// as a tombstone so repeated lookups of a missing table hit the backend at
// most once. refresh bypasses the cache read and re-introspects.
func (s *Store) TableSchema(ctx context.Context, realName string, refresh bool) (*TableSchema, error) {
	key := cache.TableKey(s.backend.Dialect(), realName)
	dep := cache.TableDep(realName)

	if !refresh {
		if payload, ok := s.cache.Get(ctx, key); ok {
			var lu Lookup
			if err := json.Unmarshal(payload, &lu); err == nil {
				switch lu.State {
				case LookupPresent:
					return lu.Table, nil
				case LookupAbsent:
					return nil, nil
				}
			}
			// Undecodable entry: fall through to the backend.
		}
	}

	ts, err := s.backend.DescribeTable(ctx, realName)
	if err != nil {
		if errs.IsNotFound(err) {
			s.storeLookup(ctx, key, dep, Lookup{State: LookupAbsent})
			return nil, nil
		}
		return nil, err
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}

	s.storeLookup(ctx, key, dep, Lookup{State: LookupPresent, Table: ts})
	return ts, nil
}

// TableSchemas resolves the metadata of every table in schemaName, in the
// enumeration order the backend reports. Tables that vanish between the
// enumeration and their individual introspection are omitted; the first
// unrecoverable backend error aborts the batch.
func (s *Store) TableSchemas(ctx context.Context, schemaName string, refresh bool) ([]*TableSchema, error) {
	names, err := s.TableNames(ctx, schemaName, refresh)
	if err != nil {
		return nil, err
	}

	schemas := make([]*TableSchema, 0, len(names))
	for _, name := range names {
		ts, err := s.TableSchema(ctx, qualify(schemaName, name), refresh)
		if err != nil {
			return nil, err
		}
		if ts == nil {
			s.log.Debugf("table %s disappeared during batch introspection, skipping", name)
			continue
		}
		schemas = append(schemas, ts)
	}
	return schemas, nil
}

// UniqueIndexes returns the unique-index groups of a table, keyed by index
// name. The groups come from the already-resolved TableSchema — a cached
// table never triggers a second backend round-trip.
func (s *Store) UniqueIndexes(ctx context.Context, realName string) (map[string][]string, error) {
	ts, err := s.TableSchema(ctx, realName, false)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %q does not exist", realName)
	}

	uniques := make(map[string][]string, len(ts.Uniques))
	for name, cols := range ts.Uniques {
		group := make([]string, len(cols))
		copy(group, cols)
		uniques[name] = group
	}
	return uniques, nil
}

// SchemaNames enumerates schema names, cached until the next Refresh.
func (s *Store) SchemaNames(ctx context.Context, refresh bool) ([]string, error) {
	return s.names(ctx, "schemas", "", refresh, s.backend.ListSchemas)
}

// TableNames enumerates base-table names in schemaName, cached until the
// next Refresh.
func (s *Store) TableNames(ctx context.Context, schemaName string, refresh bool) ([]string, error) {
	return s.names(ctx, "tables", schemaName, refresh, func(ctx context.Context) ([]string, error) {
		return s.backend.ListTables(ctx, schemaName)
	})
}

// ViewNames enumerates view names in schemaName, cached until the next Refresh.
func (s *Store) ViewNames(ctx context.Context, schemaName string, refresh bool) ([]string, error) {
	return s.names(ctx, "views", schemaName, refresh, func(ctx context.Context) ([]string, error) {
		return s.backend.ListViews(ctx, schemaName)
	})
}

// Refresh invalidates every cached schema entry — tables, tombstones, and
// name enumerations. The next access of any table re-introspects. The
// invalidation is visible to all lookups issued after Refresh returns.
func (s *Store) Refresh(ctx context.Context) {
	s.cache.InvalidateAll(ctx)
}

// RefreshTable invalidates only the entries depending on one table's
// resolved real name.
func (s *Store) RefreshTable(ctx context.Context, realName string) {
	s.cache.Invalidate(ctx, cache.TableDep(realName))
}

// CacheEnable toggles the schema-scoped cache. Disabling leaves existing
// entries dormant rather than deleting them.
func (s *Store) CacheEnable(on bool) {
	s.cache.Enable(on)
}

// --- internals ---

func (s *Store) names(ctx context.Context, kind, schemaName string, refresh bool, list func(context.Context) ([]string, error)) ([]string, error) {
	key := cache.NamesKey(s.backend.Dialect(), kind, schemaName)

	if !refresh {
		if payload, ok := s.cache.Get(ctx, key); ok {
			var names []string
			if err := json.Unmarshal(payload, &names); err == nil {
				return names, nil
			}
		}
	}

	names, err := list(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(names); err == nil {
		s.cache.Set(ctx, key, payload, cache.NamesDep)
	}
	return names, nil
}

func (s *Store) storeLookup(ctx context.Context, key, dep string, lu Lookup) {
	payload, err := json.Marshal(lu)
	if err != nil {
		s.log.WarnErr("table lookup marshal failed, skipping cache write", err)
		return
	}
	s.cache.Set(ctx, key, payload, dep)
}

func qualify(schemaName, table string) string {
	if schemaName == "" {
		return table
	}
	return schemaName + "." + table
}
