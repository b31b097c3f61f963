// Package schema owns the canonical table metadata model, the caching
// metadata store, and the contract facade callers use to inspect a database
// without knowing which engine backs it.
package schema

import (
	"strings"

	"github.com/larkbyte/dialectdb/internal/dialect"
	"github.com/larkbyte/dialectdb/internal/errs"
)

// ColumnSchema describes a single column in a table or view.
type ColumnSchema struct {
	Name string `json:"name"`

	// Type is the dialect-neutral abstract type; NativeType is the engine's
	// declared type as reported by the catalog.
	Type       dialect.ColumnType `json:"type"`
	NativeType string             `json:"native_type"`

	Nullable      bool    `json:"nullable"`
	Default       *string `json:"default,omitempty"` // nil when no default declared
	Size          int     `json:"size,omitempty"`    // char length for character types
	Precision     int     `json:"precision,omitempty"`
	Scale         int     `json:"scale,omitempty"`
	AutoIncrement bool    `json:"auto_increment,omitempty"`
}

// ForeignKey describes one foreign-key constraint: the local columns and the
// referenced table/columns, pairwise ordered.
type ForeignKey struct {
	Name       string   `json:"name"`
	Columns    []string `json:"columns"`
	RefTable   string   `json:"ref_table"`
	RefColumns []string `json:"ref_columns"`
}

// Check describes one check constraint.
type Check struct {
	Name       string   `json:"name"`
	Columns    []string `json:"columns,omitempty"`
	Expression string   `json:"expression"`
}

// Default describes a named default-value constraint (SQL Server style;
// other engines report defaults inline on the column).
type Default struct {
	Name   string `json:"name"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// TableSchema is the canonical representation of one table or view,
// assembled by an introspection backend and stored immutably in the cache.
// Refresh replaces the cached instance — nothing mutates one in place, so a
// concurrent reader never observes a half-updated schema.
type TableSchema struct {
	SchemaName string `json:"schema_name,omitempty"`
	Name       string `json:"name"`

	// Columns preserves the engine's declared column order.
	Columns []*ColumnSchema `json:"columns"`

	PrimaryKey []string `json:"primary_key,omitempty"`

	// Constraint groups, each keyed by constraint name.
	ForeignKeys map[string]ForeignKey `json:"foreign_keys,omitempty"`
	Indexes     map[string][]string   `json:"indexes,omitempty"`
	Uniques     map[string][]string   `json:"uniques,omitempty"`
	Checks      map[string]Check      `json:"checks,omitempty"`
	Defaults    map[string]Default    `json:"defaults,omitempty"`
}

// FullName returns the schema-qualified name, or the bare name when the
// table lives in the default schema.
func (t *TableSchema) FullName() string {
	if t.SchemaName == "" {
		return t.Name
	}
	return t.SchemaName + "." + t.Name
}

// Column returns the named column, or nil when the table has none by that name.
func (t *TableSchema) Column(name string) *ColumnSchema {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ColumnNames returns the column names in declared order.
func (t *TableSchema) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate enforces the structural invariants every backend must satisfy:
// column names are unique within the table, and primary-key columns are a
// subset of the declared columns. A backend returning a schema that fails
// validation is treated as malformed, not as a caller error.
func (t *TableSchema) Validate() error {
	if t.Name == "" {
		return errs.New(errs.ErrKindBackendUnavailable, "table schema has no name")
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return errs.Newf(errs.ErrKindBackendUnavailable, "table %s has an unnamed column", t.FullName())
		}
		if _, dup := seen[c.Name]; dup {
			return errs.Newf(errs.ErrKindBackendUnavailable, "table %s has duplicate column %q", t.FullName(), c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	for _, pk := range t.PrimaryKey {
		if _, ok := seen[pk]; !ok {
			return errs.Newf(errs.ErrKindBackendUnavailable, "table %s primary key references unknown column %q", t.FullName(), pk)
		}
	}
	return nil
}

// LookupState distinguishes "confirmed absent" from "not yet queried" so a
// cached tombstone never reads as an empty result.
type LookupState int

const (
	LookupUnknown LookupState = iota
	LookupPresent
	LookupAbsent
)

// Lookup is the cached resolution of one table name: either the schema, or
// a tombstone recording that the table was confirmed missing.
type Lookup struct {
	State LookupState  `json:"state"`
	Table *TableSchema `json:"table,omitempty"`
}

// SplitName separates a possibly schema-qualified name into its schema and
// table parts. Names without a dot have an empty schema part.
func SplitName(name string) (schemaName, table string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
