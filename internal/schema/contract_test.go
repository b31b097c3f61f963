package schema

import (
	"context"
	"testing"

	"github.com/larkbyte/dialectdb/internal/cache"
	"github.com/larkbyte/dialectdb/internal/dialect"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContract(t *testing.T) (*Contract, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	store := NewStore(backend, cache.New(cache.NewMemoryStore(), "schema", true, nil), nil)
	queryCache := cache.New(cache.NewMemoryStore(), "query", true, nil)
	contract := NewContract(Options{
		Dialect:     backend.Dialect(),
		TablePrefix: "app_",
	}, store, queryCache)
	return contract, backend
}

func TestResolveTableName(t *testing.T) {
	contract, _ := newTestContract(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name passes through", "users", "users"},
		{"braces stripped", "{{users}}", "users"},
		{"percent replaced with prefix", "{{%orders}}", "app_orders"},
		{"qualified raw name", "{{app.%orders}}", "app.app_orders"},
		{"bare percent untouched outside markers", "100%", "100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := contract.ResolveTableName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTableNameMalformed(t *testing.T) {
	contract, _ := newTestContract(t)

	for _, in := range []string{"{{}}", "{{a{b}}", "users}}", "{{users", "us{ers"} {
		_, err := contract.ResolveTableName(in)
		assert.True(t, errs.IsConfiguration(err), "input %q", in)
	}
}

func TestContractTableSchemaResolvesRawName(t *testing.T) {
	ctx := context.Background()
	contract, backend := newTestContract(t)

	backend.tables["app_orders"] = &TableSchema{
		Name:    "app_orders",
		Columns: []*ColumnSchema{{Name: "id", Type: dialect.TypePK, NativeType: "int"}},
	}

	ts, err := contract.TableSchema(ctx, "{{%orders}}", false)
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Equal(t, "app_orders", ts.Name)

	_, err = contract.TableSchema(ctx, "{{bad{name}}", false)
	assert.True(t, errs.IsConfiguration(err))
}

func TestContractQuoteSQL(t *testing.T) {
	contract, _ := newTestContract(t)
	assert.Equal(t, "SELECT `id` FROM `users`", contract.QuoteSQL("SELECT [[id]] FROM [[users]]"))
}

func TestContractNativeAndBindTypes(t *testing.T) {
	contract, _ := newTestContract(t)

	assert.Equal(t, "tinyint(1)", contract.NativeType(dialect.TypeBoolean))
	assert.Equal(t, dialect.BindInt, contract.BindType(7))
	assert.Equal(t, dialect.BindNull, contract.BindType(nil))
	assert.Equal(t, dialect.BindBytes, contract.BindType([]byte("x")))
}

func TestIsReadQuery(t *testing.T) {
	contract, _ := newTestContract(t)

	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT * FROM t", true},
		{"select 1", true},
		{"  \t\nSELECT 1", true},
		{"-- comment\nSELECT 1", true},
		{"/* multi\nline */ EXPLAIN SELECT 1", true},
		{"SHOW TABLES", true},
		{"DESCRIBE users", true},
		{"UPDATE t SET x = 1", false},
		{"INSERT INTO t VALUES (1)", false},
		{"DELETE FROM t", false},
		{"WITH cte AS (SELECT 1) SELECT * FROM cte", false},
		{"", false},
		{"   ", false},
		{"-- only a comment", false},
		{"/* unterminated SELECT 1", false},
		{"(SELECT 1)", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, contract.IsReadQuery(tt.sql), "sql %q", tt.sql)
	}
}

func TestContractRefreshTableSchema(t *testing.T) {
	ctx := context.Background()
	contract, backend := newTestContract(t)

	_, err := contract.TableSchema(ctx, "users", false)
	require.NoError(t, err)

	require.NoError(t, contract.RefreshTableSchema(ctx, "users"))

	_, err = contract.TableSchema(ctx, "users", false)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.describeCalls["users"])

	err = contract.RefreshTableSchema(ctx, "{{bad{name}}")
	assert.True(t, errs.IsConfiguration(err))
}

func TestContractDefaultSchema(t *testing.T) {
	backend := newFakeBackend()
	store := NewStore(backend, cache.New(cache.NewMemoryStore(), "schema", true, nil), nil)
	contract := NewContract(Options{
		Dialect:       backend.Dialect(),
		DefaultSchema: "app",
	}, store, nil)

	assert.Equal(t, "app", contract.DefaultSchema())

	// nil query cache: toggling must not panic.
	contract.QueryCacheEnable(true)
	assert.Nil(t, contract.QueryCache())
}
