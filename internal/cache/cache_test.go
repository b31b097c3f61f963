package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/larkbyte/dialectdb/internal/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, enabled bool) (*Cache, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return New(store, "test", enabled, nil), store
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, true)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte(`"v"`), "")
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `"v"`, string(got))
}

func TestCacheDependencyInvalidation(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, true)

	c.Set(ctx, "a", []byte(`1`), "dep-a")
	c.Set(ctx, "b", []byte(`2`), "dep-b")

	c.Invalidate(ctx, "dep-a")

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "entry under invalidated dependency must miss")

	got, ok := c.Get(ctx, "b")
	require.True(t, ok, "unrelated dependency must survive")
	assert.Equal(t, `2`, string(got))
}

func TestCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, true)

	c.Set(ctx, "a", []byte(`1`), "dep-a")
	c.Set(ctx, "b", []byte(`2`), "")

	c.InvalidateAll(ctx)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)

	// Entries written after the invalidation are served again.
	c.Set(ctx, "a", []byte(`3`), "dep-a")
	got, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, `3`, string(got))
}

func TestCacheDisableIsDormantNotDeleted(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, true)

	c.Set(ctx, "k", []byte(`1`), "dep")

	c.Enable(false)
	assert.False(t, c.Enabled())

	// Disabled: reads miss, writes are dropped.
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	c.Set(ctx, "k", []byte(`999`), "dep")

	// Re-enabled: the entry from before disabling is intact.
	c.Enable(true)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `1`, string(got))
}

func TestCacheInvalidateWhileDisabled(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, true)

	c.Set(ctx, "k", []byte(`1`), "dep")

	// Invalidation during the disabled window must still take effect, or a
	// dormant entry would resurface stale after a DDL change.
	c.Enable(false)
	c.Invalidate(ctx, "dep")
	c.Enable(true)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheDisabledFromConstruction(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCache(t, false)

	c.Set(ctx, "k", []byte(`1`), "")
	assert.Zero(t, store.Len(), "disabled cache must not write")
}

func TestCacheNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	schemaCache := New(store, "schema", true, nil)
	queryCache := New(store, "query", true, nil)

	schemaCache.Set(ctx, "k", []byte(`"schema"`), "dep")
	queryCache.Set(ctx, "k", []byte(`"query"`), "dep")

	got, ok := schemaCache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `"schema"`, string(got))

	// Invalidating a dependency in one namespace leaves the other alone.
	schemaCache.Invalidate(ctx, "dep")
	_, ok = schemaCache.Get(ctx, "k")
	assert.False(t, ok)

	got, ok = queryCache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `"query"`, string(got))
}

// failingStore simulates an I/O-backed store that is down.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store down")
}
func (failingStore) Set(context.Context, string, []byte) error { return errors.New("store down") }
func (failingStore) Delete(context.Context, string) error      { return errors.New("store down") }

func TestCacheStoreErrorsDegradeToMisses(t *testing.T) {
	ctx := context.Background()
	c := New(failingStore{}, "test", true, nil)

	c.Set(ctx, "k", []byte(`1`), "dep")
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	// Invalidation against a broken store must not panic either.
	c.Invalidate(ctx, "dep")
	c.InvalidateAll(ctx)
}

func TestKeys(t *testing.T) {
	assert.Equal(t,
		TableKey(dialect.MySQL, "orders"),
		TableKey(dialect.MySQL, "orders"),
		"table keys are deterministic")
	assert.NotEqual(t,
		TableKey(dialect.MySQL, "orders"),
		TableKey(dialect.Postgres, "orders"),
		"dialect participates in the fingerprint")

	assert.NotEqual(t,
		QueryKey(dialect.MySQL, "SELECT * FROM t WHERE id = ?", 1),
		QueryKey(dialect.MySQL, "SELECT * FROM t WHERE id = ?", 2),
		"bound parameters participate in the fingerprint")

	assert.NotEqual(t,
		NamesKey(dialect.MySQL, "tables", "public"),
		NamesKey(dialect.MySQL, "views", "public"))
}
