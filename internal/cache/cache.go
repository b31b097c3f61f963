// Package cache provides the keyed metadata cache used by the schema layer
// and by query-result caching.
//
// The cache wraps a pluggable Store (in-memory, MinIO, …) and adds dependency
// tokens with lazy invalidation: invalidating a token bumps an epoch counter,
// and entries written under the old epoch are discarded on their next read.
// Two independent Cache instances exist in a typical deployment — one for
// schema metadata and one for query results — each with its own namespace
// and enable flag.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/larkbyte/dialectdb/internal/logger"
)

// Store is the generic key/value contract cache backends implement.
// Implementations must be safe for concurrent use. A Store that can fail
// (I/O-backed) returns errors; the Cache degrades them to misses.
type Store interface {
	// Get returns the value stored under key, or ok=false when absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// allToken is the implicit dependency shared by every entry in a namespace.
// Bumping it invalidates the whole namespace without enumerating keys.
const allToken = "__all__"

// envelope is the on-store representation of one cache entry. The epochs
// recorded at write time are compared against the current epochs on read;
// any mismatch means the entry was invalidated after it was written.
type envelope struct {
	Dep      string          `json:"dep,omitempty"`
	DepEpoch uint64          `json:"dep_epoch,omitempty"`
	AllEpoch uint64          `json:"all_epoch"`
	Payload  json.RawMessage `json:"payload"`
}

// Cache wraps a Store with namespacing, dependency-based invalidation, and
// an enable flag. Disabling does not clear entries — they go dormant and
// resume serving once the cache is re-enabled, unless invalidated meanwhile.
type Cache struct {
	store   Store
	ns      string
	log     *logger.Logger
	enabled atomic.Bool
}

// New creates a Cache over store. ns isolates this instance's keys from any
// other Cache sharing the same store.
func New(store Store, ns string, enabled bool, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	c := &Cache{store: store, ns: ns, log: log}
	c.enabled.Store(enabled)
	return c
}

// Enable toggles the cache. While disabled, Get always misses and Set is a
// no-op; existing entries are left untouched.
func (c *Cache) Enable(on bool) {
	c.enabled.Store(on)
}

// Enabled reports whether the cache is currently active.
func (c *Cache) Enabled() bool {
	return c.enabled.Load()
}

// Get returns the payload stored under key, or ok=false on a miss. Stale
// entries (written before their dependency was last invalidated) and store
// errors both count as misses.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.enabled.Load() {
		return nil, false
	}

	raw, ok, err := c.store.Get(ctx, c.entryKey(key))
	if err != nil {
		c.log.WarnErr("cache store get failed, treating as miss", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.WarnErr("cache entry corrupted, treating as miss", err)
		return nil, false
	}

	if env.AllEpoch != c.epoch(ctx, allToken) {
		c.evict(ctx, key)
		return nil, false
	}
	if env.Dep != "" && env.DepEpoch != c.epoch(ctx, env.Dep) {
		c.evict(ctx, key)
		return nil, false
	}

	return env.Payload, true
}

// Set stores payload under key. An optional dependency token ties the entry
// to Invalidate(dep): entries written before an invalidation miss on their
// next read. Store failures are logged and swallowed — a cache that cannot
// write behaves like a cache that always misses.
func (c *Cache) Set(ctx context.Context, key string, payload []byte, dep string) {
	if !c.enabled.Load() {
		return
	}

	env := envelope{
		Dep:      dep,
		AllEpoch: c.epoch(ctx, allToken),
		Payload:  payload,
	}
	if dep != "" {
		env.DepEpoch = c.epoch(ctx, dep)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		c.log.WarnErr("cache entry marshal failed", err)
		return
	}
	if err := c.store.Set(ctx, c.entryKey(key), raw); err != nil {
		c.log.WarnErr("cache store set failed", err)
	}
}

// Invalidate marks all entries written under dep as stale. Eviction is lazy:
// stale entries are dropped on their next Get. Invalidation takes effect for
// every lookup issued after this call returns.
func (c *Cache) Invalidate(ctx context.Context, dep string) {
	c.bump(ctx, dep)
}

// InvalidateAll marks every entry in this namespace stale.
func (c *Cache) InvalidateAll(ctx context.Context) {
	c.bump(ctx, allToken)
}

// --- internals ---

func (c *Cache) entryKey(key string) string {
	return c.ns + "/entry/" + key
}

func (c *Cache) epochKey(dep string) string {
	return c.ns + "/epoch/" + dep
}

// epoch returns the current epoch for a dependency token. A token that was
// never invalidated — or a store that cannot be read — is epoch zero.
func (c *Cache) epoch(ctx context.Context, dep string) uint64 {
	raw, ok, err := c.store.Get(ctx, c.epochKey(dep))
	if err != nil {
		c.log.WarnErr("cache epoch read failed", err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// bump increments a dependency epoch. Invalidation must work even while the
// cache is disabled, so dormant entries cannot resurface stale after a DDL
// change; that is why bump does not check the enable flag.
func (c *Cache) bump(ctx context.Context, dep string) {
	next := c.epoch(ctx, dep) + 1
	if err := c.store.Set(ctx, c.epochKey(dep), []byte(strconv.FormatUint(next, 10))); err != nil {
		c.log.WarnErr("cache epoch write failed", err)
	}
}

func (c *Cache) evict(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, c.entryKey(key)); err != nil {
		c.log.WarnErr("cache evict failed", err)
	}
}
