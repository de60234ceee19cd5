package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nutritrack/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Cache is a JSON cache over Redis. A Cache with a nil client is a valid
// no-op: every lookup misses and every write succeeds.
type Cache struct {
	client *redis.Client
}

// New wraps client. client may be nil when Redis is unavailable.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Client returns the underlying client, or nil.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// GetJSON decodes the value at key into dest. found is false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "get")
	defer span.End()

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.CacheRequests.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		c.client.Del(ctx, key)
		observability.CacheRequests.WithLabelValues("miss").Inc()
		return false, nil
	}
	observability.CacheRequests.WithLabelValues("hit").Inc()
	return true, nil
}

// SetJSON stores v at key for ttl.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "set")
	defer span.End()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// SetJSONNX stores v at key for ttl unless key already holds a value.
// stored is false when an existing entry was kept.
func (c *Cache) SetJSONNX(ctx context.Context, key string, v any, ttl time.Duration) (stored bool, err error) {
	if !c.Enabled() {
		return false, nil
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "setnx")
	defer span.End()

	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("cache encode %s: %w", key, err)
	}
	stored, err = c.client.SetNX(ctx, key, raw, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache setnx %s: %w", key, err)
	}
	return stored, nil
}

// setIfNewer writes KEYS[1] and its version key KEYS[2] unless the stored
// version is greater than ARGV[2].
var setIfNewer = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[2]) or "0")
if current > tonumber(ARGV[2]) then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// SetJSONVersioned stores v at key unless the entry there was written with a
// higher version. Entries filled by Aside carry no version and are always
// replaced. stored is false when a newer entry was kept.
func (c *Cache) SetJSONVersioned(ctx context.Context, key string, v any, version int64, ttl time.Duration) (stored bool, err error) {
	if !c.Enabled() {
		return false, nil
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "set_versioned")
	defer span.End()

	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("cache encode %s: %w", key, err)
	}
	n, err := setIfNewer.Run(ctx, c.client, []string{key, versionKey(key)},
		raw, version, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("cache set %s: %w", key, err)
	}
	return n == 1, nil
}

func versionKey(key string) string {
	return key + ":version"
}

// Invalidate deletes keys and their version markers.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	all := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		all = append(all, k, versionKey(k))
	}
	if err := c.client.Del(ctx, all...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Ping checks connectivity. A disabled cache reports no error.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Aside returns the cached value at key, or calls load and caches its result.
// The fill never replaces an entry written while load ran, so a slow reader
// cannot put back data older than a concurrent write-through.
// Cache failures degrade to calling load; they are never returned.
func Aside[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if found, err := c.GetJSON(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	_, _ = c.SetJSONNX(ctx, key, value, ttl)
	return value, nil
}
