package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Total float64 `json:"total"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestCache_SetGetInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := SummaryKey(3, "2024-01-02")
	assert.Equal(t, "summary:3:2024-01-02", key)

	require.NoError(t, c.SetJSON(ctx, key, payload{Total: 12.5}, time.Minute))
	assert.True(t, mr.Exists(key))

	var got payload
	found, err := c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 12.5, got.Total)

	require.NoError(t, c.Invalidate(ctx, key))
	found, err = c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var got payload
	found, err := c.GetJSON(context.Background(), "bad", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("bad"))
}

func TestCache_TTLExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, "k", payload{Total: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got payload
	found, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAside(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) (payload, error) {
		calls++
		return payload{Total: 7}, nil
	}

	first, err := Aside(ctx, c, "aside", time.Minute, load)
	require.NoError(t, err)
	second, err := Aside(ctx, c, "aside", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestAside_LoadErrorNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	_, err := Aside(context.Background(), c, "fails", time.Minute, func(context.Context) (payload, error) {
		return payload{}, errors.New("db down")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("fails"))
}

func TestAside_KeepsEntryWrittenDuringLoad(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	got, err := Aside(ctx, c, "raced", time.Minute, func(ctx context.Context) (payload, error) {
		_, err := c.SetJSONVersioned(ctx, "raced", payload{Total: 9}, 5, time.Minute)
		require.NoError(t, err)
		return payload{Total: 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.Total)

	var cached payload
	found, err := c.GetJSON(ctx, "raced", &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 9.0, cached.Total)
}

func TestCache_SetJSONVersioned(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	read := func() float64 {
		var p payload
		found, err := c.GetJSON(ctx, "v", &p)
		require.NoError(t, err)
		require.True(t, found)
		return p.Total
	}

	// An unversioned fill is always replaced.
	stored, err := c.SetJSONNX(ctx, "v", payload{Total: 1}, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)
	stored, err = c.SetJSONVersioned(ctx, "v", payload{Total: 2}, 20, time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)

	tests := []struct {
		name    string
		version int64
		stored  bool
		want    float64
	}{
		{"older dropped", 10, false, 2},
		{"same version replaces", 20, true, 3},
		{"newer replaces", 30, true, 4},
	}
	for i, tt := range tests {
		stored, err := c.SetJSONVersioned(ctx, "v", payload{Total: float64(i + 3)}, tt.version, time.Minute)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.stored, stored, tt.name)
		assert.Equal(t, tt.want, read(), tt.name)
	}

	stored, err = c.SetJSONNX(ctx, "v", payload{Total: 99}, time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.Equal(t, 4.0, read())

	assert.Equal(t, time.Minute, mr.TTL("v"))
	assert.Equal(t, time.Minute, mr.TTL("v:version"))

	require.NoError(t, c.Invalidate(ctx, "v"))
	assert.False(t, mr.Exists("v:version"))
	stored, err = c.SetJSONVersioned(ctx, "v", payload{Total: 5}, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestCache_DisabledIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	assert.False(t, c.Enabled())
	assert.NoError(t, c.SetJSON(ctx, "k", payload{}, time.Minute))
	found, err := c.GetJSON(ctx, "k", &payload{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Invalidate(ctx, "k"))
	stored, err := c.SetJSONNX(ctx, "k", payload{}, time.Minute)
	assert.NoError(t, err)
	assert.False(t, stored)
	stored, err = c.SetJSONVersioned(ctx, "k", payload{}, 1, time.Minute)
	assert.NoError(t, err)
	assert.False(t, stored)
	assert.NoError(t, New(nil).Ping(ctx))
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = Connect(context.Background(), "redis://%%bad")
	assert.Error(t, err)
}

func TestParseOptions_BareAddress(t *testing.T) {
	opts, err := ParseOptions("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
}

func TestCatalogKeys(t *testing.T) {
	assert.Equal(t, []string{FoodCatalogKey, ExerciseCatalogKey}, CatalogKeys())
	assert.Equal(t,
		[]string{"catalog:foods", "catalog:exercises", "catalog:exercises:cardio", "catalog:exercises:strength"},
		CatalogKeys("cardio", "strength"))
}
