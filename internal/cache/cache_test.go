package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedView struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestAside_FetchesOnceThenServesFromCache(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedView) func() error {
		return func() error {
			calls++
			*dest = cachedView{Name: "Ocean View", Price: 450000}
			return nil
		}
	}

	var first cachedView
	require.NoError(t, Aside(ctx, PropertyKey(1), &first, PropertyTTL, fetch(&first)))
	var second cachedView
	require.NoError(t, Aside(ctx, PropertyKey(1), &second, PropertyTTL, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestAside_PropagatesFetchError(t *testing.T) {
	setupRedis(t)

	var dest cachedView
	err := Aside(context.Background(), PropertyKey(2), &dest, PropertyTTL, func() error {
		return errors.New("db down")
	})
	assert.EqualError(t, err, "db down")

	found, err := GetJSON(context.Background(), PropertyKey(2), &dest)
	require.NoError(t, err)
	assert.False(t, found, "failed fetches are not cached")
}

func TestAside_WithoutRedis(t *testing.T) {
	SetClient(nil)

	calls := 0
	var dest cachedView
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), PropertyKey(3), &dest, PropertyTTL, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestInvalidatePrefix(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(PropertyKey(1), "{}"))
	require.NoError(t, mr.Set(PropertyListKey(true, 0, 6), "[]"))
	require.NoError(t, mr.Set(PropertyListKey(false, 3, 0), "[]"))
	require.NoError(t, mr.Set(BlogSlugKey("hello"), "{}"))

	removed, err := InvalidatePrefix(ctx, EntityPrefix("property"))
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	assert.False(t, mr.Exists(PropertyKey(1)))
	assert.False(t, mr.Exists(PropertyListKey(false, 3, 0)))
	assert.True(t, mr.Exists(BlogSlugKey("hello")))
}

func TestInvalidatePrefix_WithoutRedis(t *testing.T) {
	SetClient(nil)
	removed, err := InvalidatePrefix(context.Background(), "views:property:")
	require.NoError(t, err)
	assert.Zero(t, removed)
}
