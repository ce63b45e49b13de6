package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStoreForTest(t *testing.T) Store {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return NewRedisStore(client)
}

func TestRedisStoreGenerationGuard(t *testing.T) {
	store := newRedisStoreForTest(t)
	ctx := context.Background()
	key := "test-" + ulid.Make().String()

	gen, err := store.Generation(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, gen)

	stored, err := store.SetIfGeneration(ctx, key, gen, []byte(`[1]`), time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)

	data, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[1]`, string(data))

	require.NoError(t, store.Invalidate(ctx, key))

	_, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err = store.SetIfGeneration(ctx, key, gen, []byte(`[2]`), time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
}
