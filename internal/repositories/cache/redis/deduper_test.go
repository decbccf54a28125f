package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "github.com/SscSPs/finance_tracker/internal/repositories/cache/redis"
)

func setupDeduper(t *testing.T) *cache.Deduper {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Skipping test: Redis not available")
	}
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewDeduper(client)
}

func TestDeduper_ClaimOnce(t *testing.T) {
	d := setupDeduper(t)
	ctx := context.Background()

	first, err := d.Claim(ctx, "reminder:r1:1700000000", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := d.Claim(ctx, "reminder:r1:1700000000", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	other, err := d.Claim(ctx, "reminder:r1:1700086400", time.Minute)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestDeduper_Release(t *testing.T) {
	d := setupDeduper(t)
	ctx := context.Background()

	_, err := d.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.NoError(t, d.Release(ctx, "k"))

	again, err := d.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestDeduper_Expires(t *testing.T) {
	d := setupDeduper(t)
	ctx := context.Background()

	_, err := d.Claim(ctx, "short", 100*time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		ok, err := d.Claim(ctx, "short", time.Minute)
		return err == nil && ok
	}, 2*time.Second, 50*time.Millisecond)
}
