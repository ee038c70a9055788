package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/testhelpers"
)

func TestRedisCacheRoundTrip(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	ctx := context.Background()
	c := NewRedisCache(client, "test:result:", time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", sampleResult("v1")))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleResult("v1"), got)

	ttl, err := client.TTL(ctx, "test:result:k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheDropsCorruptPayload(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	ctx := context.Background()
	c := NewRedisCache(client, "", time.Minute)

	require.NoError(t, client.Set(ctx, defaultPrefix+"bad", "not json", time.Minute).Err())

	_, ok, err := c.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := client.Exists(ctx, defaultPrefix+"bad").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
