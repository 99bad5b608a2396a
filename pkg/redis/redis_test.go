package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crivelaro/garimpo/pkg/config"
)

func TestDisabledClientIsNoOp(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{Enabled: false},
	}

	client, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	cache := NewCache(client, "garimpo")
	ctx := context.Background()

	var out string
	found, err := cache.Get(ctx, "snapshot:acoes", &out)
	require.NoError(t, err)
	assert.False(t, found, "disabled cache must always miss")

	assert.NoError(t, cache.Set(ctx, "snapshot:acoes", "x", time.Minute))
	assert.NoError(t, cache.Delete(ctx, "snapshot:acoes"))
	assert.NoError(t, client.Close())
}

func TestCacheRoundTrip(t *testing.T) {
	// Needs a running Redis; skipped in short mode.
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := &config.Config{
		Redis: config.RedisConfig{
			Host:    "localhost",
			Port:    "6379",
			Enabled: true,
		},
	}

	client, err := New(cfg)
	require.NoError(t, err, "redis connection failed")
	defer client.Close()

	cache := NewCache(client, "garimpo-test")
	ctx := context.Background()

	type payload struct {
		Ticker string  `json:"ticker"`
		Price  float64 `json:"price"`
	}

	in := payload{Ticker: "PETR4", Price: 38.52}
	require.NoError(t, cache.Set(ctx, "quote", in, time.Minute))

	var out payload
	found, err := cache.Get(ctx, "quote", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	require.NoError(t, cache.Delete(ctx, "quote"))
}
