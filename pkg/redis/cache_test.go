package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisCache_RequiresHost(t *testing.T) {
	cache, err := NewRedisCache(&Config{})
	assert.Error(t, err)
	assert.Nil(t, cache)

	cache, err = NewRedisCache(nil)
	assert.Error(t, err)
	assert.Nil(t, cache)
}

func TestRedisCache_PingFailsWhenServerIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewRedisCacheFromClient(client)
	defer cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, cache.Ping(ctx))
	assert.Same(t, client, cache.GetClient())
}

func TestConfig_Options(t *testing.T) {
	cfg := &Config{Host: "redis.internal", Port: "6380", DB: 2, PoolSize: 20}
	opts := cfg.options()

	assert.Equal(t, "redis.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, defaultDialTimeout, opts.DialTimeout)

	cfg.DialTimeout = time.Second
	assert.Equal(t, time.Second, cfg.options().DialTimeout)
}

func TestNewRedisCache_UnreachableServer(t *testing.T) {
	cache, err := NewRedisCache(&Config{Host: "127.0.0.1", Port: "1", DialTimeout: 100 * time.Millisecond})
	assert.ErrorContains(t, err, "127.0.0.1:1")
	assert.Nil(t, cache)
}
