package config

import (
	"context"
	"errors"
	"os"

	"github.com/buildrs/buildrs-api/internal/log"
	pkgredis "github.com/buildrs/buildrs-api/pkg/redis"
	"github.com/buildrs/buildrs-api/pkg/utils"
	"github.com/go-redis/redis/v8"
)

// Cache is the optional Redis connection. It is never used to cache
// waitlist reads; it carries signup events and is reported by /health.
type Cache interface {
	Ping(ctx context.Context) error
	Close() error
}

// RedisClientProvider is implemented by caches that expose the underlying
// client, which the signup event publisher writes streams through.
type RedisClientProvider interface {
	GetClient() *redis.Client
}

var ErrCacheNotConfigured = errors.New("cache host is not configured")

type CacheConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

func NewCacheConfig() *CacheConfig {
	return &CacheConfig{
		Host:     utils.GetEnvTrimmed("REDIS_HOST"),
		Port:     utils.GetEnvTrimmedOrDefault("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       utils.GetEnvIntOrDefault("REDIS_DB", 0),
		PoolSize: utils.GetEnvIntOrDefault("REDIS_POOL_SIZE", 0),
	}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		logger.Error("Cache (Redis) configuration is missing")
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:     cc.Host,
		Port:     cc.Port,
		Password: cc.Password,
		DB:       cc.DB,
		PoolSize: cc.PoolSize,
	})
	if err != nil {
		logger.Error("Failed to create Cache (Redis)", "error", err)
		return nil, err
	}

	logger.Info("Cache (Redis) connected successfully", "host", cc.Host, "db", cc.DB)
	return cache, nil
}

// NewCacheOrNil degrades to no Redis at all: signups still succeed, events
// are skipped and /health reports the cache as not_configured.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) is not configured; signup events disabled")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		logger.Warn("Continuing without Redis; signup events disabled", "error", err)
		return nil
	}

	return cache
}

func GetRedisClient(cache Cache) *redis.Client {
	if provider, ok := cache.(RedisClientProvider); ok {
		return provider.GetClient()
	}
	return nil
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		logger.Info("No cache provided; skipping cache close")
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}
