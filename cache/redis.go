package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ZaguanLabs/glosa"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is prepended to every key written to Redis.
const DefaultKeyPrefix = "glosa:"

// scanBatch is the COUNT hint used when enumerating keys.
const scanBatch = 100

// RedisCache is a Redis-backed segment cache.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *slog.Logger
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379/0")
	TTL       time.Duration // Entry lifetime (0 = no expiration)
	KeyPrefix string        // Prefix for all keys (default: "glosa:")
	Logger    *slog.Logger  // Receives errors that are reported as misses
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &glosa.CacheError{Message: "invalid redis url", Cause: err}
	}
	opts.ClientName = glosa.Name

	client := redis.NewClient(opts)

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, &glosa.CacheError{Message: "redis unreachable", Cause: err}
	}

	c := NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix)
	if cfg.Logger != nil {
		c.logger = cfg.Logger
	}
	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if ttl < 0 {
		ttl = 0
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// Get retrieves a value from Redis. Connection errors are logged and
// reported as a miss.
func (c *RedisCache) Get(key string) (string, bool) {
	val, err := c.client.Get(context.Background(), c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Warn("redis get failed", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	return val, true
}

// Set stores a value in Redis.
func (c *RedisCache) Set(key string, value string) error {
	if err := c.client.Set(context.Background(), c.keyPrefix+key, value, c.ttl).Err(); err != nil {
		return &glosa.CacheError{Message: "redis set failed", Cause: err}
	}
	return nil
}

// Entries returns every entry under the key prefix, with the prefix removed.
// Keys that expire while the scan runs are skipped.
func (c *RedisCache) Entries(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return nil, &glosa.CacheError{Message: "redis scan failed", Cause: err}
		}

		for _, full := range keys {
			val, err := c.client.Get(ctx, full).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, &glosa.CacheError{Message: "redis get failed", Cause: err}
			}
			result[full[len(c.keyPrefix):]] = val
		}

		if next == 0 {
			return result, nil
		}
		cursor = next
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

var _ ExportableCache = (*RedisCache)(nil)
