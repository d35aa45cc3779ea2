package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/giftpropaganda/newsfeed/app_config"
)

var ctx = context.Background()

// RedisCache is a small TTL cache in front of the live Telegram channel
// endpoints, so repeated reads of the same channel page don't hit the
// external service every time. It is entirely optional, a nil *RedisCache
// is a valid no-op cache.
type RedisCache struct {
	inner     *redis.Client
	keyParser redisKeyParser
	ttl       time.Duration
}

// GetRedisCache connects to the configured Redis and verifies the connection
// with a ping. Returns nil cache without error when no Redis host is
// configured.
func GetRedisCache(cfg *app_config.Config, ttl time.Duration) (*RedisCache, error) {
	if cfg.RedisHost == "" {
		return nil, nil
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPass,
		DB:       0, // use default DB
	})
	_, err := redisClient.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	return &RedisCache{
		inner:     redisClient,
		keyParser: redisKeyParser{delimiter: "__"},
		ttl:       ttl,
	}, nil
}

type redisKeyParser struct {
	delimiter string
}

func (r redisKeyParser) validatePart(part string) bool {
	return !strings.Contains(part, r.delimiter)
}

func (r redisKeyParser) encodeKey(parts ...string) (string, error) {
	for _, part := range parts {
		if !r.validatePart(part) {
			return "", fmt.Errorf("invalid cache key part: %s", part)
		}
	}
	return strings.Join(parts, r.delimiter), nil
}

// Get unmarshals the cached value under the composed key into v. Returns
// false on miss, on a disabled cache, and on any Redis error, the caller
// falls through to the live fetch.
func (c *RedisCache) Get(v interface{}, keyParts ...string) bool {
	if c == nil {
		return false
	}
	key, err := c.keyParser.encodeKey(keyParts...)
	if err != nil {
		return false
	}
	raw, err := c.inner.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

// Set stores v under the composed key with the cache TTL. Errors are
// swallowed, a failed cache write must never fail the request.
func (c *RedisCache) Set(v interface{}, keyParts ...string) {
	if c == nil {
		return
	}
	key, err := c.keyParser.encodeKey(keyParts...)
	if err != nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.inner.Set(ctx, key, raw, c.ttl)
}
