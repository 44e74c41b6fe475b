// Package cache stores rendered client responses in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix is prepended to every response key.
const KeyPrefix = "leaguehub:resp:"

// ResponseCache - контракт кэша готовых ответов client API.
type ResponseCache interface {
	// Get возвращает тело ответа и признак его наличия в кэше.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет тело ответа с TTL.
	Set(ctx context.Context, key string, body []byte) error
	// Invalidate удаляет все ключи ресурса (например "clubs").
	Invalidate(ctx context.Context, resource string) error
	// Close закрывает клиент Redis.
	Close() error
}

// Key builds the cache key for a resource response in one language.
// pathAndQuery is the request URI, so different pages get different keys.
func Key(resource, lang, pathAndQuery string) string {
	return KeyPrefix + resource + ":" + lang + ":" + pathAndQuery
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (ResponseCache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &redisCache{rdb: rdb, ttl: ttl}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return body, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, body []byte) error {
	return c.rdb.Set(ctx, key, body, c.ttl).Err()
}

// Invalidate проходит по ключам через SCAN, чтобы не блокировать Redis как KEYS.
func (c *redisCache) Invalidate(ctx context.Context, resource string) error {
	iter := c.rdb.Scan(ctx, 0, KeyPrefix+resource+":*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(batch) > 0 {
		return c.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

func (c *redisCache) Close() error { return c.rdb.Close() }
