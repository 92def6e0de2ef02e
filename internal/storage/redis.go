package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys in a shared Redis.
const DefaultRedisPrefix = "teamwork:"

// RedisKV stores items as plain Redis strings under a key prefix.
type RedisKV struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisKV wraps an existing client. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisKV(rdb redis.UniversalClient, prefix string) *RedisKV {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisKV{rdb: rdb, prefix: prefix}
}

// DialRedis parses a redis:// URL and returns a RedisKV after a PING.
func DialRedis(ctx context.Context, url, prefix string) (*RedisKV, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("storage.DialRedis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close() //nolint:errcheck
		return nil, fmt.Errorf("storage.DialRedis: ping: %v: %w", err, ErrStorageUnavailable)
	}
	return NewRedisKV(rdb, prefix), nil
}

// Close releases the underlying client.
func (r *RedisKV) Close() error {
	return r.rdb.Close()
}

func (r *RedisKV) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage.RedisKV.GetItem %q: %v: %w", key, err, ErrStorageUnavailable)
	}
	return v, true, nil
}

func (r *RedisKV) SetItem(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("storage.RedisKV.SetItem %q: %v: %w", key, err, ErrStorageUnavailable)
	}
	return nil
}

func (r *RedisKV) RemoveItem(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("storage.RedisKV.RemoveItem %q: %v: %w", key, err, ErrStorageUnavailable)
	}
	return nil
}
