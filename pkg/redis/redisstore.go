package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/radiantloop/notion-proxy/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Client is the portion of the redis client interface used by [Store].
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Store implements a cache on top of redis. Values are written without
// expiration: cached entries are idempotent memoizations that stay valid for
// the life of the deployment.
type Store[Key, Value any] struct {
	fromRedis func(string) (Value, error)
	toRedis   func(Value) (string, error)
	keyString func(Key) string
	client    Client
}

var (
	_ Client                = (*redis.Client)(nil)
	_ types.Cache[any, any] = (*Store[any, any])(nil)
)

// NewStore creates a cache around a redis client using the given
// serialization and key-conversion functions.
func NewStore[Key, Value any](
	fromRedis func(string) (Value, error),
	toRedis func(Value) (string, error),
	keyString func(Key) string,
	client Client) *Store[Key, Value] {
	return &Store[Key, Value]{fromRedis, toRedis, keyString, client}
}

// Get retrieves a cached value from redis.
func (rs *Store[Key, Value]) Get(ctx context.Context, key Key) (Value, error) {
	data, err := rs.client.Get(ctx, rs.keyString(key)).Result()
	if err != nil {
		var v Value
		if err == redis.Nil {
			return v, types.ErrKeyNotFound
		}
		return v, fmt.Errorf("error accessing redis: %w", err)
	}
	return rs.fromRedis(data)
}

// Set implements [types.Cache].
func (rs *Store[Key, Value]) Set(ctx context.Context, key Key, value Value) error {
	data, err := rs.toRedis(value)
	if err != nil {
		return err
	}
	err = rs.client.Set(ctx, rs.keyString(key), data, 0).Err()
	if err != nil {
		return fmt.Errorf("error accessing redis: %w", err)
	}
	return nil
}
