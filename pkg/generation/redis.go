package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/ontoviz/pkg/cache"
)

// DefaultPrefix namespaces generation keys in Redis.
const DefaultPrefix = "ontoviz:gen:"

// RedisStore keeps generations in Redis with INCR and GET, so every replica
// behind a load balancer agrees on which run is current.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps a connected client. An empty prefix selects DefaultPrefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// OpenRedis parses a redis:// or rediss:// URL, connects, and pings the
// server, retrying with [cache.DefaultBackoff].
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	err = cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, ""), nil
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

// Next implements Store.
func (s *RedisStore) Next(ctx context.Context, key string) (uint64, error) {
	n, err := s.client.Incr(ctx, s.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	return uint64(n), nil
}

// Current implements Store.
func (s *RedisStore) Current(ctx context.Context, key string) (uint64, error) {
	n, err := s.client.Get(ctx, s.key(key)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	return n, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
