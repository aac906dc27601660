package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ParseRedisURL validates a Redis connection URL.
func ParseRedisURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return opts, nil
}

// RedisBackend stores one string key per topic, e.g. "kpv:progress:graphs" -> "75".
type RedisBackend struct {
	client *redis.Client
	keys   Keyspace
}

// NewRedisBackend connects to url and verifies the connection.
func NewRedisBackend(ctx context.Context, url string, keys Keyspace) (*RedisBackend, error) {
	opts, err := ParseRedisURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &RedisBackend{client: client, keys: keys}, nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(client *redis.Client, keys Keyspace) *RedisBackend {
	return &RedisBackend{client: client, keys: keys}
}

func (b *RedisBackend) LoadAll(ctx context.Context) (map[string]int, error) {
	var keys []string
	iter := b.client.Scan(ctx, 0, b.keys.Base()+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan progress keys: %w", err)
	}

	out := make(map[string]int, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	vals, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read progress values: %w", err)
	}
	for i, raw := range vals {
		s, ok := raw.(string)
		if !ok {
			continue // deleted between SCAN and MGET
		}
		id, ok := b.keys.ID(keys[i])
		if !ok {
			continue
		}
		if v, ok := DecodeValue(s); ok {
			out[id] = v
		}
	}
	return out, nil
}

func (b *RedisBackend) Put(ctx context.Context, id string, progress int) error {
	if err := b.client.Set(ctx, b.keys.Key(id), EncodeValue(progress), 0).Err(); err != nil {
		return fmt.Errorf("write progress %q: %w", id, err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
