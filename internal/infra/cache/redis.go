package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
)

// RedisStore реализует domain.KVStore и domain.Cache через Redis.
// Все ключи получают префикс пространства имён.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

var (
	_ domain.KVStore = (*RedisStore)(nil)
	_ domain.Cache   = (*RedisStore)(nil)
)

// NewRedis создаёт хранилище.
func NewRedis(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (c *RedisStore) key(k string) string {
	if c.namespace == "" {
		return k
	}
	return c.namespace + ":" + k
}

// Once выполняет функцию, если ключ ещё не задан. При ошибке fn ключ снимается.
func (c *RedisStore) Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	ok, err := c.client.SetNX(ctx, c.key(key), "1", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := fn(); err != nil {
		_ = c.client.Del(ctx, c.key(key)).Err()
		return err
	}
	return nil
}

// Set задаёт значение без срока жизни.
func (c *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := c.client.Set(ctx, c.key(key), value, 0).Err()
	metrics.ObserveNetworkRequest("redis", "set", "kv", start, err)
	return err
}

// Get возвращает значение или domain.ErrKeyNotFound.
func (c *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveNetworkRequest("redis", "get", "kv", start, nil)
		return nil, domain.ErrKeyNotFound
	}
	metrics.ObserveNetworkRequest("redis", "get", "kv", start, err)
	return raw, err
}

// Delete удаляет ключ.
func (c *RedisStore) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}
