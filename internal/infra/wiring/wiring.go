// Package wiring собирает хранилища, очередь и клиент API по конфигурации.
package wiring

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bidboard/internal/adapters/gateway"
	"bidboard/internal/adapters/repo"
	"bidboard/internal/domain"
	"bidboard/internal/infra/cache"
	"bidboard/internal/infra/config"
	"bidboard/internal/infra/db"
	"bidboard/internal/infra/queue"
)

// Storage — хранилище настроек и кэш для дедупликации.
type Storage struct {
	KV    domain.KVStore
	Cache domain.Cache
	close []func()
}

// Close освобождает подключения.
func (s *Storage) Close() {
	for i := len(s.close) - 1; i >= 0; i-- {
		s.close[i]()
	}
}

// OpenStorage выбирает бэкенд по KV_BACKEND: sqlite (по умолчанию), redis,
// postgres или memory. memory ничего не сохраняет между запусками и нужен для тестов.
func OpenStorage(ctx context.Context, cfg config.AppConfig) (*Storage, error) {
	switch cfg.Storage.Backend {
	case "sqlite", "":
		path := cfg.Storage.SQLitePath
		if path == "" {
			var err error
			if path, err = repo.DefaultSQLitePath(); err != nil {
				return nil, err
			}
		}
		kv, err := repo.OpenSQLiteKV(ctx, path, cfg.Storage.Namespace)
		if err != nil {
			return nil, err
		}
		return &Storage{KV: kv, Cache: cache.NewMemory(), close: []func(){func() { _ = kv.Close() }}}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		store := cache.NewRedis(client, cfg.Storage.Namespace)
		return &Storage{KV: store, Cache: store, close: []func(){func() { _ = client.Close() }}}, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.Storage.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("подключение к postgres: %w", err)
		}
		kv := repo.NewPostgresKV(pool, cfg.Storage.Namespace)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("схема client_kv: %w", err)
		}
		// Дедупликация уведомлений вне Redis живёт в памяти процесса.
		return &Storage{KV: kv, Cache: cache.NewMemory(), close: []func(){pool.Close}}, nil
	case "memory":
		mem := cache.NewMemory()
		return &Storage{KV: mem, Cache: mem}, nil
	default:
		return nil, fmt.Errorf("неизвестный KV_BACKEND %q", cfg.Storage.Backend)
	}
}

// NotificationQueue — очередь с функцией закрытия.
type NotificationQueue struct {
	domain.NotificationQueue
	Close func()
}

// OpenQueue выбирает очередь по QUEUE_BACKEND: redis или amqp.
func OpenQueue(ctx context.Context, cfg config.AppConfig, log zerolog.Logger) (*NotificationQueue, error) {
	switch cfg.Queues.Backend {
	case "amqp":
		q, err := queue.NewAMQPNotificationQueue(cfg.Queues.AMQPURL, cfg.Queues.Notify, log)
		if err != nil {
			return nil, err
		}
		return &NotificationQueue{NotificationQueue: q, Close: func() { _ = q.Close() }}, nil
	case "redis", "":
		client := redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		q := queue.NewRedisNotificationQueue(client, cfg.Queues.Notify, log)
		return &NotificationQueue{NotificationQueue: q, Close: func() { _ = client.Close() }}, nil
	default:
		return nil, fmt.Errorf("неизвестный QUEUE_BACKEND %q", cfg.Queues.Backend)
	}
}

// NewGateway создаёт клиент API с сессией.
func NewGateway(cfg config.AppConfig, session gateway.Session, log zerolog.Logger) (*gateway.Client, error) {
	return gateway.New(cfg.API.BaseURL, session,
		gateway.WithTimeout(cfg.API.Timeout),
		gateway.WithRateLimit(cfg.API.RPS),
		gateway.WithLogger(log.With().Str("component", "gateway").Logger()),
	)
}
