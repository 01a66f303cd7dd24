package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS client_kv (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`

// PostgresKV реализует domain.KVStore поверх таблицы client_kv.
// Значения хранятся в JSON, каждое пространство имён соответствует одному клиенту.
type PostgresKV struct {
	pool      *pgxpool.Pool
	namespace string
}

var _ domain.KVStore = (*PostgresKV)(nil)

// NewPostgresKV создаёт хранилище для пространства имён.
func NewPostgresKV(pool *pgxpool.Pool, namespace string) *PostgresKV {
	return &PostgresKV{pool: pool, namespace: namespace}
}

func (p *PostgresKV) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицу, если её нет.
func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	_, err := p.pool.Exec(ctx, kvSchema)
	return err
}

// Get возвращает значение или domain.ErrKeyNotFound.
func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	start := time.Now()
	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT value::text FROM client_kv WHERE namespace=$1 AND key=$2`,
		p.namespace, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.ObserveNetworkRequest("postgres", "kv_get", "client_kv", start, nil)
		return nil, domain.ErrKeyNotFound
	}
	metrics.ObserveNetworkRequest("postgres", "kv_get", "client_kv", start, err)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Set записывает значение. Значение должно быть корректным JSON.
func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO client_kv (namespace, key, value, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (namespace, key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`,
		p.namespace, key, string(value))
	metrics.ObserveNetworkRequest("postgres", "kv_set", "client_kv", start, err)
	return err
}

// Delete удаляет ключ; отсутствие ключа ошибкой не считается.
func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	_, err := p.pool.Exec(ctx, `DELETE FROM client_kv WHERE namespace=$1 AND key=$2`, p.namespace, key)
	return err
}
