package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
)

const sqliteKVSchema = `
CREATE TABLE IF NOT EXISTS client_kv (
	namespace  TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, key)
)`

// SQLiteKV реализует domain.KVStore в локальном файле. Это хранилище
// по умолчанию для bidctl: настройки, сессия и журнал открытых ссылок
// переживают завершение процесса.
type SQLiteKV struct {
	db        *sql.DB
	namespace string
}

var _ domain.KVStore = (*SQLiteKV)(nil)

// DefaultSQLitePath возвращает путь к файлу в каталоге конфигурации пользователя.
func DefaultSQLitePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("каталог конфигурации: %w", err)
	}
	return filepath.Join(dir, "bidboard", "bidboard.db"), nil
}

// OpenSQLiteKV открывает файл, создавая каталог и таблицу при необходимости.
func OpenSQLiteKV(ctx context.Context, path, namespace string) (*SQLiteKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("создание каталога %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("открытие %s: %w", path, err)
	}
	// Один писатель: bidctl и watcher могут открыть файл одновременно.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("настройка sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteKVSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("схема client_kv: %w", err)
	}
	return &SQLiteKV{db: db, namespace: namespace}, nil
}

// Close закрывает файл.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

// Get возвращает значение или domain.ErrKeyNotFound.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_kv WHERE namespace = ? AND key = ?`, s.namespace, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.ObserveNetworkRequest("sqlite", "kv_get", "client_kv", start, nil)
		return nil, domain.ErrKeyNotFound
	}
	metrics.ObserveNetworkRequest("sqlite", "kv_get", "client_kv", start, err)
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

// Set записывает значение.
func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO client_kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.namespace, key, string(value), time.Now().UnixMilli())
	metrics.ObserveNetworkRequest("sqlite", "kv_set", "client_kv", start, err)
	return err
}

// Delete удаляет ключ; отсутствие ключа ошибкой не считается.
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM client_kv WHERE namespace = ? AND key = ?`, s.namespace, key)
	return err
}
