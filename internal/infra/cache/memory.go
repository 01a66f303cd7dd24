package cache

import (
	"context"
	"sync"
	"time"

	"bidboard/internal/domain"
)

// MemoryStore — хранилище в памяти процесса для тестов и запуска без Redis.
type MemoryStore struct {
	mu      sync.Mutex
	values  map[string][]byte
	expires map[string]time.Time
	now     func() time.Time
}

var (
	_ domain.KVStore = (*MemoryStore)(nil)
	_ domain.Cache   = (*MemoryStore)(nil)
)

// NewMemory создаёт пустое хранилище.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		values:  make(map[string][]byte),
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Get возвращает копию значения или domain.ErrKeyNotFound.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expiredLocked(key) {
		return nil, domain.ErrKeyNotFound
	}
	v, ok := m.values[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set сохраняет копию значения.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	delete(m.expires, key)
	return nil
}

// Delete удаляет ключ.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	delete(m.expires, key)
	return nil
}

// Once выполняет функцию, если ключ ещё не задан или истёк.
func (m *MemoryStore) Once(_ context.Context, key string, ttl time.Duration, fn func() error) error {
	m.mu.Lock()
	_, exists := m.values[key]
	if exists && !m.expiredLocked(key) {
		m.mu.Unlock()
		return nil
	}
	m.values[key] = []byte("1")
	if ttl > 0 {
		m.expires[key] = m.now().Add(ttl)
	}
	m.mu.Unlock()

	if err := fn(); err != nil {
		m.mu.Lock()
		delete(m.values, key)
		delete(m.expires, key)
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MemoryStore) expiredLocked(key string) bool {
	exp, ok := m.expires[key]
	if !ok || m.now().Before(exp) {
		return false
	}
	delete(m.values, key)
	delete(m.expires, key)
	return true
}
