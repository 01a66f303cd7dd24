// Package ledger ведёт журнал ссылок, которые пользователь уже открывал.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
)

const (
	// StorageKey — ключ журнала в хранилище.
	StorageKey = "openedBidLinks"
	// MaxEntries — сколько последних записей хранится.
	MaxEntries = 10000
	// TTL — срок жизни записи.
	TTL = 30 * 24 * time.Hour
)

// Ledger — ограниченный журнал открытых ссылок с истечением по сроку.
// Ошибки хранилища не выходят наружу: чтение возвращает пустой журнал,
// запись ничего не делает.
type Ledger struct {
	store domain.KVStore
	log   zerolog.Logger
	now   func() time.Time
}

// New создаёт журнал поверх хранилища.
func New(store domain.KVStore, log zerolog.Logger) *Ledger {
	return &Ledger{store: store, log: log, now: time.Now}
}

// Entries возвращает актуальные записи, самые свежие первыми. Просроченные
// записи удаляются и журнал сразу перезаписывается.
func (l *Ledger) Entries(ctx context.Context) []domain.OpenedLinkRecord {
	entries := l.load(ctx)
	cutoff := l.now().Add(-TTL).UnixMilli()
	fresh := make([]domain.OpenedLinkRecord, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp >= cutoff {
			fresh = append(fresh, e)
		}
	}
	if purged := len(entries) - len(fresh); purged > 0 {
		metrics.LedgerPurged.Add(float64(purged))
		l.save(ctx, fresh)
	}
	return fresh
}

// RecordOpened добавляет адреса в начало журнала и обрезает его до MaxEntries.
func (l *Ledger) RecordOpened(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	existing := l.Entries(ctx)
	ts := l.now().UnixMilli()
	next := make([]domain.OpenedLinkRecord, 0, len(urls)+len(existing))
	// Последний адрес из пачки считается самым свежим.
	for i := len(urls) - 1; i >= 0; i-- {
		next = append(next, domain.OpenedLinkRecord{URL: urls[i], Timestamp: ts})
	}
	next = append(next, existing...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	l.save(ctx, next)
}

// IsOpened сообщает, открывалась ли ссылка за последние 30 дней.
func (l *Ledger) IsOpened(ctx context.Context, url string) bool {
	for _, e := range l.Entries(ctx) {
		if e.URL == url {
			return true
		}
	}
	return false
}

// OpenedSet возвращает множество открытых адресов за одно чтение.
func (l *Ledger) OpenedSet(ctx context.Context) map[string]struct{} {
	entries := l.Entries(ctx)
	out := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		out[e.URL] = struct{}{}
	}
	return out
}

func (l *Ledger) load(ctx context.Context) []domain.OpenedLinkRecord {
	raw, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			l.log.Debug().Err(err).Msg("ledger: чтение журнала не удалось")
		}
		return nil
	}
	var entries []domain.OpenedLinkRecord
	if err := json.Unmarshal(raw, &entries); err != nil {
		l.log.Debug().Err(err).Msg("ledger: повреждённый журнал")
		return nil
	}
	return entries
}

func (l *Ledger) save(ctx context.Context, entries []domain.OpenedLinkRecord) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := l.store.Set(ctx, StorageKey, raw); err != nil {
		l.log.Debug().Err(err).Msg("ledger: запись журнала не удалась")
	}
}
