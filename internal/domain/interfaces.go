package domain

import (
	"context"
	"time"
)

// BidLinkWindow — окно выборки ссылок.
type BidLinkWindow struct {
	From            time.Time
	To              time.Time
	ShowBlacklisted bool
}

// BidLinkAPI — операции бэкенда над ссылками.
type BidLinkAPI interface {
	ListBidLinks(ctx context.Context, window BidLinkWindow) ([]BidLink, error)
	SearchBidLinks(ctx context.Context, term string) ([]BidLink, error)
	Blacklist(ctx context.Context) ([]string, error)
	AddBlacklist(ctx context.Context, entry string) error
	RemoveBlacklist(ctx context.Context, entry string) error
	DailyCounts(ctx context.Context, from, to time.Time) ([]DailyCount, error)
}

// SearchQueryAPI — операции бэкенда над поисковыми запросами.
type SearchQueryAPI interface {
	ListSearchQueries(ctx context.Context) ([]SearchQuery, error)
	SearchQueryHistory(ctx context.Context) ([]SearchQuery, error)
	Categories(ctx context.Context) ([]string, error)
	CreateSearchQuery(ctx context.Context, q SearchQuery) (SearchQuery, error)
	UpdateSearchQuery(ctx context.Context, q SearchQuery) (SearchQuery, error)
	DeleteSearchQuery(ctx context.Context, id string) error
}

// ScheduleAPI — операции бэкенда над запланированными поисками.
type ScheduleAPI interface {
	ListScheduledSearches(ctx context.Context) ([]ScheduledSearch, error)
	GetScheduledSearch(ctx context.Context, id string) (ScheduledSearch, error)
	CreateScheduledSearch(ctx context.Context, s ScheduledSearch) (ScheduledSearch, error)
	UpdateScheduledSearch(ctx context.Context, s ScheduledSearch) (ScheduledSearch, error)
	DeleteScheduledSearch(ctx context.Context, id string) error
	TriggerSearch(ctx context.Context, id string) (int, error)
	AutoBid(ctx context.Context) (int, error)
}

// AnalyticsAPI — предагрегированные ряды аналитики кредитов и откликов.
type AnalyticsAPI interface {
	TeamCredits(ctx context.Context, from, to time.Time) ([]AnalyticsRow, error)
	ServiceBreakdown(ctx context.Context, from, to time.Time) ([]AnalyticsRow, error)
	Trends(ctx context.Context, from, to time.Time) ([]AnalyticsRow, error)
	CreditBidHistory(ctx context.Context, userID string) ([]AnalyticsRow, error)
}

// KVStore — долговременное хранилище ключ-значение на стороне клиента.
// Get возвращает ErrKeyNotFound, если ключа нет.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error
}

// Notifier доставляет готовый текст уведомления.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}
