// Package notify находит новые подходящие ссылки и завершённые поиски
// и доставляет уведомления через очередь.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
	"bidboard/internal/usecase/bidlinks"
	"bidboard/internal/usecase/ledger"
	"bidboard/internal/usecase/prefs"
)

// DedupeTTL — сколько помнить отправленные уведомления.
const DedupeTTL = 30 * 24 * time.Hour

// WatcherConfig — параметры наблюдателя.
type WatcherConfig struct {
	ChatID     int64
	UserID     string
	WindowDays int
}

// Watcher сравнивает состояние бэкенда с настройками уведомлений.
type Watcher struct {
	links     *bidlinks.Service
	schedules domain.ScheduleAPI
	prefs     *prefs.Store
	opened    *ledger.Ledger
	cache     domain.Cache
	queue     domain.NotificationQueue
	cfg       WatcherConfig
	log       zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	running map[string]domain.ScheduledSearch
}

// NewWatcher создаёт наблюдателя.
func NewWatcher(links *bidlinks.Service, schedules domain.ScheduleAPI, store *prefs.Store, opened *ledger.Ledger,
	cache domain.Cache, queue domain.NotificationQueue, cfg WatcherConfig, log zerolog.Logger) *Watcher {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 1
	}
	return &Watcher{
		links:     links,
		schedules: schedules,
		prefs:     store,
		opened:    opened,
		cache:     cache,
		queue:     queue,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		running:   make(map[string]domain.ScheduledSearch),
	}
}

// Tick выполняет одну итерацию: новые ссылки, затем расписания.
// Возвращает число поставленных в очередь уведомлений.
func (w *Watcher) Tick(ctx context.Context) (int, error) {
	linksQueued, err := w.checkLinks(ctx)
	if err != nil {
		return linksQueued, err
	}
	doneQueued, err := w.checkSchedules(ctx)
	return linksQueued + doneQueued, err
}

func (w *Watcher) checkLinks(ctx context.Context) (int, error) {
	nc := w.prefs.NotificationConfig(ctx)
	if !nc.Enabled {
		return 0, nil
	}
	now := w.now()
	window := domain.BidLinkWindow{
		From:            now.AddDate(0, 0, -w.cfg.WindowDays),
		To:              now,
		ShowBlacklisted: w.prefs.ShowBlacklisted(ctx),
	}
	if _, err := w.links.Refresh(ctx, window); err != nil {
		return 0, fmt.Errorf("обновление ссылок: %w", err)
	}
	base := domain.DefaultFilterConfig()
	base.CurrentUserID = w.cfg.UserID
	visible := w.links.Visible(w.prefs.FilterConfig(ctx, base))
	opened := w.opened.OpenedSet(ctx)

	queued := 0
	for _, l := range visible {
		if !Wanted(l, nc) {
			continue
		}
		if _, seen := opened[l.URL]; seen {
			continue
		}
		job := w.linkJob(l)
		if err := w.enqueueOnce(ctx, "notified:"+l.ID, job); err != nil {
			return queued, err
		}
		queued++
	}
	return queued, nil
}

func (w *Watcher) checkSchedules(ctx context.Context) (int, error) {
	list, err := w.schedules.ListScheduledSearches(ctx)
	if err != nil {
		return 0, fmt.Errorf("загрузка расписаний: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	queued := 0
	seen := make(map[string]struct{}, len(list))
	for _, ss := range list {
		seen[ss.ID] = struct{}{}
		if ss.Running() {
			w.running[ss.ID] = ss
			continue
		}
		prev, wasRunning := w.running[ss.ID]
		if !wasRunning {
			continue
		}
		delete(w.running, ss.ID)
		job := w.searchDoneJob(ss, prev)
		key := "search_done:" + ss.ID
		if prev.StartTime != nil {
			key += ":" + prev.StartTime.UTC().Format(time.RFC3339)
		}
		if err := w.enqueueOnce(ctx, key, job); err != nil {
			return queued, err
		}
		queued++
	}
	for id := range w.running {
		if _, ok := seen[id]; !ok {
			delete(w.running, id)
		}
	}
	return queued, nil
}

// enqueueOnce ставит задачу в очередь не более одного раза на ключ.
func (w *Watcher) enqueueOnce(ctx context.Context, key string, job domain.NotificationJob) error {
	var enqueued bool
	err := w.cache.Once(ctx, key, DedupeTTL, func() error {
		if err := w.queue.Enqueue(ctx, job); err != nil {
			return err
		}
		enqueued = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("постановка уведомления %s: %w", key, err)
	}
	if enqueued {
		metrics.NotificationsEnqueued.WithLabelValues(string(job.Cause)).Inc()
		w.log.Debug().Str("key", key).Str("job_id", job.ID).Msg("notify: уведомление в очереди")
	}
	return nil
}

func (w *Watcher) linkJob(l domain.BidLink) domain.NotificationJob {
	tag, _ := l.Tag()
	return domain.NotificationJob{
		ID:          uuid.NewString(),
		ChatID:      w.cfg.ChatID,
		Cause:       domain.NotificationCauseNewLink,
		LinkID:      l.ID,
		Title:       l.Title,
		URL:         l.URL,
		Company:     l.CompanyOrNA(),
		Tag:         string(tag),
		Confidence:  l.ConfidenceOrZero(),
		RequestedAt: w.now().UTC(),
	}
}

func (w *Watcher) searchDoneJob(ss, prev domain.ScheduledSearch) domain.NotificationJob {
	found := 0
	if ss.Progress != nil {
		found = ss.Progress.Current
	} else if prev.Progress != nil {
		found = prev.Progress.Current
	}
	return domain.NotificationJob{
		ID:          uuid.NewString(),
		ChatID:      w.cfg.ChatID,
		Cause:       domain.NotificationCauseSearchDone,
		Title:       ss.Name,
		JobsFound:   found,
		RequestedAt: w.now().UTC(),
	}
}

// Wanted проверяет ссылку по настройкам уведомлений: минимальная уверенность,
// теги и категории. Пустые списки не ограничивают.
func Wanted(l domain.BidLink, nc domain.NotificationConfig) bool {
	if l.ConfidenceOrZero() < nc.MinConfidence {
		return false
	}
	if len(nc.Tags) > 0 {
		tag, ok := l.Tag()
		if !ok || !containsFold(nc.Tags, string(tag)) {
			return false
		}
	}
	if len(nc.Categories) > 0 && !containsFold(nc.Categories, l.Category()) {
		return false
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}
