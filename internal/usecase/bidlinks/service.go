package bidlinks

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
	"bidboard/internal/usecase/state"
)

// Service держит загруженный список ссылок и применяет к нему фильтры.
type Service struct {
	api       domain.BidLinkAPI
	log       zerolog.Logger
	links     *state.Slot[[]domain.BidLink]
	results   *state.Slot[[]domain.BidLink]
	blacklist *state.Slot[[]string]
}

// NewService создаёт сервис ссылок.
func NewService(api domain.BidLinkAPI, log zerolog.Logger) *Service {
	return &Service{
		api:       api,
		log:       log,
		links:     state.NewSlot([]domain.BidLink{}),
		results:   state.NewSlot([]domain.BidLink{}),
		blacklist: state.NewSlot([]string{}),
	}
}

// Refresh загружает ссылки за окно. Ответ применяется, только если за время
// запроса не был выдан более новый; applied=false означает устаревший ответ.
func (s *Service) Refresh(ctx context.Context, window domain.BidLinkWindow) (applied bool, err error) {
	ticket := s.links.Begin()
	links, err := s.api.ListBidLinks(ctx, window)
	if err != nil {
		return false, fmt.Errorf("загрузка ссылок: %w", err)
	}
	if !s.links.CommitIf(ticket, links) {
		metrics.StaleResponsesDropped.WithLabelValues("bid_links").Inc()
		s.log.Debug().Uint64("ticket", uint64(ticket)).Msg("bidlinks: устаревший ответ отброшен")
		return false, nil
	}
	return true, nil
}

// Links возвращает текущий загруженный список.
func (s *Service) Links() []domain.BidLink {
	return s.links.Get()
}

// Visible прогоняет загруженный список через фильтры.
func (s *Service) Visible(cfg domain.FilterConfig) []domain.BidLink {
	out := FilterAndSort(DeduplicateByURL(s.links.Get()), cfg)
	metrics.VisibleLinks.Set(float64(len(out)))
	return out
}

// Search выполняет глобальный поиск. Пустой запрос отклоняется без обращения к серверу.
// applied=false означает, что за время запроса был начат более новый поиск:
// результаты этого вызова отброшены и не возвращаются.
func (s *Service) Search(ctx context.Context, term string) (found []domain.BidLink, applied bool, err error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, false, domain.ErrEmptySearchTerm
	}
	ticket := s.results.Begin()
	found, err = s.api.SearchBidLinks(ctx, term)
	if err != nil {
		return nil, false, fmt.Errorf("поиск ссылок: %w", err)
	}
	if !s.results.CommitIf(ticket, found) {
		metrics.StaleResponsesDropped.WithLabelValues("bid_link_search").Inc()
		s.log.Debug().Str("term", term).Msg("bidlinks: результаты устаревшего поиска отброшены")
		return nil, false, nil
	}
	return found, true, nil
}

// LoadBlacklist загружает чёрный список.
func (s *Service) LoadBlacklist(ctx context.Context) ([]string, error) {
	ticket := s.blacklist.Begin()
	entries, err := s.api.Blacklist(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка чёрного списка: %w", err)
	}
	s.blacklist.CommitIf(ticket, entries)
	return s.blacklist.Get(), nil
}

// BlacklistCompany добавляет компанию или адрес в чёрный список. Подходящие
// ссылки убираются из списка сразу и возвращаются, если сервер вернул ошибку.
func (s *Service) BlacklistCompany(ctx context.Context, entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return fmt.Errorf("пустая запись чёрного списка")
	}
	err := s.links.Optimistic(ctx, func(links []domain.BidLink) []domain.BidLink {
		kept := make([]domain.BidLink, 0, len(links))
		for _, l := range links {
			if !MatchesBlacklist(l, entry) {
				kept = append(kept, l)
			}
		}
		return kept
	}, func(ctx context.Context) error {
		return s.api.AddBlacklist(ctx, entry)
	})
	if err != nil {
		metrics.OptimisticRollbacks.WithLabelValues("blacklist_add").Inc()
		s.log.Warn().Err(err).Str("entry", entry).Msg("bidlinks: добавление в чёрный список не удалось, изменения отменены")
		return fmt.Errorf("добавление в чёрный список: %w", err)
	}
	s.blacklist.Update(func(entries []string) []string {
		return append(append([]string{}, entries...), entry)
	})
	return nil
}

// RemoveBlacklist удаляет запись и перечитывает чёрный список.
func (s *Service) RemoveBlacklist(ctx context.Context, entry string) ([]string, error) {
	if err := s.api.RemoveBlacklist(ctx, entry); err != nil {
		return nil, fmt.Errorf("удаление из чёрного списка: %w", err)
	}
	return s.LoadBlacklist(ctx)
}

// DailyCounts возвращает количество ссылок по дням.
func (s *Service) DailyCounts(ctx context.Context, from, to time.Time) ([]domain.DailyCount, error) {
	counts, err := s.api.DailyCounts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("загрузка статистики по дням: %w", err)
	}
	return counts, nil
}

// MatchesBlacklist проверяет, попадает ли ссылка под запись чёрного списка.
// Запись сравнивается с компанией без учёта регистра, а запись-домен с хостом ссылки.
func MatchesBlacklist(l domain.BidLink, entry string) bool {
	needle := strings.ToLower(strings.TrimSpace(entry))
	if needle == "" {
		return false
	}
	if strings.ToLower(strings.TrimSpace(l.Company)) == needle {
		return true
	}
	if !strings.Contains(needle, ".") {
		return false
	}
	host := hostOf(l.URL)
	needleHost := hostOf(needle)
	if needleHost == "" {
		needleHost = needle
	}
	return host != "" && (host == needleHost || strings.HasSuffix(host, "."+needleHost))
}

func hostOf(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
