// Package queries управляет сохранёнными поисковыми запросами.
package queries

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"bidboard/internal/domain"
)

// Service скрывает служебный запрос web3Jobsites и проверяет категории.
type Service struct {
	api domain.SearchQueryAPI
	log zerolog.Logger
}

// NewService создаёт сервис поисковых запросов.
func NewService(api domain.SearchQueryAPI, log zerolog.Logger) *Service {
	return &Service{api: api, log: log}
}

// List возвращает пользовательские запросы.
func (s *Service) List(ctx context.Context) ([]domain.SearchQuery, error) {
	all, err := s.api.ListSearchQueries(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка запросов: %w", err)
	}
	return visible(all), nil
}

// History возвращает запросы с историей запусков.
func (s *Service) History(ctx context.Context) ([]domain.SearchQuery, error) {
	all, err := s.api.SearchQueryHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка истории запросов: %w", err)
	}
	return visible(all), nil
}

// ByCategory группирует запросы по категориям, категории отсортированы.
func ByCategory(list []domain.SearchQuery) ([]string, map[string][]domain.SearchQuery) {
	groups := make(map[string][]domain.SearchQuery)
	for _, q := range list {
		cat := q.Category
		if strings.TrimSpace(cat) == "" {
			cat = domain.UncategorizedCategory
		}
		groups[cat] = append(groups[cat], q)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, groups
}

// Create проверяет запрос и категорию, затем сохраняет его.
func (s *Service) Create(ctx context.Context, q domain.SearchQuery) (domain.SearchQuery, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return domain.SearchQuery{}, domain.ErrEmptySearchTerm
	}
	if err := s.checkCategory(ctx, q.Category); err != nil {
		return domain.SearchQuery{}, err
	}
	created, err := s.api.CreateSearchQuery(ctx, q)
	if err != nil {
		return domain.SearchQuery{}, fmt.Errorf("создание запроса: %w", err)
	}
	s.log.Info().Str("category", q.Category).Msg("queries: запрос создан")
	return created, nil
}

// Update сохраняет изменённый запрос.
func (s *Service) Update(ctx context.Context, q domain.SearchQuery) (domain.SearchQuery, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return domain.SearchQuery{}, domain.ErrEmptySearchTerm
	}
	if err := s.checkCategory(ctx, q.Category); err != nil {
		return domain.SearchQuery{}, err
	}
	updated, err := s.api.UpdateSearchQuery(ctx, q)
	if err != nil {
		return domain.SearchQuery{}, fmt.Errorf("обновление запроса: %w", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteSearchQuery(ctx, id); err != nil {
		return fmt.Errorf("удаление запроса: %w", err)
	}
	return nil
}

func (s *Service) checkCategory(ctx context.Context, category string) error {
	cats, err := s.api.Categories(ctx)
	if err != nil {
		return fmt.Errorf("загрузка категорий: %w", err)
	}
	for _, c := range cats {
		if strings.EqualFold(c, category) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
}

// LastRun возвращает самый поздний запуск запроса.
func LastRun(q domain.SearchQuery) (domain.SearchRun, bool) {
	if len(q.LastSearchInfo) == 0 {
		return domain.SearchRun{}, false
	}
	last := q.LastSearchInfo[0]
	for _, run := range q.LastSearchInfo[1:] {
		if run.Date.After(last.Date) {
			last = run
		}
	}
	return last, true
}

func visible(all []domain.SearchQuery) []domain.SearchQuery {
	out := make([]domain.SearchQuery, 0, len(all))
	for _, q := range all {
		if q.Link == domain.SentinelQueryLink {
			continue
		}
		out = append(out, q)
	}
	return out
}
