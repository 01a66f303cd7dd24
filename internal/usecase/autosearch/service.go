// Package autosearch запускает поиск по расписанию вручную и следит за ходом выполнения.
package autosearch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
	"bidboard/internal/infra/poll"
)

// Result — итог ручного запуска.
type Result struct {
	JobsFound int
	Final     domain.ScheduledSearch
}

// Service запускает поиск и опрашивает его статус.
type Service struct {
	api      domain.ScheduleAPI
	log      zerolog.Logger
	interval time.Duration
}

// NewService создаёт сервис; интервал опроса приводится к 15s..60s.
func NewService(api domain.ScheduleAPI, log zerolog.Logger, interval time.Duration) *Service {
	return &Service{api: api, log: log, interval: poll.Clamp(interval)}
}

// Run запускает поиск и ждёт, пока он выйдет из состояния running.
// onProgress вызывается на каждом опросе, может быть nil.
func (s *Service) Run(ctx context.Context, scheduleID string, onProgress func(domain.ScheduledSearch)) (Result, error) {
	found, err := s.api.TriggerSearch(ctx, scheduleID)
	if err != nil {
		return Result{}, fmt.Errorf("запуск поиска %s: %w", scheduleID, err)
	}
	s.log.Info().Str("schedule_id", scheduleID).Int("jobs_found", found).Msg("autosearch: поиск запущен")

	var last domain.ScheduledSearch
	err = poll.Every(ctx, s.interval, func(ctx context.Context) error {
		ss, err := s.api.GetScheduledSearch(ctx, scheduleID)
		metrics.ObservePollTick("autosearch", err)
		if err != nil {
			return fmt.Errorf("статус поиска %s: %w", scheduleID, err)
		}
		last = ss
		if onProgress != nil {
			onProgress(ss)
		}
		if !ss.Running() {
			return poll.ErrStop
		}
		return nil
	})
	if err != nil {
		return Result{JobsFound: found, Final: last}, err
	}
	return Result{JobsFound: found, Final: last}, nil
}

// AutoBid запускает автоматический отклик.
func (s *Service) AutoBid(ctx context.Context) (int, error) {
	n, err := s.api.AutoBid(ctx)
	if err != nil {
		return 0, fmt.Errorf("автоотклик: %w", err)
	}
	s.log.Info().Int("jobs", n).Msg("autosearch: автоотклик выполнен")
	return n, nil
}
