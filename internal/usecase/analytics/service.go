package analytics

import (
	"context"
	"fmt"
	"time"

	"bidboard/internal/domain"
)

// Report — вид аналитики на сервере.
type Report string

const (
	ReportTeamCredits      Report = "team-credits"
	ReportServiceBreakdown Report = "service-breakdown"
	ReportTrends           Report = "trends"
)

// Service загружает ряды аналитики и строит таблицы.
type Service struct {
	api domain.AnalyticsAPI
}

func NewService(api domain.AnalyticsAPI) *Service {
	return &Service{api: api}
}

// Table загружает отчёт за период и разворачивает его.
func (s *Service) Table(ctx context.Context, report Report, from, to time.Time) (Table, error) {
	var (
		rows []domain.AnalyticsRow
		err  error
	)
	switch report {
	case ReportTeamCredits:
		rows, err = s.api.TeamCredits(ctx, from, to)
	case ReportServiceBreakdown:
		rows, err = s.api.ServiceBreakdown(ctx, from, to)
	case ReportTrends:
		rows, err = s.api.Trends(ctx, from, to)
	default:
		return Table{}, fmt.Errorf("неизвестный отчёт %q", report)
	}
	if err != nil {
		return Table{}, fmt.Errorf("загрузка отчёта %s: %w", report, err)
	}
	return Pivot(rows), nil
}

// BidHistory возвращает историю откликов пользователя.
func (s *Service) BidHistory(ctx context.Context, userID string) (Table, error) {
	rows, err := s.api.CreditBidHistory(ctx, userID)
	if err != nil {
		return Table{}, fmt.Errorf("загрузка истории откликов: %w", err)
	}
	return Pivot(rows), nil
}
