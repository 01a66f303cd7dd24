package gateway

import (
	"context"
	"fmt"

	"bidboard/internal/domain"
)

var _ domain.ScheduleAPI = (*Client)(nil)

type jobsFoundResponse struct {
	JobsFound int `json:"jobsFound"`
}

func (c *Client) ListScheduledSearches(ctx context.Context) ([]domain.ScheduledSearch, error) {
	var out []domain.ScheduledSearch
	if err := c.get(ctx, "/scheduled-searches", "/scheduled-searches", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetScheduledSearch(ctx context.Context, id string) (domain.ScheduledSearch, error) {
	var out domain.ScheduledSearch
	if err := c.get(ctx, "/scheduled-searches/:id", escaped("/scheduled-searches", id), nil, &out); err != nil {
		return domain.ScheduledSearch{}, err
	}
	return out, nil
}

func (c *Client) CreateScheduledSearch(ctx context.Context, s domain.ScheduledSearch) (domain.ScheduledSearch, error) {
	var out domain.ScheduledSearch
	if err := c.post(ctx, "/scheduled-searches", "/scheduled-searches", s, &out); err != nil {
		return domain.ScheduledSearch{}, err
	}
	return out, nil
}

func (c *Client) UpdateScheduledSearch(ctx context.Context, s domain.ScheduledSearch) (domain.ScheduledSearch, error) {
	if s.ID == "" {
		return domain.ScheduledSearch{}, fmt.Errorf("update scheduled search: пустой id")
	}
	var out domain.ScheduledSearch
	if err := c.put(ctx, "/scheduled-searches/:id", escaped("/scheduled-searches", s.ID), s, &out); err != nil {
		return domain.ScheduledSearch{}, err
	}
	return out, nil
}

func (c *Client) DeleteScheduledSearch(ctx context.Context, id string) error {
	return c.delete(ctx, "/scheduled-searches/:id", escaped("/scheduled-searches", id), nil)
}

// TriggerSearch запускает запланированный поиск вне расписания.
func (c *Client) TriggerSearch(ctx context.Context, id string) (int, error) {
	var resp jobsFoundResponse
	if err := c.post(ctx, "/auto-search/search/:id", escaped("/auto-search/search", id), nil, &resp); err != nil {
		return 0, err
	}
	return resp.JobsFound, nil
}

// AutoBid запускает автоматический отклик по найденным вакансиям.
func (c *Client) AutoBid(ctx context.Context) (int, error) {
	var resp jobsFoundResponse
	if err := c.post(ctx, "/auto-search/auto-bid", "/auto-search/auto-bid", nil, &resp); err != nil {
		return 0, err
	}
	return resp.JobsFound, nil
}
