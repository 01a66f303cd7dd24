package gateway

import (
	"context"
	"time"

	"bidboard/internal/domain"
)

var _ domain.AnalyticsAPI = (*Client)(nil)

func (c *Client) analytics(ctx context.Context, name string, from, to time.Time) ([]domain.AnalyticsRow, error) {
	endpoint := "/credit-analytics/" + name
	var out []domain.AnalyticsRow
	if err := c.get(ctx, endpoint, endpoint, window(from, to), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TeamCredits(ctx context.Context, from, to time.Time) ([]domain.AnalyticsRow, error) {
	return c.analytics(ctx, "team-credits", from, to)
}

func (c *Client) ServiceBreakdown(ctx context.Context, from, to time.Time) ([]domain.AnalyticsRow, error) {
	return c.analytics(ctx, "service-breakdown", from, to)
}

func (c *Client) Trends(ctx context.Context, from, to time.Time) ([]domain.AnalyticsRow, error) {
	return c.analytics(ctx, "trends", from, to)
}

func (c *Client) CreditBidHistory(ctx context.Context, userID string) ([]domain.AnalyticsRow, error) {
	var out []domain.AnalyticsRow
	endpoint := escaped("/credit-analytics/bid-history", userID)
	if err := c.get(ctx, "/credit-analytics/bid-history/:userId", endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
