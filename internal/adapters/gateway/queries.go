package gateway

import (
	"context"
	"fmt"

	"bidboard/internal/domain"
)

var _ domain.SearchQueryAPI = (*Client)(nil)

func (c *Client) ListSearchQueries(ctx context.Context) ([]domain.SearchQuery, error) {
	var out []domain.SearchQuery
	if err := c.get(ctx, "/search-queries", "/search-queries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchQueryHistory(ctx context.Context) ([]domain.SearchQuery, error) {
	var out []domain.SearchQuery
	if err := c.get(ctx, "/search-queries/history", "/search-queries/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/search-queries/categories", "/search-queries/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSearchQuery(ctx context.Context, q domain.SearchQuery) (domain.SearchQuery, error) {
	var out domain.SearchQuery
	if err := c.post(ctx, "/search-queries", "/search-queries", q, &out); err != nil {
		return domain.SearchQuery{}, err
	}
	return out, nil
}

func (c *Client) UpdateSearchQuery(ctx context.Context, q domain.SearchQuery) (domain.SearchQuery, error) {
	if q.ID == "" {
		return domain.SearchQuery{}, fmt.Errorf("update search query: пустой id")
	}
	var out domain.SearchQuery
	if err := c.put(ctx, "/search-queries/:id", escaped("/search-queries", q.ID), q, &out); err != nil {
		return domain.SearchQuery{}, err
	}
	return out, nil
}

func (c *Client) DeleteSearchQuery(ctx context.Context, id string) error {
	return c.delete(ctx, "/search-queries/:id", escaped("/search-queries", id), nil)
}
