package gateway

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"bidboard/internal/domain"
)

var _ domain.BidLinkAPI = (*Client)(nil)

type bidLinksResponse struct {
	BidLinks []domain.BidLink `json:"bidLinks"`
}

type blacklistResponse struct {
	Blacklists []string `json:"blacklists"`
}

type blacklistRequest struct {
	Company string `json:"company"`
}

type dailyCountResponse struct {
	DailyCounts []domain.DailyCount `json:"dailyCounts"`
}

func (c *Client) ListBidLinks(ctx context.Context, w domain.BidLinkWindow) ([]domain.BidLink, error) {
	q := window(w.From, w.To)
	q.Set("showBlacklisted", strconv.FormatBool(w.ShowBlacklisted))
	var resp bidLinksResponse
	if err := c.get(ctx, "/bid-links", "/bid-links", q, &resp); err != nil {
		return nil, err
	}
	return resp.BidLinks, nil
}

func (c *Client) SearchBidLinks(ctx context.Context, term string) ([]domain.BidLink, error) {
	q := url.Values{}
	q.Set("searchTerm", term)
	var links []domain.BidLink
	if err := c.get(ctx, "/bid-links/search", "/bid-links/search", q, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (c *Client) Blacklist(ctx context.Context) ([]string, error) {
	var resp blacklistResponse
	if err := c.get(ctx, "/bid-links/blacklist", "/bid-links/blacklist", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Blacklists, nil
}

func (c *Client) AddBlacklist(ctx context.Context, entry string) error {
	return c.post(ctx, "/bid-links/blacklist", "/bid-links/blacklist", blacklistRequest{Company: entry}, nil)
}

func (c *Client) RemoveBlacklist(ctx context.Context, entry string) error {
	return c.delete(ctx, "/bid-links/blacklist", "/bid-links/blacklist", blacklistRequest{Company: entry})
}

func (c *Client) DailyCounts(ctx context.Context, from, to time.Time) ([]domain.DailyCount, error) {
	var resp dailyCountResponse
	if err := c.get(ctx, "/bid-links/daily-count", "/bid-links/daily-count", window(from, to), &resp); err != nil {
		return nil, err
	}
	return resp.DailyCounts, nil
}
