// Package gateway — REST клиент бэкенда дашборда ставок.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
)

// Client обращается к REST API бэкенда от имени одной сессии.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    Session
	limiter    *rate.Limiter
	log        zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit ограничивает частоту запросов клиента; rps <= 0 снимает ограничение.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// New создаёт клиент. Сессия может быть пустой для входа и регистрации.
func New(baseURL string, session Session, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "http"
	}
	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    session,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// WithSession возвращает копию клиента с другой сессией.
func (c *Client) WithSession(s Session) *Client {
	cp := *c
	cp.session = s
	return &cp
}

// Session возвращает текущую сессию клиента.
func (c *Client) Session() Session {
	return c.session
}

func (c *Client) get(ctx context.Context, route, endpoint string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, route, endpoint, query, nil, out)
}

func (c *Client) post(ctx context.Context, route, endpoint string, body, out any) error {
	return c.call(ctx, http.MethodPost, route, endpoint, nil, body, out)
}

func (c *Client) put(ctx context.Context, route, endpoint string, body, out any) error {
	return c.call(ctx, http.MethodPut, route, endpoint, nil, body, out)
}

func (c *Client) delete(ctx context.Context, route, endpoint string, body any) error {
	return c.call(ctx, http.MethodDelete, route, endpoint, nil, body, nil)
}

// call выполняет запрос; route задаёт шаблон пути для метрик без идентификаторов.
func (c *Client) call(ctx context.Context, method, route, endpoint string, query url.Values, body, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveNetworkRequest("gateway", method, route, start, err)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	req, err := c.newRequest(ctx, method, endpoint, query, body)
	if err != nil {
		return err
	}
	err = c.do(req, out)
	c.log.Debug().
		Str("method", method).
		Str("route", route).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Dur("elapsed", time.Since(start)).
		Err(err).
		Msg("gateway: запрос выполнен")
	return err
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, query url.Values, body any) (*http.Request, error) {
	resolved := *c.baseURL
	basePath := strings.TrimSuffix(c.baseURL.EscapedPath(), "/")
	rawPath := path.Clean(basePath + endpoint)
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return nil, fmt.Errorf("escape path: %w", err)
	}
	resolved.Path = decoded
	resolved.RawPath = rawPath
	if len(query) > 0 {
		resolved.RawQuery = query.Encode()
	}
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, resolved.String(), buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr apiError
		data, readErr := io.ReadAll(resp.Body)
		if readErr == nil && len(data) > 0 {
			_ = json.Unmarshal(data, &apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = apiErr.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return mapAPIError(resp.StatusCode, apiErr)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapAPIError(status int, err apiError) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, err.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, err.Message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("api invalid request: %s", err.Message)
	default:
		return fmt.Errorf("api error: status=%d message=%s", status, err.Message)
	}
}

func window(from, to time.Time) url.Values {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		q.Set("to", to.UTC().Format(time.RFC3339))
	}
	return q
}

func escaped(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}
