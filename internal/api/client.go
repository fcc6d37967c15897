// Package api implements the typed client for the bookstore backend.
// The contract is consumed, not owned: paths, payloads and error shapes
// follow the backend as deployed.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/chapters/internal"
	"github.com/dukerupert/chapters/internal/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheSize bounds the book-detail and ratings-summary caches.
const cacheSize = 128

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means anonymous.
type TokenSource interface {
	Token() string
}

// Client talks to the bookstore backend over HTTP.
// Every request carries the configured timeout; a timed-out request
// surfaces as a normal fetch failure.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger

	bookCache   *lru.Cache[int, *domain.Book]
	ratingCache *lru.Cache[int, []domain.RatingCount]
}

// NewClient creates a backend client from configuration.
// tokens may be nil for a purely anonymous client.
func NewClient(cfg internal.APIConfig, tokens TokenSource, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api base URL must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	bookCache, err := lru.New[int, *domain.Book](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create book cache: %w", err)
	}
	ratingCache, err := lru.New[int, []domain.RatingCount](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create rating cache: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		tokens:      tokens,
		logger:      logger,
		bookCache:   bookCache,
		ratingCache: ratingCache,
	}, nil
}

// do executes one request and decodes a 2xx JSON body into out (when out
// is non-nil). Non-2xx statuses map onto domain error codes; the caller
// never sees a bare status code.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "api.request", "backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp, method, path)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "api.request", "malformed backend response")
	}

	return nil
}

// errorFromResponse maps a non-2xx response onto a domain error.
func (c *Client) errorFromResponse(resp *http.Response, method, path string) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return domain.Unauthorized("api.request", "authentication required")
	case http.StatusNotFound:
		return domain.NotFound("api.request", "resource", path)
	}

	c.logger.Warn("backend request failed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(snippet)),
	)

	return domain.Errorf(domain.EINTERNAL, "api.request",
		"backend returned status %d", resp.StatusCode)
}
