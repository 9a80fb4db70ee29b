// Package shopify talks to the commerce platform's Admin API: the GraphQL
// variant search used for the catalog and the REST inventory level lookup.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Options struct {
	// Domain is the shop domain, e.g. "acme.myshopify.com". A value with a
	// scheme is used verbatim as the base URL.
	Domain      string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
	HTTPClient  *http.Client

	// RequestsPerSecond caps outgoing calls across all goroutines sharing
	// the client. Zero means DefaultRequestsPerSecond.
	RequestsPerSecond float64

	// MaxRetries bounds retries of throttled (429) requests.
	MaxRetries int
}

const (
	DefaultRequestsPerSecond = 2
	DefaultMaxRetries        = 2
)

type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("shopify: http status %d: %s", e.StatusCode, e.Body)
}

func NewClient(opts Options) (*Client, error) {
	domain := strings.TrimRight(strings.TrimSpace(opts.Domain), "/")
	if domain == "" {
		return nil, errors.New("shopify: domain is required")
	}
	if strings.TrimSpace(opts.APIVersion) == "" {
		return nil, errors.New("shopify: api version is required")
	}
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	if _, err := url.Parse(domain); err != nil {
		return nil, fmt.Errorf("shopify: invalid domain: %w", err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		to := opts.Timeout
		if to <= 0 {
			to = 30 * time.Second
		}
		hc = &http.Client{Timeout: to}
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	return &Client{
		baseURL:    domain + "/admin/api/" + strings.TrimSpace(opts.APIVersion),
		token:      opts.AccessToken,
		http:       hc,
		limiter:    rate.NewLimiter(rate.Limit(rps), max(1, int(rps)*2)),
		maxRetries: retries,
	}, nil
}

// do sends one request, waiting on the shared limiter first and retrying
// 429 responses after the server's Retry-After delay.
func (c *Client) do(ctx context.Context, method, u string, body []byte) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		b, retryAfter, err := c.send(ctx, method, u, body)
		var se *StatusError
		if err == nil || !errors.As(err, &se) || se.StatusCode != http.StatusTooManyRequests || attempt >= c.maxRetries {
			return b, err
		}

		t := time.NewTimer(retryAfter)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (c *Client) send(ctx context.Context, method, u string, body []byte) ([]byte, time.Duration, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("shopify: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, retryDelay(resp.Header.Get("Retry-After")), &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(b), 256)}
	}
	return b, 0, nil
}

// retryDelay parses Retry-After as (fractional) seconds, defaulting to 1s.
func retryDelay(h string) time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil || secs < 0 {
		return time.Second
	}
	return time.Duration(secs * float64(time.Second))
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, c.baseURL+path, buf)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
