package woo

import (
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

	"github.com/sethvargo/go-retry"

	pkgerrors "github.com/shopmetrics/shopmetrics-backend/pkg/errors"
	"github.com/shopmetrics/shopmetrics-backend/pkg/logger"
)

// maxResponseSize bounds a single API response body (10MB).
const maxResponseSize = 10 * 1024 * 1024

const apiBasePath = "/wp-json/wc/v3"

// AuthMode selects how credentials are attached to each request.
type AuthMode string

const (
	AuthModeQuery AuthMode = "query"
	AuthModeBasic AuthMode = "basic"
)

var (
	errBaseURLRequired     = errors.New("woo base url is required")
	errCredentialsRequired = errors.New("woo consumer key and secret are required")
)

// Config describes one store's API endpoint plus transport knobs.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	AuthMode       AuthMode
	Timeout        time.Duration
	PageSize       int
	RetryAttempts  int
	RetryBackoff   time.Duration
}

// Client is a paginated, retrying WooCommerce REST client for a single store.
// It only reads; failures after exhausted retries surface as tagged
// dependency errors, never panics.
type Client struct {
	baseURL    string
	key        string
	secret     string
	authMode   AuthMode
	pageSize   int
	attempts   int
	backoff    time.Duration
	httpClient *http.Client
	logg       *logger.Logger
}

// NewClient validates the store credentials and builds a client.
func NewClient(cfg Config, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	if strings.TrimSpace(cfg.ConsumerKey) == "" || strings.TrimSpace(cfg.ConsumerSecret) == "" {
		return nil, errCredentialsRequired
	}

	mode := cfg.AuthMode
	if mode != AuthModeBasic {
		mode = AuthModeQuery
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}

	return &Client{
		baseURL:    base,
		key:        strings.TrimSpace(cfg.ConsumerKey),
		secret:     strings.TrimSpace(cfg.ConsumerSecret),
		authMode:   mode,
		pageSize:   pageSize,
		attempts:   attempts,
		backoff:    backoff,
		httpClient: &http.Client{Timeout: timeout},
		logg:       logg,
	}, nil
}

// PageSize reports the configured page size.
func (c *Client) PageSize() int {
	if c == nil {
		return 0
	}
	return c.pageSize
}

func (c *Client) FetchProducts(ctx context.Context, params url.Values) ([]Product, error) {
	return fetchAll[Product](ctx, c, "products", params)
}

func (c *Client) FetchCustomers(ctx context.Context, params url.Values) ([]Customer, error) {
	return fetchAll[Customer](ctx, c, "customers", params)
}

func (c *Client) FetchCoupons(ctx context.Context, params url.Values) ([]Coupon, error) {
	return fetchAll[Coupon](ctx, c, "coupons", params)
}

func (c *Client) FetchSubscriptions(ctx context.Context, params url.Values) ([]Subscription, error) {
	return fetchAll[Subscription](ctx, c, "subscriptions", params)
}

func (c *Client) FetchOrders(ctx context.Context, params url.Values) ([]Order, error) {
	return fetchAll[Order](ctx, c, "orders", params)
}

func (c *Client) FetchRefunds(ctx context.Context, orderID int64) ([]Refund, error) {
	return fetchAll[Refund](ctx, c, fmt.Sprintf("orders/%d/refunds", orderID), nil)
}

// fetchAll paginates a collection resource until a short page is returned.
func fetchAll[T any](ctx context.Context, c *Client, resource string, params url.Values) ([]T, error) {
	var out []T
	for page := 1; ; page++ {
		query := url.Values{}
		for k, vs := range params {
			for _, v := range vs {
				query.Add(k, v)
			}
		}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(c.pageSize))

		body, err := c.getWithRetry(ctx, resource, query)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("fetching %s page %d", resource, page))
		}

		var batch []T
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decoding %s page %d", resource, page))
		}

		out = append(out, batch...)
		if len(batch) < c.pageSize {
			return out, nil
		}
	}
}

// getWithRetry performs a GET with a bounded retry: a fixed attempt count and
// a linearly increasing delay, replaced by the server's Retry-After hint when
// one is present on a 429.
func (c *Client) getWithRetry(ctx context.Context, resource string, query url.Values) ([]byte, error) {
	var payload []byte
	var retryAfterHint time.Duration
	attempt := 0

	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		if attempt >= c.attempts {
			return 0, true
		}
		delay := time.Duration(attempt) * c.backoff
		if retryAfterHint > 0 {
			delay = retryAfterHint
			retryAfterHint = 0
		}
		return delay, false
	})

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		body, hint, err := c.getOnce(ctx, resource, query)
		if err != nil {
			retryAfterHint = hint
			if c.logg != nil {
				c.logg.Warn(ctx, fmt.Sprintf("woo request failed, will retry: %v", err))
			}
			return retry.RetryableError(err)
		}
		payload = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// getOnce performs a single authenticated GET. The second return value is the
// server-provided Retry-After delay when rate limited, zero otherwise.
func (c *Client) getOnce(ctx context.Context, resource string, query url.Values) ([]byte, time.Duration, error) {
	endpoint := fmt.Sprintf("%s%s/%s", c.baseURL, apiBasePath, resource)

	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if c.authMode == AuthModeQuery {
		q.Set("consumer_key", c.key)
		q.Set("consumer_secret", c.secret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if c.authMode == AuthModeBasic {
		req.SetBasicAuth(c.key, c.secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), fmt.Errorf("rate limited: status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, 0, nil
}

func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
