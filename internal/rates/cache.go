// Package rates provides a time-bounded cache of currency conversion rates
// fetched from exchangerate-api.com.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/offerscout/offerscout/internal/metrics"
	domain "github.com/offerscout/offerscout/pkg/types"
)

const (
	defaultBaseURL = "https://v6.exchangerate-api.com/v6"
	defaultTTL     = 3600 * time.Second
)

// Cache caches the exchange-rate table for one target currency. Reads
// within the TTL window return the cached snapshot; the first read after
// expiry refreshes under a mutex, so concurrent callers never duplicate an
// in-flight fetch. Any fetch failure stores an empty table for the TTL
// window, degrading conversion to identity pass-through rather than
// failing the search.
type Cache struct {
	apiKey  string
	target  string
	baseURL string
	ttl     time.Duration
	client  *http.Client
	log     *slog.Logger

	mu        sync.Mutex
	rates     map[string]float64
	fetchedAt time.Time
	nowFunc   func() time.Time // for testing
}

// Option configures the Cache.
type Option func(*Cache)

// WithBaseURL overrides the default exchangerate-api endpoint.
func WithBaseURL(u string) Option {
	return func(c *Cache) {
		c.baseURL = u
	}
}

// WithTTL overrides the default 3600-second table lifetime.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		c.ttl = d
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Cache) {
		c.client = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		c.log = l
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Cache) {
		c.nowFunc = f
	}
}

// New creates a Cache for the given target currency. An empty apiKey
// disables fetching entirely: Rates then always returns an empty table
// without network I/O.
func New(apiKey, target string, opts ...Option) *Cache {
	c := &Cache{
		apiKey:  apiKey,
		target:  target,
		baseURL: defaultBaseURL,
		ttl:     defaultTTL,
		client:  &http.Client{Timeout: 5 * time.Second},
		log:     slog.Default(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse is the exchangerate-api.com v6 payload shape.
type apiResponse struct {
	Result          string             `json:"result"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	ErrorType       string             `json:"error-type,omitempty"`
}

// Rates returns the current rate table, refreshing it when the TTL has
// elapsed. The returned table is a snapshot: callers may read it without
// synchronization and never observe a partial update.
func (c *Cache) Rates(ctx context.Context) domain.RateTable {
	if c.apiKey == "" {
		return domain.RateTable{Target: c.target}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	if c.fetchedAt.IsZero() || now.Sub(c.fetchedAt) >= c.ttl {
		c.refreshLocked(ctx, now)
	}

	metrics.RateTableAge.Set(now.Sub(c.fetchedAt).Seconds())

	return domain.RateTable{
		Target:    c.target,
		Rates:     copyRates(c.rates),
		FetchedAt: c.fetchedAt,
	}
}

// refreshLocked replaces the cached table. On failure it installs an empty
// table stamped with the current time, so the failure is not retried until
// the next TTL window.
func (c *Cache) refreshLocked(ctx context.Context, now time.Time) {
	metrics.RateRefreshesTotal.Inc()

	table, err := c.fetch(ctx)
	if err != nil {
		metrics.RateRefreshFailuresTotal.Inc()
		c.log.Warn("exchange rate refresh failed, conversions degrade to identity",
			"target", c.target,
			"error", err,
		)
		table = nil
	}

	c.rates = table
	c.fetchedAt = now
}

func (c *Cache) fetch(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, c.target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating rates request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing rates request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading rates response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates request failed (status %d)", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing rates response: %w", err)
	}

	if apiResp.Result != "success" {
		return nil, fmt.Errorf("rates provider returned result=%q error=%q",
			apiResp.Result, apiResp.ErrorType)
	}

	return apiResp.ConversionRates, nil
}

func copyRates(in map[string]float64) map[string]float64 {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
