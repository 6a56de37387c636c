// Package ebay implements the eBay marketplace adapter on top of the
// Browse API with OAuth2 client-credentials authentication.
package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/offerscout/offerscout/internal/metrics"
	"github.com/offerscout/offerscout/internal/source"
	domain "github.com/offerscout/offerscout/pkg/types"
)

const (
	defaultBrowseURL   = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	defaultMarketplace = "EBAY_US"

	// Browse API condition ids: 1000 brand new; 1500 open box,
	// 2000/2500 refurbished grades, 3000 used.
	filterNew  = "conditionIds:{1000}"
	filterUsed = "conditionIds:{1500|2000|2500|3000}"
)

// Adapter implements source.Adapter against the eBay Browse API.
type Adapter struct {
	tokens      TokenProvider
	browseURL   string
	marketplace string
	target      string
	client      *http.Client
	rateLimiter *RateLimiter
}

// Compile-time interface check.
var _ source.Adapter = (*Adapter)(nil)

// BrowseOption configures the Adapter.
type BrowseOption func(*Adapter)

// WithBrowseURL overrides the default Browse API endpoint.
func WithBrowseURL(u string) BrowseOption {
	return func(a *Adapter) {
		a.browseURL = u
	}
}

// WithMarketplace overrides the default marketplace.
func WithMarketplace(m string) BrowseOption {
	return func(a *Adapter) {
		a.marketplace = m
	}
}

// WithBrowseHTTPClient overrides the default HTTP client.
func WithBrowseHTTPClient(hc *http.Client) BrowseOption {
	return func(a *Adapter) {
		a.client = hc
	}
}

// WithRateLimiter injects a rate limiter that controls per-second and daily
// API call limits. When set, every Search() call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) BrowseOption {
	return func(a *Adapter) {
		a.rateLimiter = r
	}
}

// NewAdapter creates an eBay adapter converting Browse results into raw
// offers. target is the currency assumed when an item carries no price
// block.
func NewAdapter(tokens TokenProvider, target string, opts ...BrowseOption) *Adapter {
	a := &Adapter{
		tokens:      tokens,
		browseURL:   defaultBrowseURL,
		marketplace: defaultMarketplace,
		target:      target,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements source.Adapter.
func (*Adapter) Name() string { return "eBay" }

// NewOnly implements source.Adapter. eBay serves all conditions.
func (*Adapter) NewOnly() bool { return false }

type browseAPIResponse struct {
	ItemSummaries []ItemSummary `json:"itemSummaries"`
	Total         int           `json:"total"`
}

// Search implements source.Adapter by querying the Browse API.
func (a *Adapter) Search(
	ctx context.Context,
	query string,
	filter domain.ConditionFilter,
) ([]domain.RawOffer, error) {
	if a.rateLimiter != nil {
		if err := a.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.EbayDailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.EbayDailyUsage.Set(float64(a.rateLimiter.DailyCount()))
	}

	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	metrics.EbayAPICallsTotal.Inc()

	u := a.buildSearchURL(query, filter)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", a.marketplace)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"eBay API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp browseAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return a.toRawOffers(apiResp.ItemSummaries), nil
}

func (a *Adapter) buildSearchURL(query string, filter domain.ConditionFilter) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(source.MaxOffersPerSource))

	switch filter {
	case domain.ConditionNew:
		params.Set("filter", filterNew)
	case domain.ConditionUsed:
		params.Set("filter", filterUsed)
	case domain.ConditionAny:
		// no condition restriction
	}

	return a.browseURL + "?" + params.Encode()
}

// toRawOffers converts Browse item summaries into raw offers, applying the
// field defaults: 0/target for a missing price block, 0 for missing
// shipping, "Unknown" for a missing condition, "" for missing URLs. A
// malformed field never drops the whole batch.
func (a *Adapter) toRawOffers(items []ItemSummary) []domain.RawOffer {
	offers := make([]domain.RawOffer, 0, len(items))
	for i := range items {
		offers = append(offers, a.toRawOffer(&items[i]))
	}
	return offers
}

func (a *Adapter) toRawOffer(item *ItemSummary) domain.RawOffer {
	o := domain.RawOffer{
		Title:     item.Title,
		Currency:  a.target,
		Condition: item.Condition,
		ItemURL:   item.ItemWebURL,
	}

	if item.Price != nil {
		if p, err := strconv.ParseFloat(item.Price.Value, 64); err == nil {
			o.Price = p
		}
		if item.Price.Currency != "" {
			o.Currency = item.Price.Currency
		}
	}

	if len(item.ShippingOptions) > 0 {
		if sc := item.ShippingOptions[0].ShippingCost; sc != nil {
			if cost, err := strconv.ParseFloat(sc.Value, 64); err == nil {
				o.Shipping = cost
			}
		}
	}

	if o.Condition == "" {
		o.Condition = "Unknown"
	}

	if item.Image != nil {
		o.ImageURL = item.Image.ImageURL
	}

	return o
}
