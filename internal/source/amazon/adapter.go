// Package amazon implements a PA-API 5 style partner keyword search
// adapter. Amazon only serves brand-new items through this API, so the
// adapter declares itself New-only and the aggregator skips it when the
// filter excludes New.
package amazon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/offerscout/offerscout/internal/source"
	domain "github.com/offerscout/offerscout/pkg/types"
)

const (
	defaultEndpoint = "https://webservices.amazon.com/paapi5/searchitems"
	defaultRegion   = "us-east-1"
	serviceName     = "ProductAdvertisingAPI"
	amzTarget       = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.SearchItems"
)

// ErrNoCredentials is returned when any of the three credential parts
// (access key, secret key, partner tag) is missing. No call is attempted.
var ErrNoCredentials = errors.New("amazon credentials not configured")

// Adapter implements source.Adapter against a PA-API SearchItems endpoint.
type Adapter struct {
	accessKey  string
	secretKey  string
	partnerTag string
	endpoint   string
	region     string
	client     *http.Client
	nowFunc    func() time.Time
}

var _ source.Adapter = (*Adapter)(nil)

// Option configures the Adapter.
type Option func(*Adapter)

// WithEndpoint overrides the default SearchItems endpoint.
func WithEndpoint(u string) Option {
	return func(a *Adapter) {
		a.endpoint = u
	}
}

// WithRegion overrides the default signing region.
func WithRegion(r string) Option {
	return func(a *Adapter) {
		a.region = r
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *Adapter) {
		a.client = hc
	}
}

// WithNowFunc overrides the time function used for request signing.
func WithNowFunc(f func() time.Time) Option {
	return func(a *Adapter) {
		a.nowFunc = f
	}
}

// NewAdapter creates an Amazon partner-search adapter.
func NewAdapter(accessKey, secretKey, partnerTag string, opts ...Option) *Adapter {
	a := &Adapter{
		accessKey:  accessKey,
		secretKey:  secretKey,
		partnerTag: partnerTag,
		endpoint:   defaultEndpoint,
		region:     defaultRegion,
		client:     &http.Client{Timeout: 10 * time.Second},
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements source.Adapter.
func (*Adapter) Name() string { return "Amazon" }

// NewOnly implements source.Adapter.
func (*Adapter) NewOnly() bool { return true }

type searchRequest struct {
	Keywords    string   `json:"Keywords"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	ItemCount   int      `json:"ItemCount"`
	Resources   []string `json:"Resources"`
}

type searchResponse struct {
	SearchResult struct {
		Items []searchItem `json:"Items"`
	} `json:"SearchResult"`
	Errors []struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Errors"`
}

type searchItem struct {
	DetailPageURL string `json:"DetailPageURL"`
	ItemInfo      struct {
		Title struct {
			DisplayValue string `json:"DisplayValue"`
		} `json:"Title"`
	} `json:"ItemInfo"`
	Images struct {
		Primary struct {
			Medium struct {
				URL string `json:"URL"`
			} `json:"Medium"`
		} `json:"Primary"`
	} `json:"Images"`
	Offers struct {
		Listings []struct {
			Price struct {
				Amount   float64 `json:"Amount"`
				Currency string  `json:"Currency"`
			} `json:"Price"`
		} `json:"Listings"`
	} `json:"Offers"`
}

// Search implements source.Adapter by issuing a signed SearchItems call.
// Every returned item is condition "New"; shipping is not modeled for this
// source (assumed bundled or zero).
func (a *Adapter) Search(
	ctx context.Context,
	query string,
	_ domain.ConditionFilter,
) ([]domain.RawOffer, error) {
	if a.accessKey == "" || a.secretKey == "" || a.partnerTag == "" {
		return nil, ErrNoCredentials
	}

	payload, err := json.Marshal(searchRequest{
		Keywords:    query,
		PartnerTag:  a.partnerTag,
		PartnerType: "Associates",
		ItemCount:   source.MaxOffersPerSource,
		Resources: []string{
			"ItemInfo.Title",
			"Offers.Listings.Price",
			"Images.Primary.Medium",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		a.endpoint,
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Content-Encoding", "amz-1.0")
	req.Header.Set("X-Amz-Target", amzTarget)

	sgn := &signer{
		accessKey: a.accessKey,
		secretKey: a.secretKey,
		region:    a.region,
		service:   serviceName,
	}
	sgn.sign(req, payload, a.nowFunc())

	resp, err := a.client.Do(req)
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
			"amazon API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp searchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	if len(apiResp.Errors) > 0 {
		return nil, fmt.Errorf(
			"amazon API error: %s - %s",
			apiResp.Errors[0].Code,
			apiResp.Errors[0].Message,
		)
	}

	return toRawOffers(apiResp.SearchResult.Items), nil
}

func toRawOffers(items []searchItem) []domain.RawOffer {
	offers := make([]domain.RawOffer, 0, len(items))
	for i := range items {
		item := &items[i]

		o := domain.RawOffer{
			Title:     item.ItemInfo.Title.DisplayValue,
			Currency:  "USD",
			Condition: "New",
			ImageURL:  item.Images.Primary.Medium.URL,
			ItemURL:   item.DetailPageURL,
		}

		if len(item.Offers.Listings) > 0 {
			price := item.Offers.Listings[0].Price
			o.Price = price.Amount
			if price.Currency != "" {
				o.Currency = price.Currency
			}
		}

		offers = append(offers, o)
	}
	return offers
}
