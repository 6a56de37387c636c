package ebay_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerscout/offerscout/internal/source/ebay"
	domain "github.com/offerscout/offerscout/pkg/types"
)

// staticTokens is a TokenProvider stub returning a fixed token or error.
type staticTokens struct {
	token string
	err   error
}

func (s *staticTokens) Token(context.Context) (string, error) {
	return s.token, s.err
}

func TestAdapter_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		filter     domain.ConditionFilter
		handler    http.HandlerFunc
		tokenErr   error
		wantErr    bool
		errContain string
		wantOffers int
	}{
		{
			name:   "successful search sends headers, cap, and condition filter",
			filter: domain.ConditionNew,
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				assert.Equal(t, "EBAY_US", r.Header.Get("X-EBAY-C-MARKETPLACE-ID"))
				assert.Equal(t, "sony wh-1000xm5", r.URL.Query().Get("q"))
				assert.Equal(t, "10", r.URL.Query().Get("limit"))
				assert.Equal(t, "conditionIds:{1000}", r.URL.Query().Get("filter"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{
					"itemSummaries": [
						{"itemId": "v1|1|0", "title": "Sony WH-1000XM5", "price": {"value": "299.00", "currency": "USD"}, "condition": "New", "itemWebUrl": "https://ebay.com/1"},
						{"itemId": "v1|2|0", "title": "Sony WH-1000XM5 Silver", "price": {"value": "310.00", "currency": "USD"}, "condition": "New", "itemWebUrl": "https://ebay.com/2"}
					],
					"total": 2
				}`))
			},
			wantOffers: 2,
		},
		{
			name:   "used filter requests the non-new condition codes",
			filter: domain.ConditionUsed,
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "conditionIds:{1500|2000|2500|3000}", r.URL.Query().Get("filter"))
				_, _ = w.Write([]byte(`{"itemSummaries": [], "total": 0}`))
			},
			wantOffers: 0,
		},
		{
			name:   "any filter omits the condition expression",
			filter: domain.ConditionAny,
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.False(t, r.URL.Query().Has("filter"))
				_, _ = w.Write([]byte(`{"itemSummaries": [], "total": 0}`))
			},
			wantOffers: 0,
		},
		{
			name:   "401 unauthorized response",
			filter: domain.ConditionAny,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"errors": [{"message": "Invalid access token"}]}`))
			},
			wantErr:    true,
			errContain: "status 401",
		},
		{
			name:       "token provider error",
			filter:     domain.ConditionAny,
			handler:    func(_ http.ResponseWriter, _ *http.Request) {},
			tokenErr:   errors.New("token fetch failed"),
			wantErr:    true,
			errContain: "getting auth token",
		},
		{
			name:   "invalid JSON response",
			filter: domain.ConditionAny,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not valid json"))
			},
			wantErr:    true,
			errContain: "parsing search response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			tokens := &staticTokens{token: "test-token", err: tt.tokenErr}
			a := ebay.NewAdapter(tokens, "USD", ebay.WithBrowseURL(srv.URL))

			offers, err := a.Search(context.Background(), "sony wh-1000xm5", tt.filter)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}

			require.NoError(t, err)
			assert.Len(t, offers, tt.wantOffers)
		})
	}
}

func TestAdapter_FieldDefaults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// One fully populated item, one with everything optional missing,
		// one with a malformed price value.
		_, _ = w.Write([]byte(`{
			"itemSummaries": [
				{
					"itemId": "v1|1|0",
					"title": "Full item",
					"price": {"value": "270.00", "currency": "GBP"},
					"shippingOptions": [{"shippingCost": {"value": "12.50", "currency": "GBP"}}],
					"condition": "Open Box",
					"image": {"imageUrl": "https://i.ebayimg.com/images/g/x/s-l500.jpg"},
					"itemWebUrl": "https://ebay.com/1"
				},
				{"itemId": "v1|2|0", "title": "Bare item"},
				{"itemId": "v1|3|0", "title": "Bad price", "price": {"value": "n/a", "currency": "EUR"}}
			],
			"total": 3
		}`))
	}))
	defer srv.Close()

	a := ebay.NewAdapter(&staticTokens{token: "t"}, "USD", ebay.WithBrowseURL(srv.URL))

	offers, err := a.Search(context.Background(), "anything", domain.ConditionAny)
	require.NoError(t, err)
	require.Len(t, offers, 3)

	full := offers[0]
	assert.Equal(t, "Full item", full.Title)
	assert.InDelta(t, 270.00, full.Price, 1e-9)
	assert.Equal(t, "GBP", full.Currency)
	assert.InDelta(t, 12.50, full.Shipping, 1e-9)
	assert.Equal(t, "Open Box", full.Condition)
	assert.Equal(t, "https://i.ebayimg.com/images/g/x/s-l500.jpg", full.ImageURL)
	assert.Equal(t, "https://ebay.com/1", full.ItemURL)

	bare := offers[1]
	assert.Zero(t, bare.Price)
	assert.Equal(t, "USD", bare.Currency)
	assert.Zero(t, bare.Shipping)
	assert.Equal(t, "Unknown", bare.Condition)
	assert.Empty(t, bare.ImageURL)
	assert.Empty(t, bare.ItemURL)

	// A malformed price value defaults to 0 but keeps the stated currency;
	// the item itself is not dropped.
	bad := offers[2]
	assert.Zero(t, bad.Price)
	assert.Equal(t, "EUR", bad.Currency)
}

func TestAdapter_NewOnly(t *testing.T) {
	t.Parallel()

	a := ebay.NewAdapter(&staticTokens{token: "t"}, "USD")
	assert.Equal(t, "eBay", a.Name())
	assert.False(t, a.NewOnly())
}
