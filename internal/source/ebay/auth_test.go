package ebay_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerscout/offerscout/internal/source/ebay"
)

// tokenServer is a fake OAuth endpoint that counts hits and hands out the
// given token with a 2-hour lifetime.
func tokenServer(t *testing.T, token string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":%q,"expires_in":7200,"token_type":"Application Access Token"}`, token)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestOAuthTokenProvider_FetchAndCache(t *testing.T) {
	t.Parallel()

	srv, hits := tokenServer(t, "tok-1")
	provider := ebay.NewOAuthTokenProvider("id", "secret", ebay.WithTokenURL(srv.URL))

	got, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	// Second call within the token lifetime is served from cache.
	got, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOAuthTokenProvider_RefreshesNearExpiry(t *testing.T) {
	t.Parallel()

	srv, hits := tokenServer(t, "tok-2")

	var (
		mu  sync.Mutex
		now = time.Now()
	)
	provider := ebay.NewOAuthTokenProvider("id", "secret",
		ebay.WithTokenURL(srv.URL),
		ebay.WithNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}),
	)

	_, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	// Inside the 60s refresh buffer the cached token no longer counts.
	mu.Lock()
	now = now.Add(7170 * time.Second)
	mu.Unlock()

	_, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestOAuthTokenProvider_MissingCredentials(t *testing.T) {
	t.Parallel()

	srv, hits := tokenServer(t, "never")

	for _, provider := range []*ebay.OAuthTokenProvider{
		ebay.NewOAuthTokenProvider("", "secret", ebay.WithTokenURL(srv.URL)),
		ebay.NewOAuthTokenProvider("id", "", ebay.WithTokenURL(srv.URL)),
	} {
		_, err := provider.Token(context.Background())
		require.ErrorIs(t, err, ebay.ErrNoCredentials)
	}
	assert.Equal(t, int32(0), hits.Load())
}

func TestOAuthTokenProvider_ServerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		errContain string
	}{
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"error":"invalid_client","error_description":"client authentication failed"}`,
			errContain: "status 401",
		},
		{
			name:       "malformed body",
			status:     http.StatusOK,
			body:       "not json",
			errContain: "parsing token response",
		},
		{
			name:       "empty token",
			status:     http.StatusOK,
			body:       `{"access_token":"","expires_in":7200}`,
			errContain: "missing access_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			provider := ebay.NewOAuthTokenProvider("id", "secret", ebay.WithTokenURL(srv.URL))

			_, err := provider.Token(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContain)
		})
	}
}

func TestOAuthTokenProvider_GrantRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "my-client-id", user)
		assert.Equal(t, "my-client-secret", pass)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		assert.Contains(t, r.FormValue("scope"), "api.ebay.com")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-3","expires_in":7200}`)
	}))
	defer srv.Close()

	provider := ebay.NewOAuthTokenProvider("my-client-id", "my-client-secret", ebay.WithTokenURL(srv.URL))

	got, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-3", got)
}
