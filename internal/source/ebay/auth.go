package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token" //nolint:gosec // not a credential
	defaultScope    = "https://api.ebay.com/oauth/api_scope"

	// Tokens are refreshed this long before their actual expiry so an
	// in-flight search never races token expiration.
	refreshBuffer = 60 * time.Second
)

// ErrNoCredentials is returned when the client id or secret is missing.
// The adapter short-circuits to an empty result without a network call.
var ErrNoCredentials = errors.New("ebay credentials not configured")

// TokenProvider obtains OAuth2 bearer tokens for the Browse API.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// OAuthTokenProvider implements the client credentials grant: client id and
// secret go out as Basic auth, a bearer token comes back. The token is cached
// under a mutex until shortly before expiry.
type OAuthTokenProvider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	scope        string
	client       *http.Client
	nowFunc      func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// OAuthOption configures the OAuthTokenProvider.
type OAuthOption func(*OAuthTokenProvider)

// WithTokenURL overrides the default eBay token endpoint.
func WithTokenURL(u string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.tokenURL = u
	}
}

// WithTokenHTTPClient overrides the default HTTP client.
func WithTokenHTTPClient(c *http.Client) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.client = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.nowFunc = f
	}
}

// NewOAuthTokenProvider creates a new eBay OAuth2 token provider.
func NewOAuthTokenProvider(clientID, clientSecret string, opts ...OAuthOption) *OAuthTokenProvider {
	p := &OAuthTokenProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		scope:        defaultScope,
		client:       &http.Client{Timeout: 10 * time.Second},
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns a valid access token, minting a new one when the cached
// token is stale. It returns ErrNoCredentials without network I/O when
// either credential is absent.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	if p.clientID == "" || p.clientSecret == "" {
		return "", ErrNoCredentials
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.nowFunc().Before(p.expiry.Add(-refreshBuffer)) {
		return p.token, nil
	}

	token, expiresIn, err := p.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	p.token = token
	p.expiry = p.nowFunc().Add(expiresIn)
	return p.token, nil
}

func (p *OAuthTokenProvider) fetchToken(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {p.scope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.clientID, p.clientSecret)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &apiErr) //nolint:errcheck // best-effort error parsing
		return "", 0, fmt.Errorf("token request failed (status %d): %s - %s",
			resp.StatusCode, apiErr.Error, apiErr.ErrorDescription)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", 0, fmt.Errorf("parsing token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", 0, errors.New("token response missing access_token")
	}

	return tok.AccessToken, time.Duration(tok.ExpiresIn) * time.Second, nil
}
