package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal demo config",
			yaml: `
search:
  demo: true
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.True(t, cfg.Search.Demo)
				assert.Equal(t, "USD", cfg.Search.TargetCurrency)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
search:
  demo: true
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.PoolSize)
				assert.Equal(t, 10*time.Second, cfg.Search.SourceTimeout)
				assert.Equal(t, "https://v6.exchangerate-api.com/v6", cfg.Rates.BaseURL)
				assert.Equal(t, time.Hour, cfg.Rates.TTL)
				assert.Equal(t, "https://api.ebay.com/identity/v1/oauth2/token", cfg.Ebay.TokenURL)
				assert.Equal(t, "EBAY_US", cfg.Ebay.Marketplace)
				assert.Equal(t, 5.0, cfg.Ebay.RateLimit.PerSecond)
				assert.Equal(t, 10, cfg.Ebay.RateLimit.Burst)
				assert.Equal(t, int64(5000), cfg.Ebay.RateLimit.DailyLimit)
				assert.Equal(t, "us-east-1", cfg.Amazon.Region)
				assert.Equal(t, 30*time.Minute, cfg.Schedule.RateWarmupInterval)
				assert.Equal(t, 6*time.Hour, cfg.Schedule.HistoryPruneInterval)
				assert.Equal(t, 30*24*time.Hour, cfg.Schedule.HistoryRetention)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
search:
  demo: true
ebay:
  client_id: my-client
  client_secret: "${TEST_EBAY_SECRET}"
`,
			envVars: map[string]string{
				"TEST_EBAY_SECRET": "secret123",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret123", cfg.Ebay.ClientSecret)
				assert.True(t, cfg.HasEbayCredentials())
			},
		},
		{
			name:    "no source configured",
			yaml:    `{}`,
			wantErr: "no source configured",
		},
		{
			name: "ebay credentials satisfy source requirement",
			yaml: `
ebay:
  client_id: id
  client_secret: secret
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.False(t, cfg.Search.Demo)
				assert.True(t, cfg.HasEbayCredentials())
				assert.False(t, cfg.HasAmazonCredentials())
			},
		},
		{
			name: "amazon credentials require all three fields",
			yaml: `
amazon:
  access_key: ak
  secret_key: sk
`,
			wantErr: "no source configured",
		},
		{
			name: "database enabled requires connection fields",
			yaml: `
search:
  demo: true
database:
  enabled: true
  host: localhost
`,
			wantErr: "database.name is required when database.enabled is true",
		},
		{
			name: "database disabled skips connection validation",
			yaml: `
search:
  demo: true
database:
  enabled: false
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.False(t, cfg.Database.Enabled)
			},
		},
		{
			name: "invalid target currency",
			yaml: `
search:
  demo: true
  target_currency: DOLLARS
`,
			wantErr: "search.target_currency must be a 3-letter ISO code",
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
database:
  enabled: true
  host: db.example.com
  port: 5433
  name: offerscout_prod
  user: admin
  password: pass
  sslmode: require
  pool_size: 20
search:
  target_currency: EUR
  source_timeout: 5s
rates:
  api_key: rate-key
  ttl: 15m
ebay:
  client_id: my-client-id
  client_secret: my-client-secret
  marketplace: EBAY_GB
  rate_limit:
    per_second: 2
    burst: 4
    daily_limit: 1000
amazon:
  access_key: ak
  secret_key: sk
  partner_tag: tag-20
  region: eu-west-1
schedule:
  rate_warmup_interval: 10m
  history_prune_interval: 1h
  history_retention: 168h
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "db.example.com", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, 20, cfg.Database.PoolSize)
				assert.Equal(t, "EUR", cfg.Search.TargetCurrency)
				assert.Equal(t, 5*time.Second, cfg.Search.SourceTimeout)
				assert.Equal(t, "rate-key", cfg.Rates.APIKey)
				assert.Equal(t, 15*time.Minute, cfg.Rates.TTL)
				assert.Equal(t, "EBAY_GB", cfg.Ebay.Marketplace)
				assert.Equal(t, 2.0, cfg.Ebay.RateLimit.PerSecond)
				assert.Equal(t, int64(1000), cfg.Ebay.RateLimit.DailyLimit)
				assert.True(t, cfg.HasAmazonCredentials())
				assert.Equal(t, "eu-west-1", cfg.Amazon.Region)
				assert.Equal(t, 10*time.Minute, cfg.Schedule.RateWarmupInterval)
				assert.Equal(t, 7*24*time.Hour, cfg.Schedule.HistoryRetention)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.True(t, cfg.Search.Demo)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "USD", cfg.Search.TargetCurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "basic DSN",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				Name:     "offerscout",
				User:     "scout",
				Password: "scoutpass",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 dbname=offerscout user=scout password=scoutpass sslmode=disable",
		},
		{
			name: "production DSN",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				Name:     "offerscout_prod",
				User:     "admin",
				Password: "s3cret",
				SSLMode:  "require",
			},
			want: "host=db.example.com port=5433 dbname=offerscout_prod user=admin password=s3cret sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
