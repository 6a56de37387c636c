// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Rates    RatesConfig    `yaml:"rates"`
	Ebay     EbayConfig     `yaml:"ebay"`
	Amazon   AmazonConfig   `yaml:"amazon"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings for the search
// history store. When Enabled is false the server runs without persistence.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// SearchConfig defines aggregator behavior.
type SearchConfig struct {
	TargetCurrency string        `yaml:"target_currency"`
	SourceTimeout  time.Duration `yaml:"source_timeout"`
	Demo           bool          `yaml:"demo"` // serve the fixture catalog instead of live sources
}

// RatesConfig defines exchange-rate provider settings. An empty APIKey
// disables conversion: totals pass through in their source currency.
type RatesConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	TTL     time.Duration `yaml:"ttl"`
}

// EbayConfig defines eBay API settings.
type EbayConfig struct {
	ClientID     string          `yaml:"client_id"`
	ClientSecret string          `yaml:"client_secret"`
	TokenURL     string          `yaml:"token_url"`
	BrowseURL    string          `yaml:"browse_url"`
	Marketplace  string          `yaml:"marketplace"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// AmazonConfig defines Product Advertising API settings. All three
// credentials must be set for the adapter to be registered.
type AmazonConfig struct {
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	PartnerTag string `yaml:"partner_tag"`
	Endpoint   string `yaml:"endpoint"`
	Region     string `yaml:"region"`
}

// ScheduleConfig defines cron intervals for background jobs.
type ScheduleConfig struct {
	RateWarmupInterval   time.Duration `yaml:"rate_warmup_interval"`
	HistoryPruneInterval time.Duration `yaml:"history_prune_interval"`
	HistoryRetention     time.Duration `yaml:"history_retention"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration usable without a config file: demo mode,
// no persistence, all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Search.Demo = true
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applySearchDefaults(&cfg.Search)
	applyRatesDefaults(&cfg.Rates)
	applyEbayDefaults(&cfg.Ebay)
	applyAmazonDefaults(&cfg.Amazon)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applySearchDefaults(s *SearchConfig) {
	if s.TargetCurrency == "" {
		s.TargetCurrency = "USD"
	}
	if s.SourceTimeout == 0 {
		s.SourceTimeout = 10 * time.Second
	}
}

func applyRatesDefaults(r *RatesConfig) {
	if r.BaseURL == "" {
		r.BaseURL = "https://v6.exchangerate-api.com/v6"
	}
	if r.TTL == 0 {
		r.TTL = time.Hour
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.BrowseURL == "" {
		e.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_US"
	}
	applyRateLimitDefaults(&e.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyAmazonDefaults(a *AmazonConfig) {
	if a.Endpoint == "" {
		a.Endpoint = "https://webservices.amazon.com/paapi5/searchitems"
	}
	if a.Region == "" {
		a.Region = "us-east-1"
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.RateWarmupInterval == 0 {
		s.RateWarmupInterval = 30 * time.Minute
	}
	if s.HistoryPruneInterval == 0 {
		s.HistoryPruneInterval = 6 * time.Hour
	}
	if s.HistoryRetention == 0 {
		s.HistoryRetention = 30 * 24 * time.Hour
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required when database.enabled is true"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when database.enabled is true"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when database.enabled is true"))
		}
	}

	if !cfg.Search.Demo && !cfg.HasEbayCredentials() && !cfg.HasAmazonCredentials() {
		errs = append(errs, fmt.Errorf(
			"no source configured: set ebay or amazon credentials, or enable search.demo"))
	}

	if len(cfg.Search.TargetCurrency) != 3 {
		errs = append(errs, fmt.Errorf(
			"search.target_currency must be a 3-letter ISO code (got %q)", cfg.Search.TargetCurrency))
	}

	return errors.Join(errs...)
}

// HasEbayCredentials reports whether both eBay client credentials are set.
func (c *Config) HasEbayCredentials() bool {
	return c.Ebay.ClientID != "" && c.Ebay.ClientSecret != ""
}

// HasAmazonCredentials reports whether all Amazon PA-API credentials are set.
func (c *Config) HasAmazonCredentials() bool {
	return c.Amazon.AccessKey != "" && c.Amazon.SecretKey != "" && c.Amazon.PartnerTag != ""
}
