// Package main implements a mock marketplace API server for local
// development. It simulates the eBay OAuth token and Browse endpoints plus
// the exchangerate-api latest-rates endpoint, serving canned responses from
// JSON fixtures so the full search pipeline runs without real credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type browseAPIResponse struct {
	ItemSummaries []json.RawMessage `json:"itemSummaries"`
	Total         int               `json:"total"`
	Limit         int               `json:"limit"`
}

type itemSummary struct {
	Title     string `json:"title"`
	Condition string `json:"condition"`
}

type ratesFixture struct {
	Result          string             `json:"result"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	searchFixture := flag.String("search-fixture",
		"tools/mock-server/testdata/search_response.json",
		"path to Browse search response fixture")
	ratesFixturePath := flag.String("rates-fixture",
		"tools/mock-server/testdata/rates_response.json",
		"path to exchange-rate response fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	search, err := loadSearchFixture(*searchFixture)
	if err != nil {
		logger.Error("failed to load search fixture", "path", *searchFixture, "error", err)
		os.Exit(1)
	}
	rates, err := loadRatesFixture(*ratesFixturePath)
	if err != nil {
		logger.Error("failed to load rates fixture", "path", *ratesFixturePath, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixtures",
		"items", len(search.ItemSummaries),
		"currencies", len(rates.ConversionRates),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /identity/v1/oauth2/token", tokenHandler(logger))
	mux.HandleFunc("GET /buy/browse/v1/item_summary/search", searchHandler(logger, search))
	mux.HandleFunc("GET /v6/{key}/latest/{target}", ratesHandler(logger, rates))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock marketplace server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadSearchFixture(path string) (*browseAPIResponse, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var resp browseAPIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &resp, nil
}

func loadRatesFixture(path string) (*ratesFixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var resp ratesFixture
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &resp, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func tokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Validate Basic Auth header is present (don't verify creds).
		if _, _, ok := r.BasicAuth(); !ok {
			logger.Warn("token request missing Basic Auth header")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_client",
				"error_description": "client authentication failed",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "mock-token-v1-" + strconv.FormatInt(int64(os.Getpid()), 16),
			"expires_in":   7200,
			"token_type":   "Application Access Token",
		})
		logger.Info("issued mock token")
	}
}

func searchHandler(logger *slog.Logger, fixture *browseAPIResponse) http.HandlerFunc {
	// Pre-parse titles and conditions for filtering.
	type indexedItem struct {
		raw       json.RawMessage
		title     string
		condition string
	}
	items := make([]indexedItem, 0, len(fixture.ItemSummaries))
	for _, raw := range fixture.ItemSummaries {
		var s itemSummary
		//nolint:errcheck,gosec // fixture data is trusted; extraction is best-effort
		json.Unmarshal(raw, &s)
		items = append(items, indexedItem{
			raw:       raw,
			title:     strings.ToLower(s.Title),
			condition: s.Condition,
		})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		condFilter := r.URL.Query().Get("filter")

		limit := 10
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			limit = v
		}

		var matched []json.RawMessage
		for _, item := range items {
			if q != "" && !strings.Contains(item.title, q) {
				continue
			}
			if !conditionMatches(item.condition, condFilter) {
				continue
			}
			matched = append(matched, item.raw)
			if len(matched) == limit {
				break
			}
		}

		resp := browseAPIResponse{
			ItemSummaries: matched,
			Total:         len(matched),
			Limit:         limit,
		}
		if resp.ItemSummaries == nil {
			resp.ItemSummaries = []json.RawMessage{}
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("search", "query", q, "filter", condFilter, "returned", len(matched))
	}
}

// conditionMatches interprets the Browse conditionIds filter expression.
// ID 1000 is the new-condition bucket; everything else counts as used or
// refurbished.
func conditionMatches(condition, filter string) bool {
	switch {
	case filter == "":
		return true
	case strings.Contains(filter, "{1000}"):
		return strings.Contains(condition, "New")
	default:
		return !strings.Contains(condition, "New")
	}
}

func ratesHandler(logger *slog.Logger, fixture *ratesFixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.PathValue("target")

		resp := *fixture
		resp.Result = "success"
		resp.BaseCode = target

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("rates", "target", target, "currencies", len(resp.ConversionRates))
	}
}
