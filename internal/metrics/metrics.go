// Package metrics defines Prometheus metrics for offerscout.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "offerscout"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Health gauges, set by the metrics middleware when probes are hit.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the last liveness probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the last readiness probe succeeded, 0 otherwise.",
	})
)

// Source adapter metrics.
var (
	SourceSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_searches_total",
		Help:      "Total number of per-source search calls.",
	}, []string{"source"})

	SourceFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_failures_total",
		Help:      "Total number of per-source search calls that failed or timed out.",
	}, []string{"source"})

	SourceSearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_search_duration_seconds",
		Help:      "Duration of per-source search calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	SourceOffersReturned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_offers_returned",
		Help:      "Number of raw offers contributed per source per search.",
		Buckets:   prometheus.LinearBuckets(0, 2, 6), // 0, 2, 4, ..., 10
	}, []string{"source"})
)

// Aggregator metrics.
var (
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of aggregated searches.",
	})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "End-to-end duration of aggregated searches in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	SearchEmptyTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_empty_total",
		Help:      "Total number of aggregated searches that returned zero offers.",
	})
)

// Exchange-rate cache metrics.
var (
	RateRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_refreshes_total",
		Help:      "Total number of exchange-rate table refresh attempts.",
	})

	RateRefreshFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_refresh_failures_total",
		Help:      "Total number of failed exchange-rate refreshes (fail-open to identity).",
	})

	RateTableAge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_table_age_seconds",
		Help:      "Age of the cached exchange-rate table in seconds.",
	})
)

// eBay API metrics.
var (
	EbayAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_api_calls_total",
		Help:      "Total cumulative eBay API calls.",
	})

	EbayDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_daily_usage",
		Help:      "Current daily eBay API call count within the rolling 24-hour window.",
	})

	EbayDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_daily_limit_hits_total",
		Help:      "Total number of times the daily eBay API limit was reached.",
	})
)

// History store metrics.
var (
	HistoryWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_writes_total",
		Help:      "Total number of search records written to the history store.",
	})

	HistoryWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_write_failures_total",
		Help:      "Total number of failed history writes (best-effort, search unaffected).",
	})
)
