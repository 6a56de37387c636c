package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, SourceSearchesTotal)
	assert.NotNil(t, SourceFailuresTotal)
	assert.NotNil(t, SourceSearchDuration)
	assert.NotNil(t, SourceOffersReturned)
	assert.NotNil(t, SearchesTotal)
	assert.NotNil(t, SearchDuration)
	assert.NotNil(t, SearchEmptyTotal)
	assert.NotNil(t, RateRefreshesTotal)
	assert.NotNil(t, RateRefreshFailuresTotal)
	assert.NotNil(t, RateTableAge)
	assert.NotNil(t, EbayAPICallsTotal)
	assert.NotNil(t, EbayDailyUsage)
	assert.NotNil(t, EbayDailyLimitHits)
	assert.NotNil(t, HistoryWritesTotal)
	assert.NotNil(t, HistoryWriteFailuresTotal)
}
