// Package aggregator orchestrates a search across all configured offer
// sources: it normalizes the query once, fans out to the adapters
// concurrently, converts every price to the target currency, and returns a
// single list ranked by landed cost.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/offerscout/offerscout/internal/metrics"
	"github.com/offerscout/offerscout/internal/source"
	"github.com/offerscout/offerscout/pkg/landed"
	"github.com/offerscout/offerscout/pkg/query"
	domain "github.com/offerscout/offerscout/pkg/types"
)

const defaultSourceTimeout = 10 * time.Second

// RateSource supplies the current conversion table for the target currency.
type RateSource interface {
	Rates(ctx context.Context) domain.RateTable
}

// Recorder persists a trace of each completed search. Writes are
// best-effort: a failing recorder never fails the search.
type Recorder interface {
	RecordSearch(ctx context.Context, rec domain.SearchRecord) error
}

// Aggregator fans a search out to every registered source adapter and
// merges the results into one ranked list.
type Aggregator struct {
	adapters      []source.Adapter
	rates         RateSource
	target        string
	sourceTimeout time.Duration
	recorder      Recorder
	log           *slog.Logger
	nowFunc       func() time.Time // for testing
}

// Option configures the Aggregator.
type Option func(*Aggregator)

// WithSourceTimeout overrides the default 10-second per-source deadline.
func WithSourceTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		a.sourceTimeout = d
	}
}

// WithRecorder enables best-effort search history recording.
func WithRecorder(r Recorder) Option {
	return func(a *Aggregator) {
		a.recorder = r
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		a.log = l
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(a *Aggregator) {
		a.nowFunc = f
	}
}

// New creates an Aggregator over the given adapters. Results are ranked by
// total cost expressed in the target currency.
func New(adapters []source.Adapter, rs RateSource, target string, opts ...Option) *Aggregator {
	a := &Aggregator{
		adapters:      adapters,
		rates:         rs,
		target:        target,
		sourceTimeout: defaultSourceTimeout,
		log:           slog.Default(),
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Search runs one aggregated search. A blank raw query returns an empty
// result without touching any source; a query that merely normalizes to
// nothing is still passed to every adapter unchanged (adapters tolerate an
// empty query). Individual source failures are logged and dropped; the
// merged result carries whatever the healthy sources contributed.
func (a *Aggregator) Search(
	ctx context.Context,
	rawQuery string,
	filter domain.ConditionFilter,
) (domain.Result, error) {
	start := a.nowFunc()
	metrics.SearchesTotal.Inc()

	result := domain.Result{
		Query:           rawQuery,
		NormalizedQuery: query.Normalize(rawQuery),
		Offers:          []domain.Offer{},
	}
	if strings.TrimSpace(rawQuery) == "" {
		metrics.SearchEmptyTotal.Inc()
		return result, nil
	}

	table := a.rates.Rates(ctx)
	contributions := a.fanOut(ctx, result.NormalizedQuery, filter, table)

	for _, offers := range contributions {
		result.Offers = append(result.Offers, offers...)
	}

	sort.SliceStable(result.Offers, func(i, j int) bool {
		return result.Offers[i].TotalCost < result.Offers[j].TotalCost
	})
	result.Stats = domain.ComputeStats(result.Offers)

	if len(result.Offers) == 0 {
		metrics.SearchEmptyTotal.Inc()
	}
	metrics.SearchDuration.Observe(a.nowFunc().Sub(start).Seconds())

	a.record(ctx, result, filter)

	return result, nil
}

// fanOut queries every eligible adapter concurrently and returns their
// contributions indexed by adapter. New-only sources are skipped entirely
// when the caller asked for used items.
func (a *Aggregator) fanOut(
	ctx context.Context,
	normalized string,
	filter domain.ConditionFilter,
	table domain.RateTable,
) [][]domain.Offer {
	contributions := make([][]domain.Offer, len(a.adapters))

	var wg sync.WaitGroup
	for i, adapter := range a.adapters {
		if filter == domain.ConditionUsed && adapter.NewOnly() {
			continue
		}

		wg.Add(1)
		go func(idx int, ad source.Adapter) {
			defer wg.Done()
			contributions[idx] = a.searchOne(ctx, ad, normalized, filter, table)
		}(i, adapter)
	}
	wg.Wait()

	return contributions
}

// searchOne runs a single adapter under its own deadline and converts its
// raw offers to the target currency. Any error means an empty contribution.
func (a *Aggregator) searchOne(
	ctx context.Context,
	adapter source.Adapter,
	normalized string,
	filter domain.ConditionFilter,
	table domain.RateTable,
) []domain.Offer {
	name := adapter.Name()
	metrics.SourceSearchesTotal.WithLabelValues(name).Inc()

	sctx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
	defer cancel()

	begin := time.Now()
	raw, err := adapter.Search(sctx, normalized, filter)
	metrics.SourceSearchDuration.WithLabelValues(name).Observe(time.Since(begin).Seconds())

	if err != nil {
		metrics.SourceFailuresTotal.WithLabelValues(name).Inc()
		a.log.Warn("source search failed, dropping its contribution",
			"source", name,
			"query", normalized,
			"error", err,
		)
		return nil
	}

	metrics.SourceOffersReturned.WithLabelValues(name).Observe(float64(len(raw)))

	offers := make([]domain.Offer, 0, len(raw))
	for _, r := range raw {
		offers = append(offers, a.normalize(name, r, table))
	}
	return offers
}

// normalize converts one raw offer into the cross-source comparable form.
// The display string keeps the source's original currency; only TotalCost
// is converted.
func (a *Aggregator) normalize(sourceName string, r domain.RawOffer, table domain.RateTable) domain.Offer {
	price := landed.ToTarget(r.Price, r.Currency, table.Rates, a.target)
	shipping := landed.ToTarget(r.Shipping, r.Currency, table.Rates, a.target)

	return domain.Offer{
		Source:    sourceName,
		Title:     r.Title,
		Condition: r.Condition,
		PriceInfo: fmt.Sprintf("%.2f %s (+ %.2f ship)", r.Price, r.Currency, r.Shipping),
		TotalCost: price + shipping,
		ImageURL:  r.ImageURL,
		ItemURL:   r.ItemURL,
	}
}

// record persists the search trace when a recorder is configured. Failures
// are counted and logged, never surfaced.
func (a *Aggregator) record(ctx context.Context, res domain.Result, filter domain.ConditionFilter) {
	if a.recorder == nil {
		return
	}

	rec := domain.SearchRecord{
		ID:              uuid.NewString(),
		Query:           res.Query,
		NormalizedQuery: res.NormalizedQuery,
		Filter:          string(filter),
		ResultCount:     res.Stats.Count,
		MinTotal:        res.Stats.MinTotal,
		MeanTotal:       res.Stats.MeanTotal,
		TopSource:       res.Stats.TopSource,
		CreatedAt:       a.nowFunc(),
	}

	if err := a.recorder.RecordSearch(ctx, rec); err != nil {
		metrics.HistoryWriteFailuresTotal.Inc()
		a.log.Warn("recording search history failed",
			"query", res.Query,
			"error", err,
		)
		return
	}
	metrics.HistoryWritesTotal.Inc()
}
