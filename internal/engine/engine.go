// Package engine runs offerscout's background jobs: keeping the exchange
// rate table warm so searches never block on a refresh, and pruning old
// search history.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domain "github.com/offerscout/offerscout/pkg/types"
)

// RateSource supplies the current conversion table, refreshing it when
// stale.
type RateSource interface {
	Rates(ctx context.Context) domain.RateTable
}

// Pruner removes search history older than the retention window.
type Pruner interface {
	PruneSearches(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Engine holds the dependencies the scheduled jobs operate on. Pruner is
// optional: without a database the prune job is a no-op.
type Engine struct {
	rates     RateSource
	pruner    Pruner
	retention time.Duration
	log       *slog.Logger
}

// New creates an Engine. Pass a nil pruner when no store is configured.
func New(rates RateSource, pruner Pruner, retention time.Duration, log *slog.Logger) *Engine {
	return &Engine{
		rates:     rates,
		pruner:    pruner,
		retention: retention,
		log:       log,
	}
}

// RunRateWarmup touches the rate cache so an expired table is refreshed in
// the background instead of on a user's search.
func (e *Engine) RunRateWarmup(ctx context.Context) error {
	table := e.rates.Rates(ctx)
	if table.Empty() {
		e.log.Debug("rate warmup produced an empty table", "target", table.Target)
		return nil
	}

	e.log.Info("rate table warm",
		"target", table.Target,
		"currencies", len(table.Rates),
		"fetched_at", table.FetchedAt,
	)
	return nil
}

// RunHistoryPrune deletes search records older than the retention window.
func (e *Engine) RunHistoryPrune(ctx context.Context) error {
	if e.pruner == nil {
		return nil
	}

	removed, err := e.pruner.PruneSearches(ctx, e.retention)
	if err != nil {
		return fmt.Errorf("pruning search history: %w", err)
	}

	if removed > 0 {
		e.log.Info("search history pruned",
			"removed", removed,
			"retention", e.retention,
		)
	}
	return nil
}
