// Package source defines the marketplace adapter capability. Each
// marketplace (eBay, Amazon, the demo catalog) implements Adapter; the
// aggregator depends only on this interface, so new sources plug in
// without touching orchestration.
package source

import (
	"context"

	domain "github.com/offerscout/offerscout/pkg/types"
)

// MaxOffersPerSource caps the response size of every adapter call.
const MaxOffersPerSource = 10

// Adapter translates one marketplace's API into raw offers. Search
// returns at most MaxOffersPerSource items; adapters must tolerate an
// empty query. An adapter may return an error; the aggregator converts
// it into an empty contribution, never a failed search.
type Adapter interface {
	// Name identifies the source in results, logs, and metrics.
	Name() string

	// NewOnly reports whether this source can only serve brand-new items.
	// New-only sources are skipped entirely when the filter excludes New.
	NewOnly() bool

	// Search queries the marketplace with an already-normalized query.
	Search(ctx context.Context, query string, filter domain.ConditionFilter) ([]domain.RawOffer, error)
}
