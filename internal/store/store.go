// Package store defines the datastore abstraction for offerscout. The
// server depends on the Store interface, never on concrete implementations,
// so it runs with or without a database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/offerscout/offerscout/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// HistoryQuery defines optional filters for listing search history.
type HistoryQuery struct {
	Query  string // substring match on the raw query, empty matches all
	Limit  int    // default 50
	Offset int
}

// Store defines all data access operations for offerscout.
type Store interface {
	// History
	RecordSearch(ctx context.Context, rec domain.SearchRecord) error
	GetSearch(ctx context.Context, id string) (*domain.SearchRecord, error)
	ListSearches(ctx context.Context, opts *HistoryQuery) ([]domain.SearchRecord, int, error)
	PruneSearches(ctx context.Context, olderThan time.Duration) (int64, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
	Close()
}
