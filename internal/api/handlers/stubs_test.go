package handlers_test

import (
	"context"
	"time"

	"github.com/offerscout/offerscout/internal/store"
	domain "github.com/offerscout/offerscout/pkg/types"
)

// stubSearcher returns a canned result or error.
type stubSearcher struct {
	result  domain.Result
	err     error
	gotQ    string
	gotFltr domain.ConditionFilter
}

func (s *stubSearcher) Search(
	_ context.Context,
	query string,
	filter domain.ConditionFilter,
) (domain.Result, error) {
	s.gotQ = query
	s.gotFltr = filter
	if s.err != nil {
		return domain.Result{}, s.err
	}
	return s.result, nil
}

// stubRates returns a fixed rate table.
type stubRates struct {
	table domain.RateTable
}

func (s *stubRates) Rates(context.Context) domain.RateTable { return s.table }

// stubStore is an in-memory store.Store for handler tests.
type stubStore struct {
	recs     []domain.SearchRecord
	pingErr  error
	listErr  error
	getErr   error
	recorded []domain.SearchRecord
}

var _ store.Store = (*stubStore)(nil)

func (s *stubStore) RecordSearch(_ context.Context, rec domain.SearchRecord) error {
	s.recorded = append(s.recorded, rec)
	return nil
}

func (s *stubStore) GetSearch(_ context.Context, id string) (*domain.SearchRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for i := range s.recs {
		if s.recs[i].ID == id {
			return &s.recs[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubStore) ListSearches(
	_ context.Context,
	opts *store.HistoryQuery,
) ([]domain.SearchRecord, int, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	_ = opts
	return s.recs, len(s.recs), nil
}

func (s *stubStore) PruneSearches(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

func (s *stubStore) Migrate(context.Context) error { return nil }

func (s *stubStore) Ping(context.Context) error { return s.pingErr }

func (s *stubStore) Close() {}
