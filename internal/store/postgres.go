package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/offerscout/offerscout/pkg/types"
)

const defaultPoolSize = 10

// Postgres queries. NamedArgs keep inserts readable; positional args are
// fine for the short reads.
const (
	queryInsertSearch = `
		INSERT INTO search_history (
			id, query, normalized_query, filter,
			result_count, min_total, mean_total, top_source, created_at
		) VALUES (
			@id, @query, @normalized_query, @filter,
			@result_count, @min_total, @mean_total, @top_source, @created_at
		)`

	queryGetSearch = `
		SELECT id, query, normalized_query, filter,
		       result_count, min_total, mean_total, top_source, created_at
		FROM search_history
		WHERE id = $1`

	queryListSearches = `
		SELECT id, query, normalized_query, filter,
		       result_count, min_total, mean_total, top_source, created_at
		FROM search_history
		WHERE ($1 = '' OR query ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	queryCountSearches = `
		SELECT count(*)
		FROM search_history
		WHERE ($1 = '' OR query ILIKE '%' || $1 || '%')`

	queryPruneSearches = `
		DELETE FROM search_history
		WHERE created_at < $1`
)

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// RecordSearch inserts one search trace.
func (s *PostgresStore) RecordSearch(ctx context.Context, rec domain.SearchRecord) error {
	args := pgx.NamedArgs{
		"id":               rec.ID,
		"query":            rec.Query,
		"normalized_query": rec.NormalizedQuery,
		"filter":           rec.Filter,
		"result_count":     rec.ResultCount,
		"min_total":        rec.MinTotal,
		"mean_total":       rec.MeanTotal,
		"top_source":       rec.TopSource,
		"created_at":       rec.CreatedAt,
	}

	if _, err := s.pool.Exec(ctx, queryInsertSearch, args); err != nil {
		return fmt.Errorf("inserting search record: %w", err)
	}
	return nil
}

// GetSearch retrieves one search record by ID.
func (s *PostgresStore) GetSearch(ctx context.Context, id string) (*domain.SearchRecord, error) {
	rec := &domain.SearchRecord{}
	err := s.pool.QueryRow(ctx, queryGetSearch, id).Scan(
		&rec.ID, &rec.Query, &rec.NormalizedQuery, &rec.Filter,
		&rec.ResultCount, &rec.MinTotal, &rec.MeanTotal, &rec.TopSource, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting search record: %w", err)
	}
	return rec, nil
}

// ListSearches returns search records newest first, with the total count
// matching the filter.
func (s *PostgresStore) ListSearches(
	ctx context.Context,
	opts *HistoryQuery,
) ([]domain.SearchRecord, int, error) {
	if opts == nil {
		opts = &HistoryQuery{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := s.pool.QueryRow(ctx, queryCountSearches, opts.Query).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting search records: %w", err)
	}

	rows, err := s.pool.Query(ctx, queryListSearches, opts.Query, limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying search records: %w", err)
	}
	defer rows.Close()

	var recs []domain.SearchRecord
	for rows.Next() {
		var rec domain.SearchRecord
		if err := rows.Scan(
			&rec.ID, &rec.Query, &rec.NormalizedQuery, &rec.Filter,
			&rec.ResultCount, &rec.MinTotal, &rec.MeanTotal, &rec.TopSource, &rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning search record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating search records: %w", err)
	}

	return recs, total, nil
}

// PruneSearches deletes records older than the retention window and
// returns the number removed.
func (s *PostgresStore) PruneSearches(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	tag, err := s.pool.Exec(ctx, queryPruneSearches, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning search records: %w", err)
	}
	return tag.RowsAffected(), nil
}
