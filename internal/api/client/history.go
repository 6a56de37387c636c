package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/offerscout/offerscout/pkg/types"
)

// HistoryResponse is the payload of the history list endpoint.
type HistoryResponse struct {
	Searches []domain.SearchRecord `json:"searches"`
	Total    int                   `json:"total"`
}

// ListHistory fetches recorded searches, optionally filtered by a query
// substring.
func (c *Client) ListHistory(ctx context.Context, query string, limit int) (*HistoryResponse, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}

	path := "/api/v1/history"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp HistoryResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetHistory fetches one search record by ID.
func (c *Client) GetHistory(ctx context.Context, id string) (*domain.SearchRecord, error) {
	var rec domain.SearchRecord
	if err := c.get(ctx, "/api/v1/history/"+url.PathEscape(id), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
