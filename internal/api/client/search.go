package client

import (
	"context"

	domain "github.com/offerscout/offerscout/pkg/types"
)

// SearchRequest is the body for the search endpoint.
type SearchRequest struct {
	Query     string `json:"query"`
	Condition string `json:"condition,omitempty"`
}

// Search runs an aggregated offer search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*domain.Result, error) {
	var result domain.Result
	if err := c.post(ctx, "/api/v1/search", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
