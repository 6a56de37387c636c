package client

import (
	"context"
	"time"
)

// RatesResponse is the payload of the rates endpoint.
type RatesResponse struct {
	Target    string             `json:"target"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
	Degraded  bool               `json:"degraded"`
}

// Rates fetches the current exchange-rate table.
func (c *Client) Rates(ctx context.Context) (*RatesResponse, error) {
	var resp RatesResponse
	if err := c.get(ctx, "/api/v1/rates", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
