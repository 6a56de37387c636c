package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/offerscout/offerscout/pkg/types"
)

// RateSource supplies the current conversion table.
type RateSource interface {
	Rates(ctx context.Context) domain.RateTable
}

// RatesHandler exposes the cached exchange-rate table.
type RatesHandler struct {
	rates RateSource
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(rs RateSource) *RatesHandler {
	return &RatesHandler{rates: rs}
}

// RatesOutput is the response body for the rates endpoint.
type RatesOutput struct {
	Body struct {
		domain.RateTable
		Degraded bool `json:"degraded" doc:"True when no rates are loaded and conversion passes amounts through unchanged"`
	}
}

// Rates returns the current exchange-rate snapshot.
func (h *RatesHandler) Rates(ctx context.Context, _ *struct{}) (*RatesOutput, error) {
	table := h.rates.Rates(ctx)

	out := &RatesOutput{}
	out.Body.RateTable = table
	out.Body.Degraded = table.Empty()
	return out, nil
}

// RegisterRatesRoutes registers rate endpoints with the Huma API.
func RegisterRatesRoutes(api huma.API, h *RatesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-rates",
		Method:      http.MethodGet,
		Path:        "/api/v1/rates",
		Summary:     "Current exchange-rate table",
		Description: "Returns the cached conversion table used for landed-cost ranking, refreshing it if the TTL has elapsed.",
		Tags:        []string{"rates"},
	}, h.Rates)
}
