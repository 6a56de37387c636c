package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/offerscout/offerscout/pkg/types"
)

// Searcher runs one aggregated search across all configured sources.
type Searcher interface {
	Search(ctx context.Context, query string, filter domain.ConditionFilter) (domain.Result, error)
}

// SearchHandler handles aggregated search requests.
type SearchHandler struct {
	agg Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(agg Searcher) *SearchHandler {
	return &SearchHandler{agg: agg}
}

// SearchInput is the request body for the search endpoint.
type SearchInput struct {
	Body struct {
		Query     string `json:"query" minLength:"1" doc:"Free-text search query" example:"buy iPhone 15 Pro cheap"`
		Condition string `json:"condition,omitempty" enum:"new,used,any" doc:"Condition filter (default any)" example:"new"`
	}
}

// SearchOutput is the response body for the search endpoint.
type SearchOutput struct {
	Body domain.Result
}

// Search runs an aggregated offer search ranked by landed cost.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	filter, err := domain.ParseConditionFilter(input.Body.Condition)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	result, err := h.agg.Search(ctx, input.Body.Query, filter)
	if err != nil {
		return nil, huma.Error502BadGateway("search failed: " + err.Error())
	}

	return &SearchOutput{Body: result}, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-offers",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search offers across sources",
		Description: "Cleans the query, fans out to every configured marketplace, and returns offers ranked by total cost in the target currency.",
		Tags:        []string{"search"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusBadGateway},
	}, h.Search)
}
