package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offerscout/offerscout/internal/store"
	domain "github.com/offerscout/offerscout/pkg/types"
)

// HistoryHandler serves persisted search history. A nil store means
// persistence is disabled and every request returns 503.
type HistoryHandler struct {
	store store.Store
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(s store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// ListHistoryInput holds query parameters for listing search history.
type ListHistoryInput struct {
	Query  string `query:"q" doc:"Substring filter on the raw query" example:"iphone"`
	Limit  int    `query:"limit" minimum:"1" maximum:"500" doc:"Maximum records to return (default 50)"`
	Offset int    `query:"offset" minimum:"0" doc:"Records to skip"`
}

// ListHistoryOutput is the response body for the history list endpoint.
type ListHistoryOutput struct {
	Body struct {
		Searches []domain.SearchRecord `json:"searches"`
		Total    int                   `json:"total" doc:"Total records matching the filter"`
	}
}

// List returns recorded searches newest first.
func (h *HistoryHandler) List(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("search history persistence is disabled")
	}

	recs, total, err := h.store.ListSearches(ctx, &store.HistoryQuery{
		Query:  input.Query,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("listing search history: " + err.Error())
	}

	if recs == nil {
		recs = []domain.SearchRecord{}
	}

	out := &ListHistoryOutput{}
	out.Body.Searches = recs
	out.Body.Total = total
	return out, nil
}

// GetHistoryInput holds the path parameter for fetching one record.
type GetHistoryInput struct {
	ID string `path:"id" doc:"Search record UUID"`
}

// GetHistoryOutput is the response body for a single history record.
type GetHistoryOutput struct {
	Body domain.SearchRecord
}

// Get returns one search record by ID.
func (h *HistoryHandler) Get(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("search history persistence is disabled")
	}

	rec, err := h.store.GetSearch(ctx, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("search record not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("getting search record: " + err.Error())
	}

	return &GetHistoryOutput{Body: *rec}, nil
}

// RegisterHistoryRoutes registers history endpoints with the Huma API.
func RegisterHistoryRoutes(api huma.API, h *HistoryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "List search history",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/history/{id}",
		Summary:     "Get one search record",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, h.Get)
}
