package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerscout/offerscout/internal/api/handlers"
	domain "github.com/offerscout/offerscout/pkg/types"
)

func historyAPI(t *testing.T, s *stubStore) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	if s == nil {
		handlers.RegisterHistoryRoutes(api, handlers.NewHistoryHandler(nil))
	} else {
		handlers.RegisterHistoryRoutes(api, handlers.NewHistoryHandler(s))
	}
	return api
}

func TestHistoryHandler_List(t *testing.T) {
	t.Parallel()

	recs := []domain.SearchRecord{
		{
			ID:              "6d9a0f5e-0000-4000-8000-000000000001",
			Query:           "iphone 15 pro",
			NormalizedQuery: "iphone 15 pro",
			Filter:          "new",
			ResultCount:     4,
			MinTotal:        899.00,
			MeanTotal:       950.25,
			TopSource:       "eBay",
			CreatedAt:       time.Now(),
		},
	}

	t.Run("returns records with total", func(t *testing.T) {
		t.Parallel()

		api := historyAPI(t, &stubStore{recs: recs})
		resp := api.Get("/api/v1/history?q=iphone")
		require.Equal(t, http.StatusOK, resp.Code)

		body := resp.Body.String()
		assert.Contains(t, body, `"total":1`)
		assert.Contains(t, body, `"query":"iphone 15 pro"`)
	})

	t.Run("empty store returns empty list", func(t *testing.T) {
		t.Parallel()

		api := historyAPI(t, &stubStore{})
		resp := api.Get("/api/v1/history")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"searches":[]`)
	})

	t.Run("store error returns 500", func(t *testing.T) {
		t.Parallel()

		api := historyAPI(t, &stubStore{listErr: errors.New("connection reset")})
		resp := api.Get("/api/v1/history")
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})

	t.Run("persistence disabled returns 503", func(t *testing.T) {
		t.Parallel()

		api := historyAPI(t, nil)
		resp := api.Get("/api/v1/history")
		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	})
}

func TestHistoryHandler_Get(t *testing.T) {
	t.Parallel()

	rec := domain.SearchRecord{
		ID:    "6d9a0f5e-0000-4000-8000-000000000002",
		Query: "sony wh-1000xm5",
	}

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		api := historyAPI(t, &stubStore{recs: []domain.SearchRecord{rec}})
		resp := api.Get("/api/v1/history/" + rec.ID)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"query":"sony wh-1000xm5"`)
	})

	t.Run("not found returns 404", func(t *testing.T) {
		t.Parallel()

		api := historyAPI(t, &stubStore{})
		resp := api.Get("/api/v1/history/6d9a0f5e-0000-4000-8000-00000000dead")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
