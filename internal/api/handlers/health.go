package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/offerscout/offerscout/internal/store"
)

// HealthHandler provides health and readiness endpoints. Store is optional:
// without persistence the process is ready as soon as it is serving.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz returns 200 if the database (when configured) is reachable,
// 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.store != nil {
		if err := h.store.Ping(c.Request().Context()); err != nil {
			return c.JSON(
				http.StatusServiceUnavailable,
				map[string]string{"status": "unavailable"},
			)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
