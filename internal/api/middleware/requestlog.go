package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLog returns Echo middleware that emits one structured log line per
// request. A request ID from the X-Request-ID header is reused when the
// client sends one; otherwise a fresh UUID is generated. Either way the ID is
// stored on the context and echoed back in the response header so callers can
// correlate log lines.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			id := req.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.Response().Header().Set(requestIDHeader, id)

			err := next(c)

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", id,
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			log.Info("request", attrs...)

			return err
		}
	}
}
