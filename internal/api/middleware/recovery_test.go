package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// invoke runs a handler wrapped in Recovery and returns the recorder plus
// captured log output.
func invokeRecovery(t *testing.T, method, path string, h echo.HandlerFunc) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	req := httptest.NewRequest(method, path, http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Recovery(logger)(h)(c)
	require.NoError(t, err)

	return rec, buf.String()
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("passes through without panic", func(t *testing.T) {
		t.Parallel()

		rec, logs := invokeRecovery(t, http.MethodGet, "/test", func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, logs)
	})

	t.Run("string panic becomes 500", func(t *testing.T) {
		t.Parallel()

		rec, logs := invokeRecovery(t, http.MethodGet, "/panic", func(echo.Context) error {
			panic("stack overflow in ranking")
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal server error")
		assert.Contains(t, logs, "panic recovered")
		assert.Contains(t, logs, "stack overflow in ranking")
		assert.Contains(t, logs, "path=/panic")
	})

	t.Run("non-string panic becomes 500", func(t *testing.T) {
		t.Parallel()

		rec, logs := invokeRecovery(t, http.MethodPost, "/api/crash", func(echo.Context) error {
			panic(42)
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, logs, "42")
		assert.Contains(t, logs, "method=POST")
	})
}
