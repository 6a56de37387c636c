package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
)

const stackBufSize = 8 << 10

// Recovery returns Echo middleware that turns a handler panic into a 500
// response instead of tearing down the connection. The panic value and a
// truncated stack trace are logged with the request that triggered it.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				stack := make([]byte, stackBufSize)
				stack = stack[:runtime.Stack(stack, false)]

				req := c.Request()
				log.Error("panic recovered",
					"error", fmt.Sprint(r),
					"method", req.Method,
					"path", req.URL.Path,
					"request_id", requestID(c),
					"stack", string(stack),
				)

				err = c.JSON(http.StatusInternalServerError, echo.Map{
					"error": "internal server error",
				})
			}()
			return next(c)
		}
	}
}

func requestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}
