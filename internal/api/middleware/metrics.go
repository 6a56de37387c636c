// Package middleware provides Echo middleware for offerscout.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/offerscout/offerscout/internal/metrics"
)

// Probe and scrape endpoints stay out of the request histograms; the health
// endpoints instead feed 0/1 gauges.
var (
	metricsSkipPaths = map[string]struct{}{
		"/metrics": {},
		"/healthz": {},
		"/readyz":  {},
	}

	healthGauges = map[string]prometheus.Gauge{
		"/healthz": metrics.HealthzUp,
		"/readyz":  metrics.ReadyzUp,
	}
)

// Metrics returns Echo middleware that records per-request duration and
// status counters, keyed by method, route path, and status code.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if _, skip := metricsSkipPaths[path]; skip {
				err := next(c)
				if gauge, ok := healthGauges[path]; ok {
					gauge.Set(upValue(c.Response().Status))
				}
				return err
			}

			start := time.Now()
			err := next(c)

			labels := []string{
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			}
			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}

func upValue(status int) float64 {
	if status >= 200 && status < 300 {
		return 1
	}
	return 0
}
