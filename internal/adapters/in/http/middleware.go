package http

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"laundry/internal/pkg/metrics"
)

// MetricsMiddleware records a request counter and latency histogram per
// route. The route template is used as the handler label so path parameters
// do not explode the cardinality.
func MetricsMiddleware(m *metrics.ServerMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			handler := ctx.Path()
			status := ctx.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			m.Requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(handler).
				Observe(float64(time.Since(start).Milliseconds()))

			return err
		}
	}
}
