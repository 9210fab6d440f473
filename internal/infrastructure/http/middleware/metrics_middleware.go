package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// RequestMetrics records one Prometheus observation per served request.
// The route template from c.Path() is used as the endpoint label so
// parameterized routes collapse into a single series.
func RequestMetrics(m *metrics.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// Errors returned here are rendered by echo's error handler
				// after this middleware, so resolve the status they map to.
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = c.Request().URL.Path
			}
			m.ObserveHTTPRequest(endpoint, c.Request().Method, strconv.Itoa(status), time.Since(start))

			return err
		}
	}
}
