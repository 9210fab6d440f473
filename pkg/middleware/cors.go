package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PreflightOK rewrites CORS preflight responses from 204 to 200 before the
// header commits. The training UI's fetch layer treats 200 as the preflight
// success status. Must be registered before the CORS middleware.
func PreflightOK() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions {
				resp := c.Response()
				resp.Before(func() {
					if resp.Status == http.StatusNoContent {
						resp.Status = http.StatusOK
					}
				})
			}
			return next(c)
		}
	}
}
