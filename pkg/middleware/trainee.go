package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dcatrain/dca-feedback/pkg/trainer"
)

// TraineeIDKey is the echo context key carrying the optional trainee id
const TraineeIDKey = "trainee_id"

// TraineeIdentity reads the optional X-User-ID header into the request
// context. Training sessions work anonymously, so a missing header is fine.
func TraineeIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID := c.Request().Header.Get("X-User-ID"); userID != "" {
				c.Set(TraineeIDKey, userID)
			}
			return next(c)
		}
	}
}

// TraineeID returns the trainee id set by TraineeIdentity, empty when absent
func TraineeID(c echo.Context) string {
	id, _ := c.Get(TraineeIDKey).(string)
	return id
}

// RequireWebhookSignature verifies the X-Signature HMAC over the raw request
// body before the handler runs. The body is rewound for the handler.
func RequireWebhookSignature(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]interface{}{
					"success": false,
					"error":   "failed to read request body",
				})
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			signature := c.Request().Header.Get("X-Signature")
			if !trainer.VerifyHMAC(secret, body, signature) {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"error":   "invalid webhook signature",
				})
			}
			return next(c)
		}
	}
}
