package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcatrain/dca-feedback/internal/usecase/analytics"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// Analytics handles the aggregate reporting endpoints
type Analytics struct {
	service analytics.Service
	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service analytics.Service, m *metrics.Manager, logger *zap.Logger) *Analytics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analytics{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// Summary handles GET /analytics/summary
func (h *Analytics) Summary(c echo.Context) error {
	summary, err := h.service.Summary(c.Request().Context(), parseDays(c))
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    summary,
	})
}

// Export handles GET /analytics/export
func (h *Analytics) Export(c echo.Context) error {
	result, err := h.service.Export(c.Request().Context(), parseDays(c))
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"object_name": result.ObjectName,
		"url":         result.URL,
		"expires_at":  result.ExpiresAt,
	})
}

// parseDays reads the optional ?days= parameter. Unparseable values fall
// back to the service default rather than failing the request.
func parseDays(c echo.Context) int {
	raw := c.QueryParam("days")
	if raw == "" {
		return 0
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return days
}
