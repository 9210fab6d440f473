package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/dcatrain/dca-feedback/errors"
	"github.com/dcatrain/dca-feedback/internal/adapter/dto/common"
	uerrors "github.com/dcatrain/dca-feedback/internal/usecase/errors"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// classifyError maps usecase sentinels onto an HTTP status and a stable
// error code. Unknown errors are treated as internal.
func classifyError(err error) (int, apperrors.ErrorCode) {
	switch {
	case stdErrors.Is(err, uerrors.ErrSessionNotFound):
		return http.StatusNotFound, apperrors.ErrorCode_SESSION_NOT_FOUND
	case stdErrors.Is(err, uerrors.ErrSignalNotFound):
		return http.StatusNotFound, apperrors.ErrorCode_SIGNAL_NOT_FOUND
	case stdErrors.Is(err, uerrors.ErrNotFound):
		return http.StatusNotFound, apperrors.ErrorCode_NOT_FOUND
	case stdErrors.Is(err, uerrors.ErrSessionSealed):
		return http.StatusBadRequest, apperrors.ErrorCode_SESSION_SEALED
	case stdErrors.Is(err, uerrors.ErrSessionNotActive):
		return http.StatusBadRequest, apperrors.ErrorCode_SESSION_NOT_ACTIVE
	case stdErrors.Is(err, uerrors.ErrSessionExpired):
		return http.StatusBadRequest, apperrors.ErrorCode_SESSION_EXPIRED
	case stdErrors.Is(err, uerrors.ErrMissingRating):
		return http.StatusBadRequest, apperrors.ErrorCode_MISSING_RATING
	case stdErrors.Is(err, uerrors.ErrRatingOutOfRange):
		return http.StatusBadRequest, apperrors.ErrorCode_RATING_OUT_OF_RANGE
	case stdErrors.Is(err, uerrors.ErrInvalidTrainingLevel):
		return http.StatusBadRequest, apperrors.ErrorCode_INVALID_TRAINING_LEVEL
	case stdErrors.Is(err, uerrors.ErrInsufficientData):
		return http.StatusBadRequest, apperrors.ErrorCode_INSUFFICIENT_DATA
	case stdErrors.Is(err, uerrors.ErrInvalidInput):
		return http.StatusBadRequest, apperrors.ErrorCode_INVALID_INPUT
	case stdErrors.Is(err, uerrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, apperrors.ErrorCode_STORAGE_UNAVAILABLE
	case stdErrors.Is(err, uerrors.ErrArchiveUnavailable):
		return http.StatusServiceUnavailable, apperrors.ErrorCode_ARCHIVE_UNAVAILABLE
	default:
		return http.StatusInternalServerError, apperrors.ErrorCode_INTERNAL
	}
}

// HandleError writes the failure envelope for a usecase error
func HandleError(logger *zap.Logger, m *metrics.Manager, c echo.Context, err error) error {
	status, code := classifyError(err)

	if status == http.StatusBadRequest && m != nil {
		m.IncValidationFailure()
	}

	if logger != nil {
		logger.Warn("request failed",
			zap.String("path", c.Path()),
			zap.String("method", c.Request().Method),
			zap.Int("status", status),
			zap.String("code", code.String()),
			zap.Error(err),
		)
	}

	return c.JSON(status, common.ErrorResponse{Success: false, Error: err.Error()})
}

// badRequest writes the failure envelope for a malformed or invalid request
func badRequest(m *metrics.Manager, c echo.Context, message string) error {
	if m != nil {
		m.IncValidationFailure()
	}
	return c.JSON(http.StatusBadRequest, common.ErrorResponse{Success: false, Error: message})
}
