package errors

import "errors"

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
)

// Session errors
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionSealed    = errors.New("session already sealed")
	ErrSessionNotActive = errors.New("session is not active")
	ErrSessionExpired   = errors.New("session expired")
)

// Feedback errors
var (
	ErrMissingRating        = errors.New("required rating missing")
	ErrRatingOutOfRange     = errors.New("rating outside 1-5 range")
	ErrInvalidTrainingLevel = errors.New("invalid training level")
)

// Storage errors
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrArchiveUnavailable = errors.New("archive unavailable")
)

// Retraining errors
var (
	ErrInsufficientData = errors.New("insufficient feedback for analysis")
	ErrSignalNotFound   = errors.New("retraining signal not found")
)
