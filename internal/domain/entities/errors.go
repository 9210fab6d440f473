package entities

import "errors"

// Storage-miss sentinels. Stores and repositories return these on unknown
// ids; usecases translate them into their own error vocabulary.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrFeedbackNotFound = errors.New("feedback record not found")
	ErrSignalNotFound   = errors.New("retraining signal not found")
)
