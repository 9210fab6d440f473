package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// RetrainingRepository defines the interface for the retraining signal queue
type RetrainingRepository interface {
	// Enqueue stores a new pending signal
	Enqueue(ctx context.Context, signal *entities.RetrainingSignal) error

	// GetByID retrieves one signal
	GetByID(ctx context.Context, id uuid.UUID) (*entities.RetrainingSignal, error)

	// ListPending returns all signals not yet completed, oldest first
	ListPending(ctx context.Context) ([]*entities.RetrainingSignal, error)

	// HasPendingForReason reports whether an open signal already exists for
	// the reason, so repeated evaluations do not stack duplicates
	HasPendingForReason(ctx context.Context, reason entities.RetrainingReason) (bool, error)

	// Update persists status transitions on an existing signal
	Update(ctx context.Context, signal *entities.RetrainingSignal) error
}
