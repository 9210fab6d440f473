package repositories

import (
	"context"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// ComparisonRepository defines the interface for AI-disagreement events
type ComparisonRepository interface {
	// Create stores one disagreement event
	Create(ctx context.Context, event *entities.ComparisonEvent) error

	// ListBySession returns all events recorded for a session, in step order
	ListBySession(ctx context.Context, sessionID string) ([]*entities.ComparisonEvent, error)

	// Count returns the total number of stored events
	Count(ctx context.Context) (int64, error)
}
