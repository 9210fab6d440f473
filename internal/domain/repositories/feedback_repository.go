package repositories

import (
	"context"
	"time"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// FeedbackRepository defines the interface for sealed feedback persistence.
// Writes must be idempotent by session_id: retried submissions of the same
// sealed session update the existing row instead of creating a duplicate.
type FeedbackRepository interface {
	// Upsert stores a sealed feedback record, replacing any existing record
	// with the same session_id
	Upsert(ctx context.Context, record *entities.FeedbackRecord) error

	// GetBySessionID retrieves the record for one session
	GetBySessionID(ctx context.Context, sessionID string) (*entities.FeedbackRecord, error)

	// ListRecent returns the newest records up to limit, newest first
	ListRecent(ctx context.Context, limit int) ([]*entities.FeedbackRecord, error)

	// ListSince returns all records sealed at or after the given time
	ListSince(ctx context.Context, since time.Time) ([]*entities.FeedbackRecord, error)

	// ListByScenario returns all records for one scenario
	ListByScenario(ctx context.Context, scenarioID string) ([]*entities.FeedbackRecord, error)

	// Count returns the total number of stored records
	Count(ctx context.Context) (int64, error)
}
