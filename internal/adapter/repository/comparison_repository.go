package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// ComparisonRepository implements disagreement-event persistence using GORM
type ComparisonRepository struct {
	db *gorm.DB
}

// NewComparisonRepository creates a new comparison repository
func NewComparisonRepository(db *gorm.DB) *ComparisonRepository {
	return &ComparisonRepository{db: db}
}

// Create stores one disagreement event
func (r *ComparisonRepository) Create(ctx context.Context, event *entities.ComparisonEvent) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create comparison event: %w", err)
	}
	return nil
}

// ListBySession returns all events for a session in step order
func (r *ComparisonRepository) ListBySession(ctx context.Context, sessionID string) ([]*entities.ComparisonEvent, error) {
	var events []*entities.ComparisonEvent
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("step_index ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list comparison events: %w", err)
	}
	return events, nil
}

// Count returns the total number of stored events
func (r *ComparisonRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ComparisonEvent{}).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count comparison events: %w", err)
	}
	return n, nil
}
