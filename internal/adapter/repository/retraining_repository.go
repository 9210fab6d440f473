package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// RetrainingRepository implements the retraining signal queue using GORM
type RetrainingRepository struct {
	db *gorm.DB
}

// NewRetrainingRepository creates a new retraining queue repository
func NewRetrainingRepository(db *gorm.DB) *RetrainingRepository {
	return &RetrainingRepository{db: db}
}

// Enqueue stores a new pending signal
func (r *RetrainingRepository) Enqueue(ctx context.Context, signal *entities.RetrainingSignal) error {
	if signal == nil {
		return errors.New("signal cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(signal).Error; err != nil {
		return fmt.Errorf("failed to enqueue retraining signal: %w", err)
	}
	return nil
}

// GetByID retrieves one signal
func (r *RetrainingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.RetrainingSignal, error) {
	var signal entities.RetrainingSignal
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&signal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrSignalNotFound
		}
		return nil, fmt.Errorf("failed to find retraining signal: %w", err)
	}
	return &signal, nil
}

// ListPending returns all signals not yet completed, oldest first
func (r *RetrainingRepository) ListPending(ctx context.Context) ([]*entities.RetrainingSignal, error) {
	var signals []*entities.RetrainingSignal
	if err := r.db.WithContext(ctx).
		Where("status <> ?", entities.SignalStatusCompleted).
		Order("created_at ASC").
		Find(&signals).Error; err != nil {
		return nil, fmt.Errorf("failed to list retraining queue: %w", err)
	}
	return signals, nil
}

// HasPendingForReason reports whether an open signal exists for the reason
func (r *RetrainingRepository) HasPendingForReason(ctx context.Context, reason entities.RetrainingReason) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&entities.RetrainingSignal{}).
		Where("reason = ? AND status <> ?", reason, entities.SignalStatusCompleted).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check retraining queue: %w", err)
	}
	return n > 0, nil
}

// Update persists status transitions on an existing signal
func (r *RetrainingRepository) Update(ctx context.Context, signal *entities.RetrainingSignal) error {
	if signal == nil {
		return errors.New("signal cannot be nil")
	}
	if err := r.db.WithContext(ctx).Save(signal).Error; err != nil {
		return fmt.Errorf("failed to update retraining signal: %w", err)
	}
	return nil
}
