package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

const defaultRecentLimit = 100

// FeedbackRepository implements sealed-record persistence using GORM
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Upsert stores a sealed record, replacing any existing row with the same
// session id. The unique index on session_id backs concurrent retries: a
// raced Create fails on the index and the forwarder's retry lands on the
// update path.
func (r *FeedbackRepository) Upsert(ctx context.Context, record *entities.FeedbackRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}

	var existing entities.FeedbackRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", record.SessionID).
		First(&existing).Error
	switch {
	case err == nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
			return fmt.Errorf("failed to update feedback record: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
			return fmt.Errorf("failed to create feedback record: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to look up feedback record: %w", err)
	}
}

// GetBySessionID retrieves the record for one session
func (r *FeedbackRepository) GetBySessionID(ctx context.Context, sessionID string) (*entities.FeedbackRecord, error) {
	var record entities.FeedbackRecord
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to find feedback record: %w", err)
	}
	return &record, nil
}

// ListRecent returns the newest records up to limit, newest first
func (r *FeedbackRepository) ListRecent(ctx context.Context, limit int) ([]*entities.FeedbackRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var records []*entities.FeedbackRecord
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent feedback: %w", err)
	}
	return records, nil
}

// ListSince returns all records sealed at or after the given time, oldest first
func (r *FeedbackRepository) ListSince(ctx context.Context, since time.Time) ([]*entities.FeedbackRecord, error) {
	var records []*entities.FeedbackRecord
	if err := r.db.WithContext(ctx).
		Where("timestamp >= ?", since).
		Order("timestamp ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback window: %w", err)
	}
	return records, nil
}

// ListByScenario returns all records for one scenario, newest first
func (r *FeedbackRepository) ListByScenario(ctx context.Context, scenarioID string) ([]*entities.FeedbackRecord, error) {
	var records []*entities.FeedbackRecord
	if err := r.db.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("timestamp DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback by scenario: %w", err)
	}
	return records, nil
}

// Count returns the total number of stored records
func (r *FeedbackRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&entities.FeedbackRecord{}).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count feedback records: %w", err)
	}
	return n, nil
}
