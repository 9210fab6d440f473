package repositories

import (
	"context"
	"time"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// SessionArchive defines the interface for the object-store archive of
// sealed sessions. The archive is a secondary sink: failures are retried at
// the boundary and never affect session sealing.
type SessionArchive interface {
	// PutSession stores the sealed session document as a JSON object
	PutSession(ctx context.Context, session *entities.TrainingSession, record *entities.FeedbackRecord) error

	// PutSummary stores an analytics summary export and returns its object name
	PutSummary(ctx context.Context, payload []byte) (string, error)

	// PresignedURL returns a time-limited download URL for an archived object
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}
