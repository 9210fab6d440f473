package repositories

import (
	"context"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// SessionStore defines the interface for active training session state.
// Each session lives behind its own key; concurrent sessions share nothing.
// Implementations return entities.ErrSessionNotFound for unknown ids and a
// distinct transport error when the store itself is unreachable, so callers
// can tell "no such session" from "store down" and degrade accordingly.
type SessionStore interface {
	// Save writes the full session state under its session id
	Save(ctx context.Context, session *entities.TrainingSession) error

	// Get loads a session by id
	Get(ctx context.Context, sessionID string) (*entities.TrainingSession, error)

	// Delete removes a session. Used by the caller-defined timeout policy,
	// never by the session lifecycle itself
	Delete(ctx context.Context, sessionID string) error
}
