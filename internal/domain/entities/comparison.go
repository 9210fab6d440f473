package entities

import (
	"time"

	"github.com/google/uuid"
)

// ComparisonEvent records a step where the trainee disagreed with the
// assistant's recommendation. Emitted out-of-band so the UI collaborator can
// prompt for micro-feedback; writing one never blocks action logging.
type ComparisonEvent struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID           string    `json:"session_id" gorm:"type:varchar(64);not null;index"`
	ScenarioID          string    `json:"scenario_id" gorm:"type:varchar(128);index"`
	StepIndex           int       `json:"step_index" gorm:"type:integer;not null"`
	UserAction          string    `json:"user_action" gorm:"type:varchar(128);not null"`
	AIRecommendedAction string    `json:"ai_recommended_action" gorm:"type:varchar(128);not null"`
	ResponseTimeMS      int       `json:"response_time_ms" gorm:"type:integer;default:0"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewComparisonEvent captures the disagreement at the given step.
func NewComparisonEvent(sessionID, scenarioID string, step int, userAction, aiAction string, responseTimeMS int) *ComparisonEvent {
	return &ComparisonEvent{
		ID:                  uuid.New(),
		SessionID:           sessionID,
		ScenarioID:          scenarioID,
		StepIndex:           step,
		UserAction:          userAction,
		AIRecommendedAction: aiAction,
		ResponseTimeMS:      responseTimeMS,
	}
}

// TableName specifies the table name for GORM
func (ComparisonEvent) TableName() string {
	return "comparison_events"
}
