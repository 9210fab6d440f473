package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RetrainingReason identifies which threshold rule fired
type RetrainingReason string

const (
	ReasonEffectivenessDecline RetrainingReason = "effectiveness_decline"
	ReasonHighDifficulty       RetrainingReason = "high_difficulty"
	ReasonErrorRateIncrease    RetrainingReason = "error_rate_increase"
	ReasonNone                 RetrainingReason = "none"
)

// SignalPriority decides how urgently the training pipeline should react
type SignalPriority string

const (
	PriorityImmediate SignalPriority = "immediate" // Two or more rules fired together
	PriorityScheduled SignalPriority = "scheduled"
)

// SignalStatus tracks a queued signal through the external pipeline
type SignalStatus string

const (
	SignalStatusPending    SignalStatus = "pending"
	SignalStatusProcessing SignalStatus = "processing"
	SignalStatusCompleted  SignalStatus = "completed"
)

// RetrainingSignal is one queued request for the external training pipeline.
// The policy layer never fires a signal without a stated reason.
type RetrainingSignal struct {
	ID       uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Reason   RetrainingReason `json:"reason" gorm:"type:varchar(64);not null;index"`
	Priority SignalPriority   `json:"priority" gorm:"type:varchar(32);not null;default:'scheduled'"`
	Status   SignalStatus     `json:"status" gorm:"type:varchar(32);not null;index;default:'pending'"`

	// Details carries the aggregate values that tripped the rule
	Details datatypes.JSON `json:"details,omitempty" gorm:"type:jsonb"`

	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
}

// NewRetrainingSignal creates a pending signal for the given reason.
func NewRetrainingSignal(reason RetrainingReason, priority SignalPriority, details datatypes.JSON) *RetrainingSignal {
	return &RetrainingSignal{
		ID:       uuid.New(),
		Reason:   reason,
		Priority: priority,
		Status:   SignalStatusPending,
		Details:  details,
	}
}

// MarkProcessing flags the signal as picked up by the pipeline.
func (s *RetrainingSignal) MarkProcessing() {
	s.Status = SignalStatusProcessing
}

// MarkCompleted closes out the signal.
func (s *RetrainingSignal) MarkCompleted() {
	s.Status = SignalStatusCompleted
	now := time.Now().UTC()
	s.CompletedAt = &now
}

// TableName specifies the table name for GORM
func (RetrainingSignal) TableName() string {
	return "training_queue"
}
