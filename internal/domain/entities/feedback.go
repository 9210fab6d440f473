package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FeedbackRecord is the flattened, sealed form of a training session handed
// to the persistence collaborator. SessionID is the idempotency key: retried
// submissions of the same session must not create a second row.
type FeedbackRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Timestamp time.Time `json:"timestamp" gorm:"type:timestamp;not null;index"`
	SessionID string    `json:"session_id" gorm:"type:varchar(64);not null;uniqueIndex"`

	ScenarioID    string        `json:"scenario_id" gorm:"type:varchar(128);not null;index"`
	UserID        string        `json:"user_id,omitempty" gorm:"type:varchar(128);index"`
	TrainingLevel TrainingLevel `json:"training_level" gorm:"type:varchar(32);not null;default:'intermediate'"`

	// Subjective ratings, 1-5
	DifficultyRating int `json:"difficulty_rating" gorm:"type:integer;not null"`
	AIHelpfulness    int `json:"ai_helpfulness" gorm:"type:integer;not null"`
	ScenarioRealism  int `json:"scenario_realism" gorm:"type:integer;not null"`
	ConfidenceLevel  int `json:"confidence_level" gorm:"type:integer;not null"`

	// Free-text answers
	WhatWorkedWell        string `json:"what_worked_well,omitempty" gorm:"type:text"`
	WhatWasConfusing      string `json:"what_was_confusing,omitempty" gorm:"type:text"`
	SuggestedImprovements string `json:"suggested_improvements,omitempty" gorm:"type:text"`
	AdditionalComments    string `json:"additional_comments,omitempty" gorm:"type:text"`

	// Session statistics at sealing time
	Accuracy           float64 `json:"accuracy" gorm:"type:double precision;default:0"`
	MeanResponseTimeMS float64 `json:"mean_response_time_ms" gorm:"type:double precision;default:0"`
	SuccessRate        float64 `json:"success_rate" gorm:"type:double precision;default:0"`
	FinalScore         float64 `json:"final_score" gorm:"type:double precision;default:0"`
	CompletionSeconds  float64 `json:"completion_seconds" gorm:"type:double precision;default:0"`
	TotalActions       int     `json:"total_actions" gorm:"type:integer;default:0"`
	FollowedAICount    int     `json:"followed_ai_count" gorm:"type:integer;default:0"`
	ErrorsMade         int     `json:"errors_made" gorm:"type:integer;default:0"`
	CriticalErrors     int     `json:"critical_errors" gorm:"type:integer;default:0"`
	PerformanceRating  string  `json:"performance_rating,omitempty" gorm:"type:varchar(32)"`

	// Full ordered action log, kept as JSONB for later analysis
	Actions datatypes.JSON `json:"actions,omitempty" gorm:"type:jsonb"`

	// Unsynced records were sealed while the session store was degraded
	Unsynced bool `json:"unsynced,omitempty" gorm:"type:boolean;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// FollowedAIRate returns the agreement fraction, 0 when no actions were logged.
func (f *FeedbackRecord) FollowedAIRate() float64 {
	if f.TotalActions == 0 {
		return 0
	}
	return float64(f.FollowedAICount) / float64(f.TotalActions)
}

// TableName specifies the table name for GORM
func (FeedbackRecord) TableName() string {
	return "feedback_records"
}
