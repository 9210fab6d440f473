package session

import (
	"github.com/dcatrain/dca-feedback/internal/adapter/dto/common"
)

// StartSessionResponse confirms a started episode
type StartSessionResponse struct {
	Success       bool   `json:"success"`
	SessionID     string `json:"session_id"`
	TrainingLevel string `json:"training_level"`
	Message       string `json:"message"`

	// Unsynced is set when the session store was unreachable and the session
	// lives in the in-process fallback.
	Unsynced bool `json:"unsynced,omitempty"`
}

// ActionResponse returns the evaluation of one logged action together with
// the running session statistics.
type ActionResponse struct {
	Success    bool                      `json:"success"`
	Message    string                    `json:"message"`
	SessionID  string                    `json:"session_id"`
	Step       int                       `json:"step"`
	Disagreed  bool                      `json:"disagreed,omitempty"`
	Evaluation common.EvaluationResponse `json:"evaluation"`
	Stats      common.StatsResponse      `json:"stats"`
}

// CompleteSessionResponse summarizes a sealed episode
type CompleteSessionResponse struct {
	Success           bool                 `json:"success"`
	Message           string               `json:"message"`
	SessionID         string               `json:"session_id"`
	FeedbackID        string               `json:"feedback_id"`
	FinalScore        float64              `json:"final_score"`
	PerformanceRating string               `json:"performance_rating"`
	CompletionSeconds float64              `json:"completion_seconds"`
	Stats             common.StatsResponse `json:"stats"`
	Unsynced          bool                 `json:"unsynced,omitempty"`
}
