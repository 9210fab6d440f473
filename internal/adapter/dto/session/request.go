package session

// StartSessionRequest opens a new training episode. The session id is
// optional; the server generates one when absent.
type StartSessionRequest struct {
	SessionID     string `json:"session_id,omitempty" validate:"omitempty,max=64"`
	ScenarioID    string `json:"scenario_id" validate:"required,min=1,max=128"`
	UserID        string `json:"user_id,omitempty" validate:"omitempty,max=128"`
	TrainingLevel string `json:"training_level,omitempty" validate:"training_level"`
}

// LogActionRequest records one trainee response for evaluation
type LogActionRequest struct {
	SessionID           string  `json:"session_id" validate:"required,max=64"`
	ScenarioCategory    string  `json:"scenario_category,omitempty" validate:"omitempty,max=64"`
	UserAction          string  `json:"user_action" validate:"required,max=128"`
	AIRecommendedAction string  `json:"ai_recommended_action" validate:"required,max=128"`
	ResponseTimeMS      int     `json:"response_time_ms" validate:"min=0"`
	IsCorrect           bool    `json:"is_correct"`
	Reward              float64 `json:"reward"`
}

// CompleteSessionRequest seals a session with whatever ratings the trainee
// provided. Missing numeric ratings default to neutral, out-of-range ones are
// clamped; range checks happen in the aggregation service, not here.
type CompleteSessionRequest struct {
	SessionID     string `json:"session_id" validate:"required,max=64"`
	ScenarioID    string `json:"scenario_id,omitempty" validate:"omitempty,max=128"`
	TrainingLevel string `json:"training_level,omitempty" validate:"training_level"`

	DifficultyRating *int `json:"difficulty_rating,omitempty"`
	AIHelpfulness    *int `json:"ai_helpfulness,omitempty"`
	ScenarioRealism  *int `json:"scenario_realism,omitempty"`
	ConfidenceLevel  *int `json:"confidence_level,omitempty"`

	WhatWorkedWell        string `json:"what_worked_well,omitempty"`
	WhatWasConfusing      string `json:"what_was_confusing,omitempty"`
	SuggestedImprovements string `json:"suggested_improvements,omitempty"`
	AdditionalComments    string `json:"additional_comments,omitempty"`
}
