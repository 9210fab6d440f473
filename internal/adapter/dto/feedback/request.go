package feedback

// SubmitFeedbackRequest carries the strict post-session rating submission.
// All four numeric ratings must be present and in [1,5]; the aggregation
// service enforces the ranges so its errors match the complete-session path.
type SubmitFeedbackRequest struct {
	SessionID     string `json:"session_id" validate:"required,max=64"`
	ScenarioID    string `json:"scenario_id,omitempty" validate:"omitempty,max=128"`
	TrainingLevel string `json:"training_level,omitempty" validate:"training_level"`

	DifficultyRating *int `json:"difficulty_rating"`
	AIHelpfulness    *int `json:"ai_helpfulness"`
	ScenarioRealism  *int `json:"scenario_realism"`
	ConfidenceLevel  *int `json:"confidence_level"`

	WhatWorkedWell        string `json:"what_worked_well,omitempty"`
	WhatWasConfusing      string `json:"what_was_confusing,omitempty"`
	SuggestedImprovements string `json:"suggested_improvements,omitempty"`
	AdditionalComments    string `json:"additional_comments,omitempty"`
}
