package entities

// ResponseEvaluation is the scored result of a single trainee response.
// It is computed once by the score calculator and never mutated afterwards.
type ResponseEvaluation struct {
	ScenarioCategory string `json:"scenario_category"`
	ResponseTimeMS   int    `json:"response_time_ms"`
	IsCorrect        bool   `json:"is_correct"`

	// Derived sub-scores, all in [0,1]
	TimeScore     float64 `json:"time_score"`
	ProtocolScore float64 `json:"protocol_score"`
	SafetyScore   float64 `json:"safety_score"`

	// Weighted combination of the sub-scores, rounded to 2 decimals
	TotalScore float64 `json:"total_score"`

	// Dispersion heuristic over the sub-scores, rounded to 2 decimals.
	// Not a statistical confidence interval.
	Confidence float64 `json:"confidence"`

	FeedbackText string `json:"feedback_text"`
}

// Passed reports whether the response cleared the mixed-feedback threshold.
func (e ResponseEvaluation) Passed() bool {
	return e.TotalScore >= 0.6
}

// SessionStats are the aggregate statistics derived from one session's
// ordered action records.
type SessionStats struct {
	// Accuracy is the AI-agreement rate: the fraction of actions where the
	// trainee took the recommended action. Distinct from protocol
	// correctness, which measures against ground truth.
	Accuracy float64 `json:"accuracy"`

	MeanResponseTimeMS float64 `json:"mean_response_time_ms"`

	// SuccessRate normalizes cumulative reward into [0,1]. Heuristic, not a
	// probability.
	SuccessRate float64 `json:"success_rate"`

	// FinalScore is the mean total_score across all evaluated actions.
	FinalScore float64 `json:"final_score"`

	TotalActions    int     `json:"total_actions"`
	FollowedAICount int     `json:"followed_ai_count"`
	TotalReward     float64 `json:"total_reward"`
	ErrorsMade      int     `json:"errors_made"`
	CriticalErrors  int     `json:"critical_errors"`
}
