package common

// ErrorResponse is the failure envelope shared by every endpoint
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MessageResponse is the minimal success envelope
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// EvaluationResponse is the wire shape of one scored trainee response
type EvaluationResponse struct {
	ScenarioCategory string  `json:"scenario_category"`
	ResponseTimeMS   int     `json:"response_time_ms"`
	IsCorrect        bool    `json:"is_correct"`
	TimeScore        float64 `json:"time_score"`
	ProtocolScore    float64 `json:"protocol_score"`
	SafetyScore      float64 `json:"safety_score"`
	TotalScore       float64 `json:"total_score"`
	Confidence       float64 `json:"confidence"`
	FeedbackText     string  `json:"feedback_text"`
}

// StatsResponse is the wire shape of aggregate session statistics
type StatsResponse struct {
	Accuracy           float64 `json:"accuracy"`
	MeanResponseTimeMS float64 `json:"mean_response_time_ms"`
	SuccessRate        float64 `json:"success_rate"`
	FinalScore         float64 `json:"final_score"`
	TotalActions       int     `json:"total_actions"`
	FollowedAICount    int     `json:"followed_ai_count"`
	TotalReward        float64 `json:"total_reward"`
	ErrorsMade         int     `json:"errors_made"`
	CriticalErrors     int     `json:"critical_errors"`
}
