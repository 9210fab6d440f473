package feedback

import (
	"github.com/dcatrain/dca-feedback/internal/adapter/dto/common"
)

// SubmitFeedbackResponse confirms a sealed session with its stored record id
type SubmitFeedbackResponse struct {
	Success           bool                 `json:"success"`
	Message           string               `json:"message"`
	FeedbackID        string               `json:"feedback_id"`
	SessionID         string               `json:"session_id"`
	FinalScore        float64              `json:"final_score"`
	PerformanceRating string               `json:"performance_rating"`
	Stats             common.StatsResponse `json:"stats"`
	Unsynced          bool                 `json:"unsynced,omitempty"`
}
