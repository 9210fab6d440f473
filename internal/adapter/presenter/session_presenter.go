package presenter

import (
	"github.com/dcatrain/dca-feedback/internal/adapter/dto/common"
	"github.com/dcatrain/dca-feedback/internal/adapter/dto/feedback"
	sessionDTO "github.com/dcatrain/dca-feedback/internal/adapter/dto/session"
	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	sessionUsecase "github.com/dcatrain/dca-feedback/internal/usecase/session"
)

// ToEvaluationResponse converts a scored response to its wire shape
func ToEvaluationResponse(e entities.ResponseEvaluation) common.EvaluationResponse {
	return common.EvaluationResponse{
		ScenarioCategory: e.ScenarioCategory,
		ResponseTimeMS:   e.ResponseTimeMS,
		IsCorrect:        e.IsCorrect,
		TimeScore:        e.TimeScore,
		ProtocolScore:    e.ProtocolScore,
		SafetyScore:      e.SafetyScore,
		TotalScore:       e.TotalScore,
		Confidence:       e.Confidence,
		FeedbackText:     e.FeedbackText,
	}
}

// ToStatsResponse converts aggregate session statistics to their wire shape
func ToStatsResponse(s entities.SessionStats) common.StatsResponse {
	return common.StatsResponse{
		Accuracy:           s.Accuracy,
		MeanResponseTimeMS: s.MeanResponseTimeMS,
		SuccessRate:        s.SuccessRate,
		FinalScore:         s.FinalScore,
		TotalActions:       s.TotalActions,
		FollowedAICount:    s.FollowedAICount,
		TotalReward:        s.TotalReward,
		ErrorsMade:         s.ErrorsMade,
		CriticalErrors:     s.CriticalErrors,
	}
}

// ToStartSessionResponse converts a freshly started session
func ToStartSessionResponse(sess *entities.TrainingSession) *sessionDTO.StartSessionResponse {
	return &sessionDTO.StartSessionResponse{
		Success:       true,
		SessionID:     sess.SessionID,
		TrainingLevel: string(sess.TrainingLevel),
		Message:       "Feedback session started",
		Unsynced:      sess.Unsynced,
	}
}

// ToActionResponse converts one logged action's evaluation
func ToActionResponse(result *sessionUsecase.ActionResult) *sessionDTO.ActionResponse {
	return &sessionDTO.ActionResponse{
		Success:    true,
		Message:    "Action logged",
		SessionID:  result.SessionID,
		Step:       result.Step,
		Disagreed:  result.Disagreed,
		Evaluation: ToEvaluationResponse(result.Evaluation),
		Stats:      ToStatsResponse(result.Stats),
	}
}

// ToCompleteSessionResponse converts a sealed session summary
func ToCompleteSessionResponse(sealed *sessionUsecase.SealedResult) *sessionDTO.CompleteSessionResponse {
	rec := sealed.Record
	return &sessionDTO.CompleteSessionResponse{
		Success:           true,
		Message:           "Session completed",
		SessionID:         rec.SessionID,
		FeedbackID:        rec.ID.String(),
		FinalScore:        rec.FinalScore,
		PerformanceRating: rec.PerformanceRating,
		CompletionSeconds: rec.CompletionSeconds,
		Stats:             ToStatsResponse(sealed.Stats),
		Unsynced:          rec.Unsynced,
	}
}

// ToSubmitFeedbackResponse converts a sealed session for the strict
// feedback-submission path.
func ToSubmitFeedbackResponse(sealed *sessionUsecase.SealedResult) *feedback.SubmitFeedbackResponse {
	rec := sealed.Record
	return &feedback.SubmitFeedbackResponse{
		Success:           true,
		Message:           "Feedback submitted successfully",
		FeedbackID:        rec.ID.String(),
		SessionID:         rec.SessionID,
		FinalScore:        rec.FinalScore,
		PerformanceRating: rec.PerformanceRating,
		Stats:             ToStatsResponse(sealed.Stats),
		Unsynced:          rec.Unsynced,
	}
}
