package scoring

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// Sub-score constants, matched to the scripted evaluator the training UI
// embeds for offline use. Both sides must produce identical numbers.
const (
	timeScoreGuessing   = 0.6 // under 2s, likely reflexive guessing
	timeScoreOptimal    = 1.0 // 2-5s deliberation window
	timeScoreAcceptable = 0.8 // 5-10s
	timeScoreSlow       = 0.6 // 10-20s
	timeScoreIndecisive = 0.3 // beyond 20s

	safetyScoreCorrect   = 0.9
	safetyScoreIncorrect = 0.3
	safetyCriticalBoost  = 1.1
)

// Feedback templates, concatenated in fixed order: overall, timing,
// protocol, safety.
const (
	feedbackExcellent = "Excellent response! Strong decision-making skills."
	feedbackGood      = "Good response with room for improvement."
	feedbackRemedial  = "Consider reviewing procedures for this scenario."

	feedbackTimingPoor = "Response time needs significant improvement."
	feedbackTimingSlow = "Response time could be optimized."
	feedbackProtocol   = "Review standard operating procedures."
	feedbackSafety     = "Prioritize crew safety considerations."
)

// Calculator scores a single trainee response. Evaluate is pure and
// deterministic; the logger is only used to surface unrecognized categories
// at low severity.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a score calculator.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Evaluate maps one trainee response to its weighted score, confidence and
// feedback text. Malformed input degrades gracefully: negative times are
// treated as zero and unknown categories fall back to the default weights.
func (c *Calculator) Evaluate(category string, responseTimeMS int, isCorrect bool) entities.ResponseEvaluation {
	if responseTimeMS < 0 {
		responseTimeMS = 0
	}

	timeScore := timeScoreFor(responseTimeMS)

	protocolScore := 0.0
	if isCorrect {
		protocolScore = 1.0
	}

	safetyScore := safetyScoreIncorrect
	if isCorrect {
		safetyScore = safetyScoreCorrect
	}
	if strings.Contains(category, "Safety") || strings.Contains(category, "Emergency") {
		safetyScore = math.Min(1.0, safetyScore*safetyCriticalBoost)
	}

	weights, known := WeightsFor(category)
	if !known {
		c.logger.Debug("unknown scenario category, using default weights",
			zap.String("category", category),
		)
	}

	total := weights.Speed*timeScore + weights.Protocol*protocolScore + weights.Safety*safetyScore

	high := math.Max(timeScore, math.Max(protocolScore, safetyScore))
	low := math.Min(timeScore, math.Min(protocolScore, safetyScore))
	confidence := 1.0 - (high-low)/2

	return entities.ResponseEvaluation{
		ScenarioCategory: category,
		ResponseTimeMS:   responseTimeMS,
		IsCorrect:        isCorrect,
		TimeScore:        timeScore,
		ProtocolScore:    protocolScore,
		SafetyScore:      safetyScore,
		TotalScore:       round2(total),
		Confidence:       round2(confidence),
		FeedbackText:     feedbackText(round2(total), timeScore, protocolScore, safetyScore),
	}
}

// timeScoreFor is the piecewise step function over response seconds.
func timeScoreFor(responseTimeMS int) float64 {
	seconds := float64(responseTimeMS) / 1000.0
	switch {
	case seconds < 2:
		return timeScoreGuessing
	case seconds <= 5:
		return timeScoreOptimal
	case seconds <= 10:
		return timeScoreAcceptable
	case seconds <= 20:
		return timeScoreSlow
	default:
		return timeScoreIndecisive
	}
}

// feedbackText selects the overall template by total score and appends the
// per-dimension clauses, single-space separated.
func feedbackText(total, timeScore, protocolScore, safetyScore float64) string {
	parts := make([]string, 0, 4)

	switch {
	case total >= 0.8:
		parts = append(parts, feedbackExcellent)
	case total >= 0.6:
		parts = append(parts, feedbackGood)
	default:
		parts = append(parts, feedbackRemedial)
	}

	if timeScore < 0.5 {
		if timeScore < 0.4 {
			parts = append(parts, feedbackTimingPoor)
		} else {
			parts = append(parts, feedbackTimingSlow)
		}
	}
	if protocolScore < 0.5 {
		parts = append(parts, feedbackProtocol)
	}
	if safetyScore < 0.7 {
		parts = append(parts, feedbackSafety)
	}

	return strings.Join(parts, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
