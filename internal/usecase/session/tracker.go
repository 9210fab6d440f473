package session

import (
	"math"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// Tracker derives aggregate statistics from a session's ordered action
// records. Records are append-only for the lifetime of a session; there is
// no removal operation.
type Tracker struct {
	maxRewardPerAction float64
}

// NewTracker creates a tracker with the fixed per-step maximum reward used
// to normalize the success rate.
func NewTracker(maxRewardPerAction float64) *Tracker {
	if maxRewardPerAction <= 0 {
		maxRewardPerAction = 10.0
	}
	return &Tracker{maxRewardPerAction: maxRewardPerAction}
}

// Stats computes the aggregate statistics for the session's current records.
// All values are zero for a session with no logged actions.
func (t *Tracker) Stats(s *entities.TrainingSession) entities.SessionStats {
	stats := entities.SessionStats{
		ErrorsMade:     s.ErrorsMade,
		CriticalErrors: s.CriticalErrors,
	}

	n := len(s.Actions)
	if n == 0 {
		return stats
	}

	var followed int
	var totalTimeMS, totalReward, totalScore float64
	for _, a := range s.Actions {
		if a.FollowedAI {
			followed++
		}
		totalTimeMS += float64(a.ResponseTimeMS)
		totalReward += a.Reward
		totalScore += a.Evaluation.TotalScore
	}

	stats.TotalActions = n
	stats.FollowedAICount = followed
	stats.TotalReward = totalReward

	// Accuracy is the AI-agreement rate, not correctness against ground
	// truth. The two are tracked under separate names on purpose.
	stats.Accuracy = float64(followed) / float64(n)
	stats.MeanResponseTimeMS = totalTimeMS / float64(n)
	stats.FinalScore = totalScore / float64(n)

	// Normalize cumulative reward into [0,1] around the fixed per-step
	// maximum. Heuristic, not a probability: a session earning half the
	// maximum everywhere lands at ~0.66.
	maxTotal := t.maxRewardPerAction * float64(n)
	stats.SuccessRate = clamp01((totalReward + 0.5*maxTotal) / (1.5 * maxTotal))

	return stats
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
