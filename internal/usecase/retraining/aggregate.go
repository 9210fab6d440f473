package retraining

import (
	"sort"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// ScenarioDifficulty summarizes the subjective difficulty reported for one
// scenario across recent sessions.
type ScenarioDifficulty struct {
	ScenarioID     string  `json:"scenario_id"`
	MeanDifficulty float64 `json:"mean_difficulty"`
	Sessions       int     `json:"sessions"`
}

// Aggregate is the cross-session view the retraining policy inspects. It is
// computed on demand from sealed feedback records and never stored.
type Aggregate struct {
	TotalRecords int

	// Effectiveness compares mean final score over steps where the trainee
	// followed the recommendation against steps where they did not. Steps,
	// not sessions, carry the weight: a ten-action episode counts ten times.
	FollowedSteps      int
	IgnoredSteps       int
	FollowedMeanScore  float64
	IgnoredMeanScore   float64
	EffectivenessRatio float64

	// HasEffectivenessData is false when either group is empty or the
	// ignored mean is zero; the ratio is undefined then and the decline
	// rule stays silent.
	HasEffectivenessData bool

	// Scenarios in stable scenario-id order.
	Scenarios []ScenarioDifficulty

	// Error rate over the older and newer halves of the window, fraction of
	// incorrect actions.
	EarlierErrorRate float64
	RecentErrorRate  float64
	HasErrorTrend    bool
}

// BuildAggregate computes the policy view from sealed feedback records. The
// input order does not matter; records are re-sorted by sealing time so the
// trailing-window split is stable.
func BuildAggregate(records []*entities.FeedbackRecord) Aggregate {
	agg := Aggregate{TotalRecords: len(records)}
	if len(records) == 0 {
		return agg
	}

	ordered := make([]*entities.FeedbackRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var followedScoreSum, ignoredScoreSum float64
	byScenario := make(map[string]*ScenarioDifficulty)

	for _, rec := range ordered {
		followed := rec.FollowedAICount
		ignored := rec.TotalActions - rec.FollowedAICount
		if ignored < 0 {
			ignored = 0
		}
		agg.FollowedSteps += followed
		agg.IgnoredSteps += ignored
		followedScoreSum += rec.FinalScore * float64(followed)
		ignoredScoreSum += rec.FinalScore * float64(ignored)

		sd, ok := byScenario[rec.ScenarioID]
		if !ok {
			sd = &ScenarioDifficulty{ScenarioID: rec.ScenarioID}
			byScenario[rec.ScenarioID] = sd
		}
		sd.MeanDifficulty += float64(rec.DifficultyRating)
		sd.Sessions++
	}

	if agg.FollowedSteps > 0 {
		agg.FollowedMeanScore = followedScoreSum / float64(agg.FollowedSteps)
	}
	if agg.IgnoredSteps > 0 {
		agg.IgnoredMeanScore = ignoredScoreSum / float64(agg.IgnoredSteps)
	}
	if agg.FollowedSteps > 0 && agg.IgnoredSteps > 0 && agg.IgnoredMeanScore > 0 {
		agg.EffectivenessRatio = agg.FollowedMeanScore / agg.IgnoredMeanScore
		agg.HasEffectivenessData = true
	}

	ids := make([]string, 0, len(byScenario))
	for id := range byScenario {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sd := byScenario[id]
		sd.MeanDifficulty /= float64(sd.Sessions)
		agg.Scenarios = append(agg.Scenarios, *sd)
	}

	// Trailing error trend: compare the older half of the window against
	// the newer half, weighting by actions.
	half := len(ordered) / 2
	earlierErrors, earlierActions := errorTotals(ordered[:half])
	recentErrors, recentActions := errorTotals(ordered[half:])
	if earlierActions > 0 && recentActions > 0 {
		agg.EarlierErrorRate = float64(earlierErrors) / float64(earlierActions)
		agg.RecentErrorRate = float64(recentErrors) / float64(recentActions)
		agg.HasErrorTrend = true
	}

	return agg
}

func errorTotals(records []*entities.FeedbackRecord) (errs, actions int) {
	for _, rec := range records {
		errs += rec.ErrorsMade
		actions += rec.TotalActions
	}
	return errs, actions
}
