package retraining

import (
	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/pkg/config"
)

// Decision is the outcome of one policy evaluation. Every firing carries at
// least one reason; downstream tooling uses the reason to decide between
// paging a human and auto-queueing the pipeline.
type Decision struct {
	Retrain  bool
	Reasons  []entities.RetrainingReason
	Priority entities.SignalPriority
	Details  map[string]interface{}
}

// Reason returns the primary reason code, ReasonNone when nothing fired.
func (d Decision) Reason() entities.RetrainingReason {
	if len(d.Reasons) == 0 {
		return entities.ReasonNone
	}
	return d.Reasons[0]
}

// Trigger applies the threshold rules to an aggregate. Pure policy: it never
// touches the model or any store.
type Trigger struct {
	effectivenessThreshold float64
	difficultyThreshold    float64
	minSessionsPerScenario int
	errorRateDelta         float64
}

// NewTrigger creates a trigger with the configured thresholds.
func NewTrigger(cfg config.RetrainingConfig) *Trigger {
	return &Trigger{
		effectivenessThreshold: cfg.EffectivenessThreshold,
		difficultyThreshold:    cfg.DifficultyThreshold,
		minSessionsPerScenario: cfg.MinSessionsPerScenario,
		errorRateDelta:         cfg.ErrorRateDelta,
	}
}

// Decide evaluates every rule and returns all that fired, in fixed order:
// effectiveness decline, high difficulty, error rate increase. Two or more
// firing together escalate the priority to immediate.
func (t *Trigger) Decide(agg Aggregate) Decision {
	d := Decision{
		Priority: entities.PriorityScheduled,
		Details:  map[string]interface{}{"total_records": agg.TotalRecords},
	}

	if agg.HasEffectivenessData && agg.EffectivenessRatio < t.effectivenessThreshold {
		d.Reasons = append(d.Reasons, entities.ReasonEffectivenessDecline)
		d.Details["effectiveness_ratio"] = agg.EffectivenessRatio
		d.Details["avg_score_when_followed"] = agg.FollowedMeanScore
		d.Details["avg_score_when_ignored"] = agg.IgnoredMeanScore
	}

	var difficult []ScenarioDifficulty
	for _, sc := range agg.Scenarios {
		if sc.Sessions >= t.minSessionsPerScenario && sc.MeanDifficulty > t.difficultyThreshold {
			difficult = append(difficult, sc)
		}
	}
	if len(difficult) > 0 {
		d.Reasons = append(d.Reasons, entities.ReasonHighDifficulty)
		d.Details["difficult_scenarios"] = difficult
	}

	if agg.HasErrorTrend && agg.RecentErrorRate-agg.EarlierErrorRate > t.errorRateDelta {
		d.Reasons = append(d.Reasons, entities.ReasonErrorRateIncrease)
		d.Details["earlier_error_rate"] = agg.EarlierErrorRate
		d.Details["recent_error_rate"] = agg.RecentErrorRate
	}

	d.Retrain = len(d.Reasons) > 0
	if len(d.Reasons) >= 2 {
		d.Priority = entities.PriorityImmediate
	}
	return d
}
