package retraining

import (
	"math"
	"testing"
	"time"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/pkg/config"
)

func testTrigger() *Trigger {
	return NewTrigger(config.RetrainingConfig{
		EffectivenessThreshold: 0.85,
		DifficultyThreshold:    4.0,
		MinSessionsPerScenario: 3,
		ErrorRateDelta:         0.15,
	})
}

func mkRecord(ts time.Time, scenario string, difficulty int, finalScore float64, total, followed, errs int) *entities.FeedbackRecord {
	return &entities.FeedbackRecord{
		Timestamp:        ts,
		SessionID:        "s-" + ts.Format("150405.000"),
		ScenarioID:       scenario,
		DifficultyRating: difficulty,
		FinalScore:       finalScore,
		TotalActions:     total,
		FollowedAICount:  followed,
		ErrorsMade:       errs,
	}
}

func TestDecideEffectivenessDecline(t *testing.T) {
	agg := Aggregate{
		TotalRecords:         10,
		FollowedSteps:        20,
		IgnoredSteps:         20,
		FollowedMeanScore:    0.5,
		IgnoredMeanScore:     0.9,
		EffectivenessRatio:   0.5 / 0.9,
		HasEffectivenessData: true,
	}

	d := testTrigger().Decide(agg)
	if !d.Retrain {
		t.Fatal("expected retrain decision")
	}
	if d.Reason() != entities.ReasonEffectivenessDecline {
		t.Fatalf("expected effectiveness_decline got %s", d.Reason())
	}
	if d.Priority != entities.PriorityScheduled {
		t.Fatalf("single reason must stay scheduled, got %s", d.Priority)
	}
}

func TestDecideNothingFired(t *testing.T) {
	d := testTrigger().Decide(Aggregate{TotalRecords: 12})
	if d.Retrain {
		t.Fatalf("empty aggregate fired: %+v", d.Reasons)
	}
	if d.Reason() != entities.ReasonNone {
		t.Fatalf("expected none got %s", d.Reason())
	}
}

func TestDecideHealthyRatioStaysSilent(t *testing.T) {
	agg := Aggregate{
		TotalRecords:         10,
		FollowedSteps:        10,
		IgnoredSteps:         10,
		FollowedMeanScore:    0.9,
		IgnoredMeanScore:     0.9,
		EffectivenessRatio:   1.0,
		HasEffectivenessData: true,
	}
	if d := testTrigger().Decide(agg); d.Retrain {
		t.Fatalf("ratio 1.0 fired: %+v", d.Reasons)
	}
}

func TestDecideHighDifficultyNeedsSessionFloor(t *testing.T) {
	tr := testTrigger()

	few := Aggregate{Scenarios: []ScenarioDifficulty{
		{ScenarioID: "hangar_aircraft", MeanDifficulty: 4.8, Sessions: 2},
	}}
	if d := tr.Decide(few); d.Retrain {
		t.Fatal("two sessions must not satisfy the three-session floor")
	}

	enough := Aggregate{Scenarios: []ScenarioDifficulty{
		{ScenarioID: "hangar_aircraft", MeanDifficulty: 4.8, Sessions: 3},
	}}
	d := tr.Decide(enough)
	if !d.Retrain || d.Reason() != entities.ReasonHighDifficulty {
		t.Fatalf("expected high_difficulty got %+v", d.Reasons)
	}
}

func TestDecideDifficultyExactlyAtThreshold(t *testing.T) {
	agg := Aggregate{Scenarios: []ScenarioDifficulty{
		{ScenarioID: "galley_cooking", MeanDifficulty: 4.0, Sessions: 5},
	}}
	if d := testTrigger().Decide(agg); d.Retrain {
		t.Fatal("mean difficulty must exceed the threshold, not equal it")
	}
}

func TestDecideErrorRateIncrease(t *testing.T) {
	tr := testTrigger()

	worse := Aggregate{EarlierErrorRate: 0.10, RecentErrorRate: 0.30, HasErrorTrend: true}
	d := tr.Decide(worse)
	if !d.Retrain || d.Reason() != entities.ReasonErrorRateIncrease {
		t.Fatalf("expected error_rate_increase got %+v", d.Reasons)
	}

	mild := Aggregate{EarlierErrorRate: 0.10, RecentErrorRate: 0.20, HasErrorTrend: true}
	if d := tr.Decide(mild); d.Retrain {
		t.Fatal("delta 0.10 must stay under the 0.15 bar")
	}
}

func TestDecideMultipleReasonsEscalate(t *testing.T) {
	agg := Aggregate{
		FollowedSteps:        10,
		IgnoredSteps:         10,
		FollowedMeanScore:    0.4,
		IgnoredMeanScore:     0.9,
		EffectivenessRatio:   0.4 / 0.9,
		HasEffectivenessData: true,
		EarlierErrorRate:     0.05,
		RecentErrorRate:      0.40,
		HasErrorTrend:        true,
	}

	d := testTrigger().Decide(agg)
	if len(d.Reasons) != 2 {
		t.Fatalf("expected 2 reasons got %v", d.Reasons)
	}
	if d.Priority != entities.PriorityImmediate {
		t.Fatalf("expected immediate priority got %s", d.Priority)
	}
}

func TestBuildAggregateStepWeightedEffectiveness(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	records := []*entities.FeedbackRecord{
		mkRecord(base, "engine_room_fuel", 3, 0.5, 4, 4, 0),
		mkRecord(base.Add(time.Hour), "engine_room_fuel", 3, 0.9, 4, 0, 0),
	}

	agg := BuildAggregate(records)
	if agg.FollowedSteps != 4 || agg.IgnoredSteps != 4 {
		t.Fatalf("unexpected step split: %d/%d", agg.FollowedSteps, agg.IgnoredSteps)
	}
	if !agg.HasEffectivenessData {
		t.Fatal("expected effectiveness data")
	}
	if math.Abs(agg.EffectivenessRatio-0.5/0.9) > 1e-9 {
		t.Fatalf("expected ratio %v got %v", 0.5/0.9, agg.EffectivenessRatio)
	}
}

func TestBuildAggregateUndefinedRatio(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	records := []*entities.FeedbackRecord{
		mkRecord(base, "engine_room_fuel", 3, 0.5, 4, 4, 0),
		mkRecord(base.Add(time.Hour), "engine_room_fuel", 3, 0.6, 4, 4, 0),
	}

	agg := BuildAggregate(records)
	if agg.HasEffectivenessData {
		t.Fatal("all-followed window has no ignored group, ratio is undefined")
	}
	if d := testTrigger().Decide(agg); d.Retrain {
		t.Fatalf("undefined ratio fired: %+v", d.Reasons)
	}
}

func TestBuildAggregateErrorTrendHalves(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var records []*entities.FeedbackRecord
	// Older half: 1 error in 20 actions. Newer half: 8 errors in 20 actions.
	for i := 0; i < 2; i++ {
		records = append(records, mkRecord(base.Add(time.Duration(i)*time.Hour), "berthing_electrical", 3, 0.8, 10, 10, i))
	}
	for i := 2; i < 4; i++ {
		records = append(records, mkRecord(base.Add(time.Duration(i)*time.Hour), "berthing_electrical", 3, 0.8, 10, 10, 4))
	}

	agg := BuildAggregate(records)
	if !agg.HasErrorTrend {
		t.Fatal("expected error trend data")
	}
	if math.Abs(agg.EarlierErrorRate-0.05) > 1e-9 {
		t.Fatalf("expected earlier rate 0.05 got %v", agg.EarlierErrorRate)
	}
	if math.Abs(agg.RecentErrorRate-0.40) > 1e-9 {
		t.Fatalf("expected recent rate 0.40 got %v", agg.RecentErrorRate)
	}
}

func TestBuildAggregateScenarioMeans(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	records := []*entities.FeedbackRecord{
		mkRecord(base, "hangar_aircraft", 5, 0.4, 4, 2, 1),
		mkRecord(base.Add(time.Minute), "hangar_aircraft", 4, 0.5, 4, 2, 1),
		mkRecord(base.Add(2*time.Minute), "galley_cooking", 2, 0.9, 4, 4, 0),
	}

	agg := BuildAggregate(records)
	if len(agg.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios got %d", len(agg.Scenarios))
	}
	// Sorted by scenario id: galley_cooking first.
	if agg.Scenarios[0].ScenarioID != "galley_cooking" || agg.Scenarios[0].Sessions != 1 {
		t.Fatalf("unexpected first scenario %+v", agg.Scenarios[0])
	}
	if agg.Scenarios[1].MeanDifficulty != 4.5 {
		t.Fatalf("expected hangar mean 4.5 got %v", agg.Scenarios[1].MeanDifficulty)
	}
}

func TestBuildAggregateEmpty(t *testing.T) {
	agg := BuildAggregate(nil)
	if agg.TotalRecords != 0 || agg.HasEffectivenessData || agg.HasErrorTrend {
		t.Fatalf("unexpected aggregate for empty input: %+v", agg)
	}
}
