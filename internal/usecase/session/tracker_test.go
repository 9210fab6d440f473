package session

import (
	"math"
	"testing"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

func mkAction(user, ai string, correct bool, timeMS int, reward, score float64) entities.ActionRecord {
	safety := 0.9
	if !correct {
		safety = 0.3
	}
	return entities.ActionRecord{
		UserAction:          user,
		AIRecommendedAction: ai,
		ResponseTimeMS:      timeMS,
		Reward:              reward,
		Evaluation: entities.ResponseEvaluation{
			IsCorrect:   correct,
			SafetyScore: safety,
			TotalScore:  score,
		},
	}
}

func TestStatsEmptySession(t *testing.T) {
	sess := entities.NewTrainingSession("s-1", "engine_room_fuel", "", entities.TrainingLevelNovice)
	sess.ErrorsMade = 2
	sess.CriticalErrors = 1

	stats := NewTracker(10).Stats(sess)

	if stats.TotalActions != 0 || stats.Accuracy != 0 || stats.SuccessRate != 0 || stats.FinalScore != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if stats.ErrorsMade != 2 || stats.CriticalErrors != 1 {
		t.Fatalf("error counters not carried over: %+v", stats)
	}
}

func TestStatsAgreementSeparateFromCorrectness(t *testing.T) {
	sess := entities.NewTrainingSession("s-2", "engine_room_fuel", "", entities.TrainingLevelNovice)
	sess.AppendAction(mkAction("dispatch_small_team", "dispatch_small_team", true, 3000, 5, 0.9))
	sess.AppendAction(mkAction("activate_sprinklers", "dispatch_small_team", false, 3000, 0, 0.3))
	sess.AppendAction(mkAction("call_fedfire", "call_fedfire", false, 3000, 0, 0.3))
	sess.AppendAction(mkAction("seal_compartment", "seal_compartment", true, 3000, 5, 0.9))

	stats := NewTracker(10).Stats(sess)

	// Three of four actions matched the recommendation, independent of two
	// being incorrect against ground truth.
	if stats.Accuracy != 0.75 {
		t.Fatalf("expected accuracy 0.75 got %v", stats.Accuracy)
	}
	if stats.FollowedAICount != 3 {
		t.Fatalf("expected 3 followed got %d", stats.FollowedAICount)
	}
	if stats.ErrorsMade != 2 {
		t.Fatalf("expected 2 errors got %d", stats.ErrorsMade)
	}
}

func TestStatsSuccessRateFullReward(t *testing.T) {
	sess := entities.NewTrainingSession("s-3", "engine_room_fuel", "", entities.TrainingLevelNovice)
	for i := 0; i < 3; i++ {
		sess.AppendAction(mkAction("a", "a", true, 1000, 10, 1.0))
	}

	stats := NewTracker(10).Stats(sess)
	if stats.SuccessRate != 1.0 {
		t.Fatalf("expected success rate 1.0 got %v", stats.SuccessRate)
	}
}

func TestStatsSuccessRateZeroReward(t *testing.T) {
	sess := entities.NewTrainingSession("s-4", "engine_room_fuel", "", entities.TrainingLevelNovice)
	for i := 0; i < 3; i++ {
		sess.AppendAction(mkAction("a", "a", true, 1000, 0, 1.0))
	}

	stats := NewTracker(10).Stats(sess)
	if math.Abs(stats.SuccessRate-1.0/3.0) > 1e-9 {
		t.Fatalf("expected success rate 1/3 got %v", stats.SuccessRate)
	}
}

func TestStatsSuccessRateClamped(t *testing.T) {
	sess := entities.NewTrainingSession("s-5", "engine_room_fuel", "", entities.TrainingLevelNovice)
	sess.AppendAction(mkAction("a", "a", true, 1000, -100, 0.2))

	stats := NewTracker(10).Stats(sess)
	if stats.SuccessRate != 0 {
		t.Fatalf("expected clamped success rate 0 got %v", stats.SuccessRate)
	}
}

func TestStatsMeansOverActions(t *testing.T) {
	sess := entities.NewTrainingSession("s-6", "engine_room_fuel", "", entities.TrainingLevelNovice)
	sess.AppendAction(mkAction("a", "a", true, 1000, 5, 0.8))
	sess.AppendAction(mkAction("b", "b", true, 3000, 5, 0.4))

	stats := NewTracker(10).Stats(sess)
	if stats.MeanResponseTimeMS != 2000 {
		t.Fatalf("expected mean response time 2000 got %v", stats.MeanResponseTimeMS)
	}
	if math.Abs(stats.FinalScore-0.6) > 1e-9 {
		t.Fatalf("expected final score 0.6 got %v", stats.FinalScore)
	}
	if stats.TotalReward != 10 {
		t.Fatalf("expected total reward 10 got %v", stats.TotalReward)
	}
}

func TestNewTrackerDefaultsMaxReward(t *testing.T) {
	sess := entities.NewTrainingSession("s-7", "engine_room_fuel", "", entities.TrainingLevelNovice)
	sess.AppendAction(mkAction("a", "a", true, 1000, 10, 1.0))

	stats := NewTracker(0).Stats(sess)
	if stats.SuccessRate != 1.0 {
		t.Fatalf("default per-action maximum not applied, got %v", stats.SuccessRate)
	}
}
