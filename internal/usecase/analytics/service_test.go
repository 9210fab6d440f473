package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	uerrors "github.com/dcatrain/dca-feedback/internal/usecase/errors"
)

type fakeFeedbackRepo struct {
	records []*entities.FeedbackRecord
	listErr error
}

func (r *fakeFeedbackRepo) Upsert(ctx context.Context, record *entities.FeedbackRecord) error {
	return nil
}

func (r *fakeFeedbackRepo) GetBySessionID(ctx context.Context, sessionID string) (*entities.FeedbackRecord, error) {
	return nil, entities.ErrFeedbackNotFound
}

func (r *fakeFeedbackRepo) ListRecent(ctx context.Context, limit int) ([]*entities.FeedbackRecord, error) {
	return r.records, nil
}

func (r *fakeFeedbackRepo) ListSince(ctx context.Context, since time.Time) ([]*entities.FeedbackRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.records, nil
}

func (r *fakeFeedbackRepo) ListByScenario(ctx context.Context, scenarioID string) ([]*entities.FeedbackRecord, error) {
	return nil, nil
}

func (r *fakeFeedbackRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

type fakeArchive struct {
	payload    []byte
	putErr     error
	presignErr error
}

func (a *fakeArchive) PutSession(ctx context.Context, sess *entities.TrainingSession, record *entities.FeedbackRecord) error {
	return nil
}

func (a *fakeArchive) PutSummary(ctx context.Context, payload []byte) (string, error) {
	if a.putErr != nil {
		return "", a.putErr
	}
	a.payload = payload
	return "exports/feedback_summary.json", nil
}

func (a *fakeArchive) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if a.presignErr != nil {
		return "", a.presignErr
	}
	return "http://archive.local/" + objectName, nil
}

func rec(scenario string, level entities.TrainingLevel, difficulty int, score float64, total, followed, errs int) *entities.FeedbackRecord {
	return &entities.FeedbackRecord{
		Timestamp:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		ScenarioID:       scenario,
		TrainingLevel:    level,
		DifficultyRating: difficulty,
		AIHelpfulness:    3,
		ScenarioRealism:  3,
		ConfidenceLevel:  3,
		FinalScore:       score,
		TotalActions:     total,
		FollowedAICount:  followed,
		ErrorsMade:       errs,
		Accuracy:         float64(followed) / float64(total),
	}
}

func TestSummaryEmptyWindow(t *testing.T) {
	svc := NewService(&fakeFeedbackRepo{}, nil, nil)

	summary, err := svc.Summary(context.Background(), 0)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.TotalSessions != 0 {
		t.Fatalf("expected 0 sessions got %d", summary.TotalSessions)
	}
	if summary.AnalysisPeriodDays != 30 {
		t.Fatalf("expected default 30 day window got %d", summary.AnalysisPeriodDays)
	}
	if len(summary.DifficultScenarios) != 0 || len(summary.Recommendations) != 0 {
		t.Fatalf("empty window produced content: %+v", summary)
	}
}

func TestSummaryStorageOutage(t *testing.T) {
	svc := NewService(&fakeFeedbackRepo{listErr: errors.New("connection refused")}, nil, nil)

	_, err := svc.Summary(context.Background(), 7)
	if !errors.Is(err, uerrors.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable got %v", err)
	}
}

func TestSummaryMeanRatings(t *testing.T) {
	a := rec("engine_room_fuel", entities.TrainingLevelNovice, 4, 0.8, 4, 4, 0)
	a.AIHelpfulness, a.ScenarioRealism, a.ConfidenceLevel = 5, 3, 2
	b := rec("engine_room_fuel", entities.TrainingLevelNovice, 2, 0.8, 4, 4, 0)
	b.AIHelpfulness, b.ScenarioRealism, b.ConfidenceLevel = 3, 5, 4

	svc := NewService(&fakeFeedbackRepo{records: []*entities.FeedbackRecord{a, b}}, nil, nil)
	summary, err := svc.Summary(context.Background(), 30)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	m := summary.MeanRatings
	if m.Difficulty != 3 || m.AIHelpfulness != 4 || m.ScenarioRealism != 4 || m.ConfidenceLevel != 3 {
		t.Fatalf("unexpected rating means %+v", m)
	}
}

func TestSummaryDifficultScenarioRules(t *testing.T) {
	records := []*entities.FeedbackRecord{
		// High subjective difficulty.
		rec("hangar_aircraft", entities.TrainingLevelNovice, 5, 0.8, 4, 2, 0),
		// Healthy on every axis.
		rec("galley_cooking", entities.TrainingLevelNovice, 2, 0.9, 4, 2, 0),
		// Low score despite low reported difficulty.
		rec("berthing_electrical", entities.TrainingLevelNovice, 2, 0.4, 4, 2, 1),
	}

	svc := NewService(&fakeFeedbackRepo{records: records}, nil, nil)
	summary, err := svc.Summary(context.Background(), 30)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if len(summary.DifficultScenarios) != 2 {
		t.Fatalf("expected 2 difficult scenarios got %+v", summary.DifficultScenarios)
	}
	if summary.DifficultScenarios[0].ScenarioID != "hangar_aircraft" {
		t.Fatalf("expected hangar_aircraft first got %s", summary.DifficultScenarios[0].ScenarioID)
	}
	if summary.DifficultScenarios[1].ScenarioID != "berthing_electrical" {
		t.Fatalf("expected berthing_electrical second got %s", summary.DifficultScenarios[1].ScenarioID)
	}
}

func TestSummaryDifficultScenariosCapped(t *testing.T) {
	var records []*entities.FeedbackRecord
	for i := 0; i < 7; i++ {
		records = append(records, rec(fmt.Sprintf("scenario_%d", i), entities.TrainingLevelNovice, 5, 0.3, 4, 2, 4))
	}

	svc := NewService(&fakeFeedbackRepo{records: records}, nil, nil)
	summary, err := svc.Summary(context.Background(), 30)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if len(summary.DifficultScenarios) != 5 {
		t.Fatalf("expected cap of 5 got %d", len(summary.DifficultScenarios))
	}
}

func TestSummaryLevelPerformance(t *testing.T) {
	records := []*entities.FeedbackRecord{
		rec("engine_room_fuel", entities.TrainingLevelNovice, 3, 0.5, 4, 2, 2),
		rec("engine_room_fuel", entities.TrainingLevelNovice, 3, 0.7, 4, 4, 0),
		rec("engine_room_fuel", entities.TrainingLevelExpert, 3, 0.9, 4, 2, 0),
	}

	svc := NewService(&fakeFeedbackRepo{records: records}, nil, nil)
	summary, err := svc.Summary(context.Background(), 30)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if len(summary.LevelPerformance) != 2 {
		t.Fatalf("expected 2 levels got %+v", summary.LevelPerformance)
	}
	// Sorted by level name: expert before novice.
	expert, novice := summary.LevelPerformance[0], summary.LevelPerformance[1]
	if expert.TrainingLevel != "expert" || expert.Sessions != 1 {
		t.Fatalf("unexpected expert bucket %+v", expert)
	}
	if novice.Sessions != 2 || novice.MeanScore != 0.6 || novice.MeanErrors != 1 {
		t.Fatalf("unexpected novice bucket %+v", novice)
	}
}

func TestSummaryRecommendations(t *testing.T) {
	records := []*entities.FeedbackRecord{
		// Followed steps score poorly, ignored steps score well: low ratio.
		rec("hangar_aircraft", entities.TrainingLevelNovice, 5, 0.4, 4, 4, 1),
		rec("hangar_aircraft", entities.TrainingLevelNovice, 5, 0.9, 4, 0, 0),
	}

	svc := NewService(&fakeFeedbackRepo{records: records}, nil, nil)
	summary, err := svc.Summary(context.Background(), 30)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if len(summary.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	first := summary.Recommendations[0]
	if first.Priority != "HIGH" || first.Area != "ai_system" {
		t.Fatalf("expected HIGH ai_system first got %+v", first)
	}
	foundScenario := false
	for _, r := range summary.Recommendations[1:] {
		if r.Area == "scenario_content" {
			foundScenario = true
		}
	}
	if !foundScenario {
		t.Fatal("expected scenario_content recommendation for difficult scenario")
	}
}

func TestSummaryHealthyWindowNoAIRecommendation(t *testing.T) {
	// Followed steps score 0.95 against 0.5 for ignored ones: ratio 1.9.
	records := []*entities.FeedbackRecord{
		rec("galley_cooking", entities.TrainingLevelNovice, 2, 0.5, 4, 0, 0),
		rec("galley_cooking", entities.TrainingLevelNovice, 2, 0.95, 4, 4, 0),
	}

	svc := NewService(&fakeFeedbackRepo{records: records}, nil, nil)
	summary, err := svc.Summary(context.Background(), 30)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !summary.AIEffectiveness.HasData {
		t.Fatal("expected effectiveness data")
	}
	if summary.AIEffectiveness.EffectivenessRatio <= helpfulnessBar {
		t.Fatalf("fixture not helpful enough: %v", summary.AIEffectiveness.EffectivenessRatio)
	}
	for _, r := range summary.Recommendations {
		if r.Area == "ai_system" {
			t.Fatalf("helpful AI got flagged: %+v", r)
		}
	}
}

func TestExportWithoutArchive(t *testing.T) {
	svc := NewService(&fakeFeedbackRepo{}, nil, nil)

	_, err := svc.Export(context.Background(), 30)
	if !errors.Is(err, uerrors.ErrArchiveUnavailable) {
		t.Fatalf("expected ErrArchiveUnavailable got %v", err)
	}
}

func TestExportWritesSummarySnapshot(t *testing.T) {
	archive := &fakeArchive{}
	records := []*entities.FeedbackRecord{
		rec("engine_room_fuel", entities.TrainingLevelNovice, 3, 0.8, 4, 4, 0),
	}
	svc := NewService(&fakeFeedbackRepo{records: records}, archive, nil)

	result, err := svc.Export(context.Background(), 30)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if result.ObjectName != "exports/feedback_summary.json" {
		t.Fatalf("unexpected object name %s", result.ObjectName)
	}
	if result.URL == "" {
		t.Fatal("expected presigned url")
	}

	var snapshot Summary
	if err := json.Unmarshal(archive.payload, &snapshot); err != nil {
		t.Fatalf("archived payload not valid summary json: %v", err)
	}
	if snapshot.TotalSessions != 1 {
		t.Fatalf("expected 1 session in snapshot got %d", snapshot.TotalSessions)
	}
}

func TestExportArchiveFailure(t *testing.T) {
	archive := &fakeArchive{putErr: errors.New("bucket missing")}
	svc := NewService(&fakeFeedbackRepo{records: []*entities.FeedbackRecord{
		rec("engine_room_fuel", entities.TrainingLevelNovice, 3, 0.8, 4, 4, 0),
	}}, archive, nil)

	_, err := svc.Export(context.Background(), 30)
	if !errors.Is(err, uerrors.ErrArchiveUnavailable) {
		t.Fatalf("expected ErrArchiveUnavailable got %v", err)
	}
}
