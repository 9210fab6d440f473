package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/internal/domain/repositories"
	uerrors "github.com/dcatrain/dca-feedback/internal/usecase/errors"
	"github.com/dcatrain/dca-feedback/internal/usecase/retraining"
)

const (
	defaultPeriodDays = 30

	// Difficult-scenario cut, applied per scenario over the window.
	difficultyFloor = 3.5
	scoreCeiling    = 0.6
	errorFloor      = 3.0

	// Below this effectiveness ratio the AI is not meaningfully helping.
	helpfulnessBar = 1.1

	maxDifficultScenarios = 5
	exportURLTTL          = time.Hour
)

// Summary is the cross-session analytics view served to operators.
type Summary struct {
	TotalSessions      int                  `json:"total_sessions"`
	AnalysisPeriodDays int                  `json:"analysis_period_days"`
	AIEffectiveness    EffectivenessSummary `json:"ai_effectiveness"`
	MeanRatings        RatingMeans          `json:"mean_ratings"`
	DifficultScenarios []DifficultScenario  `json:"difficult_scenarios"`
	LevelPerformance   []LevelPerformance   `json:"performance_by_level"`
	Recommendations    []Recommendation     `json:"recommendations"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

// EffectivenessSummary compares outcomes when the trainee followed the
// recommendation against when they did not.
type EffectivenessSummary struct {
	AvgScoreWhenFollowed float64 `json:"avg_score_when_followed"`
	AvgScoreWhenIgnored  float64 `json:"avg_score_when_ignored"`
	EffectivenessRatio   float64 `json:"ai_effectiveness_ratio"`
	HasData              bool    `json:"has_data"`
}

// RatingMeans averages the four subjective ratings across the window.
type RatingMeans struct {
	Difficulty      float64 `json:"difficulty"`
	AIHelpfulness   float64 `json:"ai_helpfulness"`
	ScenarioRealism float64 `json:"scenario_realism"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// DifficultScenario is one scenario trainees consistently struggle with.
type DifficultScenario struct {
	ScenarioID            string  `json:"scenario_id"`
	MeanDifficulty        float64 `json:"mean_difficulty"`
	MeanScore             float64 `json:"mean_score"`
	MeanErrors            float64 `json:"mean_errors"`
	MeanCompletionSeconds float64 `json:"mean_completion_seconds"`
	Sessions              int     `json:"sessions"`
}

// LevelPerformance groups outcomes by self-reported training level.
type LevelPerformance struct {
	TrainingLevel string  `json:"training_level"`
	Sessions      int     `json:"sessions"`
	MeanScore     float64 `json:"mean_score"`
	MeanAccuracy  float64 `json:"mean_accuracy"`
	MeanErrors    float64 `json:"mean_errors"`
}

// Recommendation is one operator-facing improvement suggestion.
type Recommendation struct {
	Priority   string `json:"priority"`
	Area       string `json:"area"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// ExportResult points at an archived summary snapshot.
type ExportResult struct {
	ObjectName string    `json:"object_name"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Service computes analytics over sealed feedback records.
type Service interface {
	// Summary aggregates the trailing window; days <= 0 uses the default
	Summary(ctx context.Context, days int) (*Summary, error)

	// Export archives the current summary and returns a download URL
	Export(ctx context.Context, days int) (*ExportResult, error)
}

type analyticsService struct {
	feedbackRepo repositories.FeedbackRepository
	archive      repositories.SessionArchive
	logger       *zap.Logger
}

// NewService creates the analytics service. archive may be nil; Export then
// reports the archive unavailable.
func NewService(feedbackRepo repositories.FeedbackRepository, archive repositories.SessionArchive, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &analyticsService{feedbackRepo: feedbackRepo, archive: archive, logger: logger}
}

func (s *analyticsService) Summary(ctx context.Context, days int) (*Summary, error) {
	if days <= 0 {
		days = defaultPeriodDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	records, err := s.feedbackRepo.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list feedback window: %w", uerrors.ErrStorageUnavailable)
	}

	summary := &Summary{
		TotalSessions:      len(records),
		AnalysisPeriodDays: days,
		GeneratedAt:        time.Now().UTC(),
	}
	if len(records) == 0 {
		return summary, nil
	}

	agg := retraining.BuildAggregate(records)
	summary.AIEffectiveness = EffectivenessSummary{
		AvgScoreWhenFollowed: agg.FollowedMeanScore,
		AvgScoreWhenIgnored:  agg.IgnoredMeanScore,
		EffectivenessRatio:   agg.EffectivenessRatio,
		HasData:              agg.HasEffectivenessData,
	}
	summary.MeanRatings = ratingMeans(records)
	summary.DifficultScenarios = difficultScenarios(records)
	summary.LevelPerformance = levelPerformance(records)
	summary.Recommendations = recommendations(summary.AIEffectiveness, summary.DifficultScenarios)

	return summary, nil
}

func (s *analyticsService) Export(ctx context.Context, days int) (*ExportResult, error) {
	if s.archive == nil {
		return nil, uerrors.ErrArchiveUnavailable
	}

	summary, err := s.Summary(ctx, days)
	if err != nil {
		return nil, err
	}
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	objectName, err := s.archive.PutSummary(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("archive summary: %w", uerrors.ErrArchiveUnavailable)
	}
	url, err := s.archive.PresignedURL(ctx, objectName, exportURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign summary export: %w", uerrors.ErrArchiveUnavailable)
	}

	s.logger.Info("📊 analytics summary exported",
		zap.String("object_name", objectName),
		zap.Int("sessions", summary.TotalSessions),
	)
	return &ExportResult{
		ObjectName: objectName,
		URL:        url,
		ExpiresAt:  time.Now().UTC().Add(exportURLTTL),
	}, nil
}

func ratingMeans(records []*entities.FeedbackRecord) RatingMeans {
	var m RatingMeans
	for _, rec := range records {
		m.Difficulty += float64(rec.DifficultyRating)
		m.AIHelpfulness += float64(rec.AIHelpfulness)
		m.ScenarioRealism += float64(rec.ScenarioRealism)
		m.ConfidenceLevel += float64(rec.ConfidenceLevel)
	}
	n := float64(len(records))
	m.Difficulty /= n
	m.AIHelpfulness /= n
	m.ScenarioRealism /= n
	m.ConfidenceLevel /= n
	return m
}

func difficultScenarios(records []*entities.FeedbackRecord) []DifficultScenario {
	type bucket struct {
		difficulty, score, errs, completion float64
		sessions                            int
	}
	buckets := make(map[string]*bucket)
	for _, rec := range records {
		b, ok := buckets[rec.ScenarioID]
		if !ok {
			b = &bucket{}
			buckets[rec.ScenarioID] = b
		}
		b.difficulty += float64(rec.DifficultyRating)
		b.score += rec.FinalScore
		b.errs += float64(rec.ErrorsMade)
		b.completion += rec.CompletionSeconds
		b.sessions++
	}

	var out []DifficultScenario
	for id, b := range buckets {
		n := float64(b.sessions)
		sc := DifficultScenario{
			ScenarioID:            id,
			MeanDifficulty:        b.difficulty / n,
			MeanScore:             b.score / n,
			MeanErrors:            b.errs / n,
			MeanCompletionSeconds: b.completion / n,
			Sessions:              b.sessions,
		}
		if sc.MeanDifficulty >= difficultyFloor || sc.MeanScore < scoreCeiling || sc.MeanErrors > errorFloor {
			out = append(out, sc)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanDifficulty != out[j].MeanDifficulty {
			return out[i].MeanDifficulty > out[j].MeanDifficulty
		}
		return out[i].ScenarioID < out[j].ScenarioID
	})
	if len(out) > maxDifficultScenarios {
		out = out[:maxDifficultScenarios]
	}
	return out
}

func levelPerformance(records []*entities.FeedbackRecord) []LevelPerformance {
	type bucket struct {
		score, accuracy, errs float64
		sessions              int
	}
	buckets := make(map[string]*bucket)
	for _, rec := range records {
		level := string(rec.TrainingLevel)
		b, ok := buckets[level]
		if !ok {
			b = &bucket{}
			buckets[level] = b
		}
		b.score += rec.FinalScore
		b.accuracy += rec.Accuracy
		b.errs += float64(rec.ErrorsMade)
		b.sessions++
	}

	levels := make([]string, 0, len(buckets))
	for level := range buckets {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	out := make([]LevelPerformance, 0, len(levels))
	for _, level := range levels {
		b := buckets[level]
		n := float64(b.sessions)
		out = append(out, LevelPerformance{
			TrainingLevel: level,
			Sessions:      b.sessions,
			MeanScore:     b.score / n,
			MeanAccuracy:  b.accuracy / n,
			MeanErrors:    b.errs / n,
		})
	}
	return out
}

func recommendations(eff EffectivenessSummary, difficult []DifficultScenario) []Recommendation {
	var recs []Recommendation

	if eff.HasData && eff.EffectivenessRatio < helpfulnessBar {
		recs = append(recs, Recommendation{
			Priority:   "HIGH",
			Area:       "ai_system",
			Issue:      "AI recommendations not significantly improving trainee performance",
			Suggestion: "Queue retraining over recent feedback, weighted toward successful trainee actions",
		})
	}

	top := difficult
	if len(top) > 3 {
		top = top[:3]
	}
	for _, sc := range top {
		recs = append(recs, Recommendation{
			Priority:   "MEDIUM",
			Area:       "scenario_content",
			Issue:      fmt.Sprintf("High difficulty reported for %s", sc.ScenarioID),
			Suggestion: "Add guidance steps or split the scenario into smaller stages",
		})
	}
	return recs
}
