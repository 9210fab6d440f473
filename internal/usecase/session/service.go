package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/internal/domain/repositories"
	uerrors "github.com/dcatrain/dca-feedback/internal/usecase/errors"
	"github.com/dcatrain/dca-feedback/internal/usecase/scoring"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// neutralRating is substituted for ratings the trainee skipped on the
// complete-session path.
const neutralRating = 3

// RecordSink receives sealed feedback records for asynchronous forwarding to
// the persistence collaborator. Submitting never blocks session sealing.
type RecordSink interface {
	Submit(record *entities.FeedbackRecord, session *entities.TrainingSession)
}

// Service orchestrates the training session lifecycle: start, per-action
// logging, rating collection and sealing. One caller drives one session;
// concurrent sessions are isolated behind their own store keys.
type Service interface {
	// StartSession opens a new episode. Store outages degrade to a local
	// fallback instead of failing
	StartSession(ctx context.Context, input StartSessionInput) (*entities.TrainingSession, error)

	// LogAction evaluates and appends one trainee response. Valid only while
	// the session is active
	LogAction(ctx context.Context, input LogActionInput) (*ActionResult, error)

	// SubmitFeedback seals the session. All four numeric ratings are
	// required and must be within 1-5
	SubmitFeedback(ctx context.Context, input FeedbackInput) (*SealedResult, error)

	// CompleteSession seals the session with whatever ratings are available,
	// substituting the neutral default for missing ones. Idempotent
	CompleteSession(ctx context.Context, input FeedbackInput) (*SealedResult, error)
}

// StartSessionInput carries the parameters for a new episode.
type StartSessionInput struct {
	SessionID     string // optional, generated when empty
	ScenarioID    string
	UserID        string
	TrainingLevel string
}

// LogActionInput carries one trainee response.
type LogActionInput struct {
	SessionID           string
	ScenarioCategory    string
	UserAction          string
	AIRecommendedAction string
	ResponseTimeMS      int
	IsCorrect           bool
	Reward              float64
}

// ActionResult is returned after logging one action.
type ActionResult struct {
	SessionID  string
	Step       int
	Evaluation entities.ResponseEvaluation
	Stats      entities.SessionStats
	Disagreed  bool
}

// RatingsInput distinguishes absent ratings from provided ones.
type RatingsInput struct {
	Difficulty      *int
	AIHelpfulness   *int
	ScenarioRealism *int
	ConfidenceLevel *int
}

// FeedbackInput carries the rating submission for sealing a session.
type FeedbackInput struct {
	SessionID     string
	ScenarioID    string // optional override, kept for UI payload compatibility
	TrainingLevel string // optional override
	Ratings       RatingsInput

	WhatWorkedWell        string
	WhatWasConfusing      string
	SuggestedImprovements string
	AdditionalComments    string
}

// SealedResult is the finalized session plus its derived statistics.
type SealedResult struct {
	Session *entities.TrainingSession
	Record  *entities.FeedbackRecord
	Stats   entities.SessionStats
}

type feedbackService struct {
	store       repositories.SessionStore
	fallback    repositories.SessionStore
	comparisons repositories.ComparisonRepository
	calculator  *scoring.Calculator
	tracker     *Tracker
	sink        RecordSink
	metrics     *metrics.Manager
	logger      *zap.Logger
}

// NewService creates the feedback aggregator service. The fallback store
// keeps sessions usable when the primary store is unreachable.
func NewService(
	store repositories.SessionStore,
	fallback repositories.SessionStore,
	comparisons repositories.ComparisonRepository,
	calculator *scoring.Calculator,
	tracker *Tracker,
	sink RecordSink,
	m *metrics.Manager,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &feedbackService{
		store:       store,
		fallback:    fallback,
		comparisons: comparisons,
		calculator:  calculator,
		tracker:     tracker,
		sink:        sink,
		metrics:     m,
		logger:      logger,
	}
}

func (s *feedbackService) StartSession(ctx context.Context, input StartSessionInput) (*entities.TrainingSession, error) {
	if input.ScenarioID == "" {
		return nil, fmt.Errorf("scenario_id: %w", uerrors.ErrInvalidInput)
	}

	sess := entities.NewTrainingSession(
		input.SessionID,
		input.ScenarioID,
		input.UserID,
		entities.TrainingLevel(input.TrainingLevel),
	)

	if err := s.store.Save(ctx, sess); err != nil {
		// Degraded mode: the episode continues locally and the sealed record
		// is flagged unsynced for the persistence boundary.
		s.logger.Warn("⚠️ session store unreachable, continuing in degraded mode",
			zap.String("session_id", sess.SessionID),
			zap.Error(err),
		)
		sess.Unsynced = true
		if s.metrics != nil {
			s.metrics.IncUnsyncedSession()
		}
		if err := s.fallback.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("fallback session store: %w", uerrors.ErrStorageUnavailable)
		}
	}

	if s.metrics != nil {
		s.metrics.IncSessionStarted()
	}
	s.logger.Info("🎯 training session started",
		zap.String("session_id", sess.SessionID),
		zap.String("scenario_id", sess.ScenarioID),
		zap.String("training_level", string(sess.TrainingLevel)),
		zap.Bool("unsynced", sess.Unsynced),
	)
	return sess, nil
}

func (s *feedbackService) LogAction(ctx context.Context, input LogActionInput) (*ActionResult, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive() {
		return nil, fmt.Errorf("session %s: %w", sess.SessionID, uerrors.ErrSessionSealed)
	}

	eval := s.calculator.Evaluate(input.ScenarioCategory, input.ResponseTimeMS, input.IsCorrect)
	rec := entities.ActionRecord{
		UserAction:          input.UserAction,
		AIRecommendedAction: input.AIRecommendedAction,
		ResponseTimeMS:      eval.ResponseTimeMS,
		Reward:              input.Reward,
		Evaluation:          eval,
	}
	sess.AppendAction(rec)

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	appended := sess.Actions[len(sess.Actions)-1]
	disagreed := !appended.FollowedAI
	if disagreed {
		// Out-of-band comparison event for the UI micro-feedback prompt.
		// Never blocks the action log.
		event := entities.NewComparisonEvent(
			sess.SessionID, sess.ScenarioID, appended.Step,
			appended.UserAction, appended.AIRecommendedAction, appended.ResponseTimeMS,
		)
		if err := s.comparisons.Create(ctx, event); err != nil {
			s.logger.Warn("failed to record comparison event",
				zap.String("session_id", sess.SessionID),
				zap.Int("step", appended.Step),
				zap.Error(err),
			)
		} else if s.metrics != nil {
			s.metrics.IncComparisonEvent()
		}
	}

	if s.metrics != nil {
		s.metrics.IncActionLogged()
	}

	return &ActionResult{
		SessionID:  sess.SessionID,
		Step:       appended.Step,
		Evaluation: eval,
		Stats:      s.tracker.Stats(sess),
		Disagreed:  disagreed,
	}, nil
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, input FeedbackInput) (*SealedResult, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive() {
		return nil, fmt.Errorf("session %s: %w", sess.SessionID, uerrors.ErrSessionSealed)
	}

	ratings, err := strictRatings(input.Ratings)
	if err != nil {
		return nil, err
	}
	applyFreeText(&ratings, input)

	return s.seal(ctx, sess, ratings, input)
}

func (s *feedbackService) CompleteSession(ctx context.Context, input FeedbackInput) (*SealedResult, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	// Repeat completion returns the already-sealed result unchanged.
	if !sess.IsActive() {
		stats := s.tracker.Stats(sess)
		record, err := s.buildRecord(sess, stats)
		if err != nil {
			return nil, err
		}
		return &SealedResult{Session: sess, Record: record, Stats: stats}, nil
	}

	ratings := defaultedRatings(input.Ratings)
	applyFreeText(&ratings, input)

	return s.seal(ctx, sess, ratings, input)
}

// seal runs the shared ACTIVE to SEALED transition. Once ratings are valid
// the transition always succeeds; storage trouble only flags the session
// unsynced.
func (s *feedbackService) seal(ctx context.Context, sess *entities.TrainingSession, ratings entities.SessionRatings, input FeedbackInput) (*SealedResult, error) {
	if input.ScenarioID != "" {
		sess.ScenarioID = input.ScenarioID
	}
	if level := entities.TrainingLevel(input.TrainingLevel); level.IsValid() {
		sess.TrainingLevel = level
	}

	sess.Seal(ratings)

	stats := s.tracker.Stats(sess)
	record, err := s.buildRecord(sess, stats)
	if err != nil {
		return nil, err
	}

	if err := s.saveSession(ctx, sess); err != nil {
		s.logger.Warn("⚠️ failed to persist sealed session state, flagging unsynced",
			zap.String("session_id", sess.SessionID),
			zap.Error(err),
		)
		sess.Unsynced = true
		record.Unsynced = true
		if s.metrics != nil {
			s.metrics.IncUnsyncedSession()
		}
	}

	if s.sink != nil {
		s.sink.Submit(record, sess)
	}

	if s.metrics != nil {
		s.metrics.IncSessionSealed()
	}
	s.logger.Info("✅ training session sealed",
		zap.String("session_id", sess.SessionID),
		zap.String("scenario_id", sess.ScenarioID),
		zap.Int("total_actions", stats.TotalActions),
		zap.Float64("final_score", stats.FinalScore),
		zap.Float64("accuracy", stats.Accuracy),
	)

	return &SealedResult{Session: sess, Record: record, Stats: stats}, nil
}

// buildRecord flattens the sealed session into the persistence schema.
func (s *feedbackService) buildRecord(sess *entities.TrainingSession, stats entities.SessionStats) (*entities.FeedbackRecord, error) {
	ratings := sess.Ratings
	if ratings == nil {
		return nil, fmt.Errorf("session %s has no ratings: %w", sess.SessionID, uerrors.ErrSessionNotActive)
	}

	actionsJSON, err := json.Marshal(sess.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action log: %w", err)
	}

	timestamp := sess.StartTime
	if sess.EndTime != nil {
		timestamp = *sess.EndTime
	}

	return &entities.FeedbackRecord{
		// Derived from the session id so idempotent completes and forward
		// retries rebuild the same record id.
		ID:                    uuid.NewSHA1(uuid.NameSpaceOID, []byte(sess.SessionID)),
		Timestamp:             timestamp,
		SessionID:             sess.SessionID,
		ScenarioID:            sess.ScenarioID,
		UserID:                sess.UserID,
		TrainingLevel:         sess.TrainingLevel,
		DifficultyRating:      ratings.Difficulty,
		AIHelpfulness:         ratings.AIHelpfulness,
		ScenarioRealism:       ratings.ScenarioRealism,
		ConfidenceLevel:       ratings.ConfidenceLevel,
		WhatWorkedWell:        ratings.WhatWorkedWell,
		WhatWasConfusing:      ratings.WhatWasConfusing,
		SuggestedImprovements: ratings.SuggestedImprovements,
		AdditionalComments:    ratings.AdditionalComments,
		Accuracy:              stats.Accuracy,
		MeanResponseTimeMS:    stats.MeanResponseTimeMS,
		SuccessRate:           stats.SuccessRate,
		FinalScore:            stats.FinalScore,
		CompletionSeconds:     sess.CompletionSeconds(),
		TotalActions:          stats.TotalActions,
		FollowedAICount:       stats.FollowedAICount,
		ErrorsMade:            stats.ErrorsMade,
		CriticalErrors:        stats.CriticalErrors,
		PerformanceRating:     entities.PerformanceRating(stats.TotalReward),
		Actions:               datatypes.JSON(actionsJSON),
		Unsynced:              sess.Unsynced,
	}, nil
}

// loadSession resolves a session from the primary store, falling back to the
// degraded-mode store. Unknown ids map to ErrSessionNotFound; a primary
// outage without a fallback copy maps to ErrStorageUnavailable so the caller
// can retry later.
func (s *feedbackService) loadSession(ctx context.Context, sessionID string) (*entities.TrainingSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id: %w", uerrors.ErrInvalidInput)
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, entities.ErrSessionNotFound) {
		fbSess, fbErr := s.fallback.Get(ctx, sessionID)
		if fbErr == nil {
			return fbSess, nil
		}
		return nil, fmt.Errorf("session %s: %w", sessionID, uerrors.ErrSessionNotFound)
	}

	// Primary store I/O failure. A fallback hit keeps the episode alive.
	if fbSess, fbErr := s.fallback.Get(ctx, sessionID); fbErr == nil {
		return fbSess, nil
	}
	s.logger.Error("❌ session store unreachable",
		zap.String("session_id", sessionID),
		zap.Error(err),
	)
	return nil, fmt.Errorf("load session %s: %w", sessionID, uerrors.ErrStorageUnavailable)
}

// saveSession writes the session back to the store it lives in. Degraded
// sessions stay pinned to the fallback store to avoid split state.
func (s *feedbackService) saveSession(ctx context.Context, sess *entities.TrainingSession) error {
	if sess.Unsynced {
		if err := s.fallback.Save(ctx, sess); err != nil {
			return fmt.Errorf("fallback session store: %w", uerrors.ErrStorageUnavailable)
		}
		return nil
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session %s: %w", sess.SessionID, uerrors.ErrStorageUnavailable)
	}
	return nil
}

// strictRatings enforces the submit-path contract: all four numeric ratings
// present and within 1-5.
func strictRatings(in RatingsInput) (entities.SessionRatings, error) {
	fields := []struct {
		name  string
		value *int
	}{
		{"difficulty_rating", in.Difficulty},
		{"ai_helpfulness", in.AIHelpfulness},
		{"scenario_realism", in.ScenarioRealism},
		{"confidence_level", in.ConfidenceLevel},
	}

	for _, f := range fields {
		if f.value == nil {
			return entities.SessionRatings{}, fmt.Errorf("%s: %w", f.name, uerrors.ErrMissingRating)
		}
		if *f.value < 1 || *f.value > 5 {
			return entities.SessionRatings{}, fmt.Errorf("%s=%d: %w", f.name, *f.value, uerrors.ErrRatingOutOfRange)
		}
	}

	return entities.SessionRatings{
		Difficulty:      *in.Difficulty,
		AIHelpfulness:   *in.AIHelpfulness,
		ScenarioRealism: *in.ScenarioRealism,
		ConfidenceLevel: *in.ConfidenceLevel,
	}, nil
}

// defaultedRatings implements the skip-feedback path: missing ratings become
// the neutral default, provided ones are clamped into range so abandonment
// never loses session data.
func defaultedRatings(in RatingsInput) entities.SessionRatings {
	pick := func(v *int) int {
		if v == nil {
			return neutralRating
		}
		if *v < 1 {
			return 1
		}
		if *v > 5 {
			return 5
		}
		return *v
	}
	return entities.SessionRatings{
		Difficulty:      pick(in.Difficulty),
		AIHelpfulness:   pick(in.AIHelpfulness),
		ScenarioRealism: pick(in.ScenarioRealism),
		ConfidenceLevel: pick(in.ConfidenceLevel),
	}
}

func applyFreeText(r *entities.SessionRatings, input FeedbackInput) {
	r.WhatWorkedWell = input.WhatWorkedWell
	r.WhatWasConfusing = input.WhatWasConfusing
	r.SuggestedImprovements = input.SuggestedImprovements
	r.AdditionalComments = input.AdditionalComments
}
