package retraining

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/internal/domain/repositories"
	uerrors "github.com/dcatrain/dca-feedback/internal/usecase/errors"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// PipelineNotifier tells the external training pipeline about a queued
// signal. Implemented by pkg/trainer; nil when the pipeline is not configured.
type PipelineNotifier interface {
	NotifyRetraining(ctx context.Context, signal *entities.RetrainingSignal) error
}

// Service runs the retraining policy over stored feedback and manages the
// signal queue.
type Service interface {
	// EvaluateNow applies the threshold rules to the trailing feedback
	// window and queues a signal per firing reason
	EvaluateNow(ctx context.Context) (*EvaluationResult, error)

	// ListQueue returns open signals, oldest first
	ListQueue(ctx context.Context) ([]*entities.RetrainingSignal, error)

	// HandleCompletion applies a pipeline status callback to a queued signal
	HandleCompletion(ctx context.Context, signalID uuid.UUID, status string) (*entities.RetrainingSignal, error)
}

// EvaluationResult reports one policy run.
type EvaluationResult struct {
	Decision    Decision
	Queued      []*entities.RetrainingSignal
	RecordCount int
	WindowDays  int
	EvaluatedAt time.Time
}

type retrainingService struct {
	feedbackRepo repositories.FeedbackRepository
	queueRepo    repositories.RetrainingRepository
	trigger      *Trigger
	notifier     PipelineNotifier

	minRecentFeedback int
	windowDays        int

	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewService creates the retraining service. notifier may be nil.
func NewService(
	feedbackRepo repositories.FeedbackRepository,
	queueRepo repositories.RetrainingRepository,
	trigger *Trigger,
	notifier PipelineNotifier,
	minRecentFeedback int,
	windowDays int,
	m *metrics.Manager,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minRecentFeedback <= 0 {
		minRecentFeedback = 10
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	return &retrainingService{
		feedbackRepo:      feedbackRepo,
		queueRepo:         queueRepo,
		trigger:           trigger,
		notifier:          notifier,
		minRecentFeedback: minRecentFeedback,
		windowDays:        windowDays,
		metrics:           m,
		logger:            logger,
	}
}

func (s *retrainingService) EvaluateNow(ctx context.Context) (*EvaluationResult, error) {
	since := time.Now().UTC().AddDate(0, 0, -s.windowDays)
	records, err := s.feedbackRepo.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list recent feedback: %w", uerrors.ErrStorageUnavailable)
	}
	if len(records) < s.minRecentFeedback {
		return nil, fmt.Errorf("%d of %d required records: %w",
			len(records), s.minRecentFeedback, uerrors.ErrInsufficientData)
	}

	agg := BuildAggregate(records)
	decision := s.trigger.Decide(agg)

	result := &EvaluationResult{
		Decision:    decision,
		RecordCount: len(records),
		WindowDays:  s.windowDays,
		EvaluatedAt: time.Now().UTC(),
	}

	if !decision.Retrain {
		s.logger.Info("retraining policy evaluated, nothing fired",
			zap.Int("records", len(records)),
		)
		return result, nil
	}

	detailsJSON, err := json.Marshal(decision.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal decision details: %w", err)
	}

	for _, reason := range decision.Reasons {
		open, err := s.queueRepo.HasPendingForReason(ctx, reason)
		if err != nil {
			return nil, fmt.Errorf("check queue for %s: %w", reason, uerrors.ErrStorageUnavailable)
		}
		if open {
			s.logger.Info("retraining signal already queued, skipping",
				zap.String("reason", string(reason)),
			)
			continue
		}

		signal := entities.NewRetrainingSignal(reason, decision.Priority, datatypes.JSON(detailsJSON))
		if err := s.queueRepo.Enqueue(ctx, signal); err != nil {
			return nil, fmt.Errorf("enqueue %s: %w", reason, uerrors.ErrStorageUnavailable)
		}
		if s.metrics != nil {
			s.metrics.IncRetrainingSignal(string(reason))
		}
		result.Queued = append(result.Queued, signal)

		s.logger.Info("🔔 retraining signal queued",
			zap.String("signal_id", signal.ID.String()),
			zap.String("reason", string(reason)),
			zap.String("priority", string(decision.Priority)),
		)
	}

	// Pipeline notification is fire-and-forget; the queue row is the source
	// of truth either way.
	if s.notifier != nil {
		for _, signal := range result.Queued {
			go s.notify(signal)
		}
	}

	return result, nil
}

func (s *retrainingService) notify(signal *entities.RetrainingSignal) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.notifier.NotifyRetraining(ctx, signal); err != nil {
		if s.metrics != nil {
			s.metrics.IncTrainerNotifyFailure()
		}
		s.logger.Warn("❌ training pipeline notification failed",
			zap.String("signal_id", signal.ID.String()),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("📨 training pipeline notified",
		zap.String("signal_id", signal.ID.String()),
	)
}

func (s *retrainingService) ListQueue(ctx context.Context) ([]*entities.RetrainingSignal, error) {
	signals, err := s.queueRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list retraining queue: %w", uerrors.ErrStorageUnavailable)
	}
	return signals, nil
}

func (s *retrainingService) HandleCompletion(ctx context.Context, signalID uuid.UUID, status string) (*entities.RetrainingSignal, error) {
	signal, err := s.queueRepo.GetByID(ctx, signalID)
	if err != nil {
		return nil, fmt.Errorf("signal %s: %w", signalID, uerrors.ErrSignalNotFound)
	}

	switch status {
	case string(entities.SignalStatusProcessing):
		signal.MarkProcessing()
	case string(entities.SignalStatusCompleted):
		signal.MarkCompleted()
	default:
		return nil, fmt.Errorf("status %q: %w", status, uerrors.ErrInvalidInput)
	}

	if err := s.queueRepo.Update(ctx, signal); err != nil {
		return nil, fmt.Errorf("update signal %s: %w", signalID, uerrors.ErrStorageUnavailable)
	}

	s.logger.Info("retraining signal updated",
		zap.String("signal_id", signal.ID.String()),
		zap.String("status", string(signal.Status)),
	)
	return signal, nil
}
