package session

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/internal/domain/repositories"
	"github.com/dcatrain/dca-feedback/pkg/jobcontext"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// Forwarder ships sealed feedback records to the persistence collaborator in
// the background. Sealing never waits on the database or the archive; a
// forward that exhausts its retries is logged and surfaced through metrics,
// and the sealed session stays in the session store for later recovery.
type Forwarder struct {
	records repositories.FeedbackRepository
	archive repositories.SessionArchive
	metrics *metrics.Manager
	logger  *zap.Logger

	forwardSemaphore chan struct{} // limit concurrent forwards
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	mu               sync.Mutex
	stopped          bool
}

// NewForwarder creates a forwarder. The archive may be nil when object
// storage is not configured; records are then only written to the database.
func NewForwarder(
	records repositories.FeedbackRepository,
	archive repositories.SessionArchive,
	m *metrics.Manager,
	logger *zap.Logger,
) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Forwarder{
		records:          records,
		archive:          archive,
		metrics:          m,
		logger:           logger,
		forwardSemaphore: make(chan struct{}, 2), // max 2 concurrent forwards
		ctx:              ctx,
		cancel:           cancel,
	}
}

// Submit hands a sealed record to the forwarder and returns immediately.
// Records submitted after Stop are dropped with a warning.
func (f *Forwarder) Submit(record *entities.FeedbackRecord, sess *entities.TrainingSession) {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		f.logger.Warn("forwarder stopped, dropping feedback record",
			zap.String("session_id", record.SessionID),
		)
		if f.metrics != nil {
			f.metrics.IncForwardFailure()
		}
		return
	}
	f.wg.Add(1)
	f.mu.Unlock()

	go f.forward(record, sess)
}

// Stop drains in-flight forwards. When ctx expires before they finish the
// remaining retries are aborted.
func (f *Forwarder) Stop(ctx context.Context) error {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return nil
	}
	f.stopped = true
	f.mu.Unlock()

	f.logger.Info("🛑 stopping feedback forwarder...")

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		f.cancel()
		<-done
	}
	f.cancel()

	f.logger.Info("✅ feedback forwarder stopped")
	return nil
}

func (f *Forwarder) forward(record *entities.FeedbackRecord, sess *entities.TrainingSession) {
	defer f.wg.Done()

	select {
	case f.forwardSemaphore <- struct{}{}:
	case <-f.ctx.Done():
		f.logger.Warn("forwarder shutting down, dropping feedback record",
			zap.String("session_id", record.SessionID),
		)
		if f.metrics != nil {
			f.metrics.IncForwardFailure()
		}
		return
	}
	defer func() { <-f.forwardSemaphore }()

	jobCtx, jobCancel := jobcontext.JobBegin(f.ctx, record.SessionID, "forward_feedback")
	defer jobCancel()

	attempts := 0
	persistFn := func() error {
		attempts++
		ctx, cancel := context.WithTimeout(jobCtx, 10*time.Second)
		defer cancel()
		if err := f.records.Upsert(ctx, record); err != nil {
			if jobcontext.IsNonRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	notify := func(err error, next time.Duration) {
		if f.metrics != nil {
			f.metrics.IncForwardRetry()
		}
		f.logger.Warn("🔄 retrying feedback record forward",
			zap.String("session_id", record.SessionID),
			zap.Duration("next_attempt_in", next),
			zap.Error(err),
		)
	}

	meta := jobcontext.GetJobMetadata(jobCtx)
	if err := backoff.RetryNotify(persistFn, backoff.WithContext(bo, jobCtx), notify); err != nil {
		if f.metrics != nil {
			f.metrics.IncForwardFailure()
		}
		f.logger.Error("❌ failed to forward feedback record after retries",
			zap.String("session_id", record.SessionID),
			zap.String("scenario_id", record.ScenarioID),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return
	}

	f.logger.Info("📦 feedback record forwarded",
		zap.String("session_id", record.SessionID),
		zap.String("scenario_id", record.ScenarioID),
		zap.Int("attempts", attempts),
		zap.Duration("elapsed", time.Since(meta.StartTime)),
		zap.Bool("unsynced", record.Unsynced),
	)

	if f.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(jobCtx, 30*time.Second)
	defer cancel()
	if err := f.archive.PutSession(ctx, sess, record); err != nil {
		f.logger.Warn("failed to archive session log",
			zap.String("session_id", record.SessionID),
			zap.Error(err),
		)
		return
	}
	if f.metrics != nil {
		f.metrics.IncArchiveWrite()
	}
}
