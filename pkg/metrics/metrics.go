// Package metrics provides Prometheus metrics for the feedback service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus metrics for the service. Each Manager carries
// its own registry so tests and embedded instances never collide; there is
// no process-wide singleton.
type Manager struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry

	// Session lifecycle
	sessionsStarted  prometheus.Counter
	sessionsSealed   prometheus.Counter
	actionsLogged    prometheus.Counter
	comparisonEvents prometheus.Counter
	unsyncedSessions prometheus.Counter

	// Request quality
	validationFailures prometheus.Counter

	// Persistence boundary
	forwardRetries  prometheus.Counter
	forwardFailures prometheus.Counter
	archiveWrites   prometheus.Counter

	// Retraining pipeline
	retrainingSignals     *prometheus.CounterVec
	trainerNotifyFailures prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager with its own registry.
func NewManager(namespace string) *Manager {
	if namespace == "" {
		namespace = "dca_feedback"
	}
	m := &Manager{
		namespace: namespace,
		subsystem: "training",
		registry:  prometheus.NewRegistry(),
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sessionsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_started_total",
		Help:      "Total number of training sessions started",
	})

	m.sessionsSealed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_sealed_total",
		Help:      "Total number of training sessions sealed with feedback",
	})

	m.actionsLogged = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "actions_logged_total",
		Help:      "Total number of trainee actions evaluated and logged",
	})

	m.comparisonEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "comparison_events_total",
		Help:      "Total number of steps where the trainee disagreed with the assistant",
	})

	m.unsyncedSessions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unsynced_sessions_total",
		Help:      "Total number of sessions that ran in degraded mode while the session store was unreachable",
	})

	m.validationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Total number of requests rejected for missing or out-of-range fields",
	})

	m.forwardRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "forward_retries_total",
		Help:      "Total number of retried writes at the persistence boundary",
	})

	m.forwardFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "forward_failures_total",
		Help:      "Total number of sealed records that exhausted persistence retries",
	})

	m.archiveWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_writes_total",
		Help:      "Total number of sealed session documents archived to object storage",
	})

	m.retrainingSignals = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "retraining_signals_total",
			Help:      "Total number of retraining signals queued, by reason",
		},
		[]string{"reason"},
	)

	m.trainerNotifyFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trainer_notify_failures_total",
		Help:      "Total number of failed notifications to the training pipeline",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)
}

// Handler exposes the manager's registry for the /metrics endpoint.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncSessionStarted records a started session.
func (m *Manager) IncSessionStarted() { m.sessionsStarted.Inc() }

// IncSessionSealed records a sealed session.
func (m *Manager) IncSessionSealed() { m.sessionsSealed.Inc() }

// IncActionLogged records an evaluated action.
func (m *Manager) IncActionLogged() { m.actionsLogged.Inc() }

// IncComparisonEvent records a trainee/assistant disagreement.
func (m *Manager) IncComparisonEvent() { m.comparisonEvents.Inc() }

// IncUnsyncedSession records a session running in degraded mode.
func (m *Manager) IncUnsyncedSession() { m.unsyncedSessions.Inc() }

// IncValidationFailure records a rejected request.
func (m *Manager) IncValidationFailure() { m.validationFailures.Inc() }

// IncForwardRetry records one retried persistence write.
func (m *Manager) IncForwardRetry() { m.forwardRetries.Inc() }

// IncForwardFailure records a record that exhausted its retries.
func (m *Manager) IncForwardFailure() { m.forwardFailures.Inc() }

// IncArchiveWrite records an archived session document.
func (m *Manager) IncArchiveWrite() { m.archiveWrites.Inc() }

// IncRetrainingSignal records a queued signal for the reason.
func (m *Manager) IncRetrainingSignal(reason string) {
	m.retrainingSignals.WithLabelValues(reason).Inc()
}

// IncTrainerNotifyFailure records a failed pipeline notification.
func (m *Manager) IncTrainerNotifyFailure() { m.trainerNotifyFailures.Inc() }

// ObserveHTTPRequest records one served request.
func (m *Manager) ObserveHTTPRequest(endpoint, method, statusCode string, duration time.Duration) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method).Observe(float64(duration.Milliseconds()))
}
