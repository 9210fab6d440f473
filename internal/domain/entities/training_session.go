package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionState represents the lifecycle state of a training session
type SessionState string

const (
	SessionStateActive SessionState = "active" // Accepting actions and ratings
	SessionStateSealed SessionState = "sealed" // Terminal, immutable
)

// TrainingLevel represents the trainee's self-reported experience level
type TrainingLevel string

const (
	TrainingLevelNovice       TrainingLevel = "novice"
	TrainingLevelIntermediate TrainingLevel = "intermediate"
	TrainingLevelAdvanced     TrainingLevel = "advanced"
	TrainingLevelExpert       TrainingLevel = "expert"
)

// IsValid checks the level against the known set.
func (l TrainingLevel) IsValid() bool {
	switch l {
	case TrainingLevelNovice, TrainingLevelIntermediate, TrainingLevelAdvanced, TrainingLevelExpert:
		return true
	}
	return false
}

// ActionRecord is one appended step of a training session: what the trainee
// did, what the assistant recommended, and how the response was scored.
type ActionRecord struct {
	Step                int                `json:"step"`
	UserAction          string             `json:"user_action"`
	AIRecommendedAction string             `json:"ai_recommended_action"`
	FollowedAI          bool               `json:"followed_ai"`
	ResponseTimeMS      int                `json:"response_time_ms"`
	Reward              float64            `json:"reward"`
	Evaluation          ResponseEvaluation `json:"evaluation"`
	RecordedAt          time.Time          `json:"recorded_at"`
}

// TrainingSession is one training episode from start to feedback submission.
// The record set is append-only while active; sealing is terminal.
type TrainingSession struct {
	SessionID     string        `json:"session_id"`
	ScenarioID    string        `json:"scenario_id"`
	UserID        string        `json:"user_id,omitempty"`
	TrainingLevel TrainingLevel `json:"training_level"`
	State         SessionState  `json:"state"`

	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Unsynced marks a session started while the session store was
	// unreachable. The session stays usable locally (degraded mode).
	Unsynced bool `json:"unsynced,omitempty"`

	Actions        []ActionRecord `json:"actions"`
	ErrorsMade     int            `json:"errors_made"`
	CriticalErrors int            `json:"critical_errors"`

	// Ratings are absent until the session is sealed.
	Ratings *SessionRatings `json:"ratings,omitempty"`
}

// SessionRatings are the subjective 1-5 ratings plus free-text answers
// collected when a session completes.
type SessionRatings struct {
	Difficulty      int `json:"difficulty_rating"`
	AIHelpfulness   int `json:"ai_helpfulness"`
	ScenarioRealism int `json:"scenario_realism"`
	ConfidenceLevel int `json:"confidence_level"`

	WhatWorkedWell        string `json:"what_worked_well,omitempty"`
	WhatWasConfusing      string `json:"what_was_confusing,omitempty"`
	SuggestedImprovements string `json:"suggested_improvements,omitempty"`
	AdditionalComments    string `json:"additional_comments,omitempty"`
}

// NewTrainingSession creates an active session. An empty sessionID gets a
// generated UUID.
func NewTrainingSession(sessionID, scenarioID, userID string, level TrainingLevel) *TrainingSession {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	if !level.IsValid() {
		level = TrainingLevelIntermediate
	}
	return &TrainingSession{
		SessionID:     sessionID,
		ScenarioID:    scenarioID,
		UserID:        userID,
		TrainingLevel: level,
		State:         SessionStateActive,
		StartTime:     time.Now().UTC(),
		Actions:       []ActionRecord{},
	}
}

// IsActive reports whether the session still accepts actions and ratings.
func (s *TrainingSession) IsActive() bool {
	return s.State == SessionStateActive
}

// AppendAction adds one step to the session. Callers must check IsActive
// first; appending to a sealed session is a caller bug.
func (s *TrainingSession) AppendAction(rec ActionRecord) {
	rec.Step = len(s.Actions)
	rec.FollowedAI = rec.UserAction == rec.AIRecommendedAction
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	s.Actions = append(s.Actions, rec)
	if !rec.Evaluation.IsCorrect {
		s.ErrorsMade++
		if rec.Evaluation.SafetyScore < 0.5 {
			s.CriticalErrors++
		}
	}
}

// Seal transitions the session to its terminal state and stamps the end time.
// Sealing an already sealed session is a no-op.
func (s *TrainingSession) Seal(ratings SessionRatings) {
	if s.State == SessionStateSealed {
		return
	}
	s.State = SessionStateSealed
	now := time.Now().UTC()
	s.EndTime = &now
	s.Ratings = &ratings
}

// CompletionSeconds returns the episode duration, zero while active.
func (s *TrainingSession) CompletionSeconds() float64 {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime).Seconds()
}

// TotalReward sums the reward across all recorded actions.
func (s *TrainingSession) TotalReward() float64 {
	total := 0.0
	for _, a := range s.Actions {
		total += a.Reward
	}
	return total
}

// PerformanceRating buckets a cumulative reward into the coarse rating shown
// to trainees at episode end.
func PerformanceRating(totalReward float64) string {
	switch {
	case totalReward >= 20:
		return "Excellent"
	case totalReward >= 10:
		return "Good"
	case totalReward >= 0:
		return "Satisfactory"
	default:
		return "Needs Improvement"
	}
}
