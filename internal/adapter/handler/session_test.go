package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	uerrors "github.com/dcatrain/dca-feedback/internal/usecase/errors"
	sessionUsecase "github.com/dcatrain/dca-feedback/internal/usecase/session"
	"github.com/dcatrain/dca-feedback/pkg/middleware"
	pkgvalidator "github.com/dcatrain/dca-feedback/pkg/validator"
)

type fakeSessionService struct {
	startFn    func(ctx context.Context, input sessionUsecase.StartSessionInput) (*entities.TrainingSession, error)
	logFn      func(ctx context.Context, input sessionUsecase.LogActionInput) (*sessionUsecase.ActionResult, error)
	submitFn   func(ctx context.Context, input sessionUsecase.FeedbackInput) (*sessionUsecase.SealedResult, error)
	completeFn func(ctx context.Context, input sessionUsecase.FeedbackInput) (*sessionUsecase.SealedResult, error)
}

func (f *fakeSessionService) StartSession(ctx context.Context, input sessionUsecase.StartSessionInput) (*entities.TrainingSession, error) {
	return f.startFn(ctx, input)
}

func (f *fakeSessionService) LogAction(ctx context.Context, input sessionUsecase.LogActionInput) (*sessionUsecase.ActionResult, error) {
	return f.logFn(ctx, input)
}

func (f *fakeSessionService) SubmitFeedback(ctx context.Context, input sessionUsecase.FeedbackInput) (*sessionUsecase.SealedResult, error) {
	return f.submitFn(ctx, input)
}

func (f *fakeSessionService) CompleteSession(ctx context.Context, input sessionUsecase.FeedbackInput) (*sessionUsecase.SealedResult, error) {
	return f.completeFn(ctx, input)
}

// newTestContext builds an echo context with the request validator wired the
// way main does it.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = pkgvalidator.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func sealedFixture(sessionID string) *sessionUsecase.SealedResult {
	now := time.Now().UTC()
	return &sessionUsecase.SealedResult{
		Session: &entities.TrainingSession{
			SessionID: sessionID,
			State:     entities.SessionStateSealed,
			StartTime: now.Add(-5 * time.Minute),
			EndTime:   &now,
		},
		Record: &entities.FeedbackRecord{
			ID:                uuid.NewSHA1(uuid.NameSpaceOID, []byte(sessionID)),
			SessionID:         sessionID,
			ScenarioID:        "engine_room_fuel",
			FinalScore:        12.5,
			PerformanceRating: "Good",
			CompletionSeconds: 300,
		},
		Stats: entities.SessionStats{
			Accuracy:     0.8,
			TotalActions: 5,
		},
	}
}

func TestStartSession_Success(t *testing.T) {
	svc := &fakeSessionService{
		startFn: func(ctx context.Context, input sessionUsecase.StartSessionInput) (*entities.TrainingSession, error) {
			return &entities.TrainingSession{
				SessionID:     "sess-1",
				ScenarioID:    input.ScenarioID,
				TrainingLevel: entities.TrainingLevelIntermediate,
				State:         entities.SessionStateActive,
			}, nil
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, rec := newTestContext(http.MethodPost, "/session/start", `{"scenario_id":"engine_room_fuel"}`)
	if err := h.Start(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body["success"])
	}
	if body["session_id"] != "sess-1" {
		t.Fatalf("unexpected session_id %v", body["session_id"])
	}
	if body["message"] != "Feedback session started" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestStartSession_MissingScenario(t *testing.T) {
	called := false
	svc := &fakeSessionService{
		startFn: func(ctx context.Context, input sessionUsecase.StartSessionInput) (*entities.TrainingSession, error) {
			called = true
			return nil, nil
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, rec := newTestContext(http.MethodPost, "/session/start", `{}`)
	if err := h.Start(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if called {
		t.Fatal("service must not be called for an invalid request")
	}

	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("expected success false, got %v", body["success"])
	}
}

func TestStartSession_RejectsUnknownTrainingLevel(t *testing.T) {
	svc := &fakeSessionService{
		startFn: func(ctx context.Context, input sessionUsecase.StartSessionInput) (*entities.TrainingSession, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, rec := newTestContext(http.MethodPost, "/session/start",
		`{"scenario_id":"engine_room_fuel","training_level":"grandmaster"}`)
	if err := h.Start(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStartSession_TraineeHeaderIdentity(t *testing.T) {
	var gotUserID string
	svc := &fakeSessionService{
		startFn: func(ctx context.Context, input sessionUsecase.StartSessionInput) (*entities.TrainingSession, error) {
			gotUserID = input.UserID
			return &entities.TrainingSession{SessionID: "sess-2", TrainingLevel: entities.TrainingLevelIntermediate}, nil
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, _ := newTestContext(http.MethodPost, "/session/start", `{"scenario_id":"galley_cooking"}`)
	c.Set(middleware.TraineeIDKey, "trainee-9")
	if err := h.Start(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if gotUserID != "trainee-9" {
		t.Fatalf("expected header identity to flow through, got %q", gotUserID)
	}
}

func TestLogAction_Success(t *testing.T) {
	svc := &fakeSessionService{
		logFn: func(ctx context.Context, input sessionUsecase.LogActionInput) (*sessionUsecase.ActionResult, error) {
			return &sessionUsecase.ActionResult{
				SessionID: input.SessionID,
				Step:      2,
				Disagreed: true,
				Evaluation: entities.ResponseEvaluation{
					TotalScore: 0.72,
					IsCorrect:  true,
				},
				Stats: entities.SessionStats{TotalActions: 3},
			}, nil
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, rec := newTestContext(http.MethodPost, "/session/action",
		`{"session_id":"sess-1","user_action":"dispatch_small_team","ai_recommended_action":"call_fedfire","response_time_ms":1200}`)
	if err := h.LogAction(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["message"] != "Action logged" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["step"] != float64(2) {
		t.Fatalf("unexpected step %v", body["step"])
	}
	if body["disagreed"] != true {
		t.Fatalf("expected disagreed true, got %v", body["disagreed"])
	}
}

func TestLogAction_UnknownSession(t *testing.T) {
	svc := &fakeSessionService{
		logFn: func(ctx context.Context, input sessionUsecase.LogActionInput) (*sessionUsecase.ActionResult, error) {
			return nil, fmt.Errorf("session %q: %w", input.SessionID, uerrors.ErrSessionNotFound)
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, rec := newTestContext(http.MethodPost, "/session/action",
		`{"session_id":"ghost","user_action":"evacuate_space","ai_recommended_action":"evacuate_space"}`)
	if err := h.LogAction(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %v", body)
	}
}

func TestLogAction_SealedSession(t *testing.T) {
	svc := &fakeSessionService{
		logFn: func(ctx context.Context, input sessionUsecase.LogActionInput) (*sessionUsecase.ActionResult, error) {
			return nil, fmt.Errorf("session %q: %w", input.SessionID, uerrors.ErrSessionSealed)
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, rec := newTestContext(http.MethodPost, "/session/action",
		`{"session_id":"sess-1","user_action":"monitor_situation","ai_recommended_action":"monitor_situation"}`)
	if err := h.LogAction(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCompleteSession_Success(t *testing.T) {
	svc := &fakeSessionService{
		completeFn: func(ctx context.Context, input sessionUsecase.FeedbackInput) (*sessionUsecase.SealedResult, error) {
			return sealedFixture(input.SessionID), nil
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, rec := newTestContext(http.MethodPost, "/session/complete",
		`{"session_id":"sess-1","difficulty_rating":4}`)
	if err := h.Complete(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["message"] != "Session completed" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["feedback_id"] == "" || body["feedback_id"] == nil {
		t.Fatalf("expected feedback_id in response, got %v", body)
	}
	if body["performance_rating"] != "Good" {
		t.Fatalf("unexpected performance_rating %v", body["performance_rating"])
	}
}

func TestCompleteSession_PartialRatingsReachService(t *testing.T) {
	var got sessionUsecase.FeedbackInput
	svc := &fakeSessionService{
		completeFn: func(ctx context.Context, input sessionUsecase.FeedbackInput) (*sessionUsecase.SealedResult, error) {
			got = input
			return sealedFixture(input.SessionID), nil
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, _ := newTestContext(http.MethodPost, "/session/complete",
		`{"session_id":"sess-1","difficulty_rating":5,"what_worked_well":"clear guidance"}`)
	if err := h.Complete(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if got.Ratings.Difficulty == nil || *got.Ratings.Difficulty != 5 {
		t.Fatalf("expected difficulty pointer 5, got %v", got.Ratings.Difficulty)
	}
	if got.Ratings.AIHelpfulness != nil {
		t.Fatal("absent ratings must stay nil so the service can default them")
	}
	if got.WhatWorkedWell != "clear guidance" {
		t.Fatalf("unexpected free text %q", got.WhatWorkedWell)
	}
}

func TestCompleteSession_InvalidJSON(t *testing.T) {
	svc := &fakeSessionService{
		completeFn: func(ctx context.Context, input sessionUsecase.FeedbackInput) (*sessionUsecase.SealedResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewSessionHandler(svc, nil, nil)

	c, rec := newTestContext(http.MethodPost, "/session/complete", `{not json`)
	if err := h.Complete(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["error"] != "invalid request body" {
		t.Fatalf("unexpected error message %v", body["error"])
	}
}
