package trainer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/pkg/config"
)

func TestNotifyRetraining_Success(t *testing.T) {
	// Mock training pipeline webhook
	var gotAuth, gotSignature string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		gotSignature = r.Header.Get("X-Signature")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		gotBody = body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	client := NewClient(&config.TrainerConfig{
		WebhookURL:    ts.URL,
		APIKey:        "test-key",
		WebhookSecret: "shh",
		Timeout:       5 * time.Second,
	})

	signal := entities.NewRetrainingSignal(
		entities.ReasonEffectivenessDecline,
		entities.PriorityScheduled,
		nil,
	)
	if err := client.NotifyRetraining(context.Background(), signal); err != nil {
		t.Fatalf("NotifyRetraining: %v", err)
	}

	if gotAuth != "test-key" {
		t.Errorf("expected Authorization test-key, got %q", gotAuth)
	}
	if !VerifyHMAC("shh", gotBody, gotSignature) {
		t.Errorf("payload signature did not verify")
	}

	var payload NotifyRequest
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload.SignalID != signal.ID.String() {
		t.Errorf("expected signal id %s, got %s", signal.ID, payload.SignalID)
	}
	if payload.Reason != "effectiveness_decline" {
		t.Errorf("expected reason effectiveness_decline, got %s", payload.Reason)
	}
	if payload.QueuedAt.IsZero() {
		t.Errorf("queued_at not stamped")
	}
}

func TestNotifyRetraining_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(&config.TrainerConfig{WebhookURL: ts.URL, APIKey: "test-key"})

	signal := &entities.RetrainingSignal{ID: uuid.New(), Reason: entities.ReasonHighDifficulty}
	if err := client.NotifyRetraining(context.Background(), signal); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

func TestNotifyRetraining_Unconfigured(t *testing.T) {
	t.Setenv("TRAINER_WEBHOOK_URL", "")
	client := NewClient(&config.TrainerConfig{})
	signal := &entities.RetrainingSignal{ID: uuid.New()}
	if err := client.NotifyRetraining(context.Background(), signal); err == nil {
		t.Fatalf("expected error when webhook URL is empty")
	}
}

func TestSignAndVerifyHMAC(t *testing.T) {
	payload := []byte(`{"signal_id":"abc"}`)
	sig := SignHMAC("secret", payload)

	if !VerifyHMAC("secret", payload, sig) {
		t.Errorf("valid signature rejected")
	}
	if VerifyHMAC("secret", []byte(`{"signal_id":"tampered"}`), sig) {
		t.Errorf("tampered payload accepted")
	}
	if VerifyHMAC("other", payload, sig) {
		t.Errorf("wrong secret accepted")
	}
	if VerifyHMAC("", payload, "") {
		t.Errorf("empty secret and signature accepted")
	}
}
