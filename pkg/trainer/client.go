package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"gorm.io/datatypes"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/pkg/config"
)

// Client posts retraining signals to the external training pipeline webhook
type Client struct {
	webhookURL string
	apiKey     string
	secret     string
	client     *http.Client
}

// NewClient creates a trainer client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewClient(cfg *config.TrainerConfig) *Client {
	var webhookURL, apiKey, secret string
	timeout := 10 * time.Second
	if cfg != nil {
		webhookURL = cfg.WebhookURL
		apiKey = cfg.APIKey
		secret = cfg.WebhookSecret
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}
	if webhookURL == "" {
		webhookURL = os.Getenv("TRAINER_WEBHOOK_URL")
	}
	if apiKey == "" {
		apiKey = os.Getenv("TRAINER_API_KEY")
	}

	return &Client{
		webhookURL: webhookURL,
		apiKey:     apiKey,
		secret:     secret,
		client:     &http.Client{Timeout: timeout},
	}
}

// NotifyRequest is the webhook payload for a queued retraining signal
type NotifyRequest struct {
	SignalID string         `json:"signal_id"`
	Reason   string         `json:"reason"`
	Priority string         `json:"priority"`
	Details  datatypes.JSON `json:"details,omitempty"`
	QueuedAt time.Time      `json:"queued_at"`
}

// NotifyRetraining posts one retraining signal to the pipeline webhook.
// The payload is signed when a webhook secret is configured.
func (c *Client) NotifyRetraining(ctx context.Context, signal *entities.RetrainingSignal) error {
	if c.webhookURL == "" {
		return fmt.Errorf("trainer webhook URL not configured")
	}

	queuedAt := signal.CreatedAt
	if queuedAt.IsZero() {
		queuedAt = time.Now().UTC()
	}

	payload := NotifyRequest{
		SignalID: signal.ID.String(),
		Reason:   string(signal.Reason),
		Priority: string(signal.Priority),
		Details:  signal.Details,
		QueuedAt: queuedAt,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("X-Signature", SignHMAC(c.secret, b))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("trainer returned status %d", resp.StatusCode)
	}
	return nil
}
