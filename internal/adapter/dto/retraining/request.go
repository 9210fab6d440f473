package retraining

// WebhookRequest is the status callback posted by the training pipeline
// for a queued retraining signal.
type WebhookRequest struct {
	SignalID string `json:"signal_id" validate:"required"`
	Status   string `json:"status" validate:"required"`
}
