package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dcatrain/dca-feedback/pkg/trainer"
)

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestTraineeIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/session/start", nil)
	req.Header.Set("X-User-ID", "trainee-7")
	c, _ := newContext(req)

	var got string
	next := func(c echo.Context) error {
		got = TraineeID(c)
		return nil
	}
	if err := TraineeIdentity()(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if got != "trainee-7" {
		t.Fatalf("expected trainee-7, got %q", got)
	}
}

func TestTraineeIdentityMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/session/start", nil)
	c, _ := newContext(req)

	var got string
	next := func(c echo.Context) error {
		got = TraineeID(c)
		return nil
	}
	if err := TraineeIdentity()(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty trainee id, got %q", got)
	}
}

func TestRequireWebhookSignature_Valid(t *testing.T) {
	const secret = "mw-secret"
	payload := `{"signal_id":"abc","status":"completed"}`

	req := httptest.NewRequest(http.MethodPost, "/retraining/webhook", strings.NewReader(payload))
	req.Header.Set("X-Signature", trainer.SignHMAC(secret, []byte(payload)))
	c, _ := newContext(req)

	var seen string
	next := func(c echo.Context) error {
		// The body must be rewound for the handler to bind
		b, err := io.ReadAll(c.Request().Body)
		if err != nil {
			t.Fatalf("body read failed: %v", err)
		}
		seen = string(b)
		return c.NoContent(http.StatusOK)
	}
	if err := RequireWebhookSignature(secret)(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if seen != payload {
		t.Fatalf("handler saw %q, want %q", seen, payload)
	}
}

func TestRequireWebhookSignature_Invalid(t *testing.T) {
	const secret = "mw-secret"
	payload := `{"signal_id":"abc","status":"completed"}`

	req := httptest.NewRequest(http.MethodPost, "/retraining/webhook", strings.NewReader(payload))
	req.Header.Set("X-Signature", trainer.SignHMAC("wrong-secret", []byte(payload)))
	c, rec := newContext(req)

	next := func(c echo.Context) error {
		t.Fatal("handler must not run for a bad signature")
		return nil
	}
	if err := RequireWebhookSignature(secret)(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRequireWebhookSignature_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/retraining/webhook", strings.NewReader(`{}`))
	c, rec := newContext(req)

	next := func(c echo.Context) error {
		t.Fatal("handler must not run without a signature")
		return nil
	}
	if err := RequireWebhookSignature("mw-secret")(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
