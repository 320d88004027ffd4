package purchase_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	stripesdk "github.com/stripe/stripe-go/v82"

	"github.com/listora/listora-api/internal/domain/credit"
	"github.com/listora/listora-api/internal/domain/purchase"
)

type fakeVerifier struct {
	event stripesdk.Event
	err   error
}

func (f *fakeVerifier) VerifyWebhook(payload []byte, signature string) (stripesdk.Event, error) {
	return f.event, f.err
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	svc, _, _ := newTestService(t, db, nil)
	h := purchase.NewHandler(svc, &fakeVerifier{err: errors.New("bad signature")})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.StripeWebhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStripeWebhookAcksUnknownIntent(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	svc, _, _ := newTestService(t, db, nil)
	h := purchase.NewHandler(svc, &fakeVerifier{event: stripesdk.Event{
		Type: "checkout.session.completed",
		Data: &stripesdk.EventData{Raw: json.RawMessage(`{"id":"cs_unknown","payment_status":"paid"}`)},
	}})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.StripeWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestStripeWebhookIgnoresOtherEvents(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	svc, _, _ := newTestService(t, db, nil)
	h := purchase.NewHandler(svc, &fakeVerifier{event: stripesdk.Event{
		Type: "payment_intent.created",
		Data: &stripesdk.EventData{Raw: json.RawMessage(`{}`)},
	}})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.StripeWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestStripeWebhookAppliesCredit(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	userID := uuid.New()
	svc, creditRepo, _ := newTestService(t, db, nil)
	out := startStripePurchase(t, svc, userID, credit.TypeHomepageBanner)

	h := purchase.NewHandler(svc, &fakeVerifier{event: stripesdk.Event{
		Type: "checkout.session.completed",
		Data: &stripesdk.EventData{Raw: json.RawMessage(fmt.Sprintf(`{"id":%q,"payment_status":"paid"}`, out.CorrelationID))},
	}})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.StripeWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	balance, err := creditRepo.GetBalance(req.Context(), userID.String(), credit.TypeHomepageBanner)
	requireNoError(t, err)
	if balance != 1 {
		t.Fatalf("expected balance 1, got %d", balance)
	}
}
