package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v78"

	"server/internal/domain"
)

type fakeDonations struct {
	inserted []*domain.Donation
	stats    *domain.DonationStats
	statsErr error
}

func (f *fakeDonations) Insert(_ context.Context, d *domain.Donation) error {
	f.inserted = append(f.inserted, d)
	return nil
}

func (f *fakeDonations) Stats(context.Context) (*domain.DonationStats, error) {
	return f.stats, f.statsErr
}

type stubCheckout struct{}

func (stubCheckout) CreateCheckoutSession(context.Context, float64, string, string) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{}, nil
}

func (stubCheckout) GetCheckoutSession(context.Context, string) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{}, nil
}

const webhookSecret = "whsec_test"

// stripeSignature builds the t=...,v1=... header Stripe signs payloads with.
func stripeSignature(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

// eventPayload stamps the SDK's API version so signature construction is the
// only thing under test, not version drift.
func eventPayload(eventType, object string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": "evt_1",
  "api_version": %q,
  "type": %q,
  "data": {"object": %s}
}`, stripe.APIVersion, eventType, object))
}

func completedSessionEvent() []byte {
	return eventPayload("checkout.session.completed", `{
    "id": "cs_test_1",
    "amount_total": 2500,
    "currency": "usd",
    "customer_email": "donor@example.com",
    "metadata": {"donation_amount": "25.00"}
  }`)
}

func TestStripeWebhookRecordsCompletedSession(t *testing.T) {
	app := newTestApp()
	app.WebhookSecret = webhookSecret
	donations := &fakeDonations{}
	app.Donations = donations

	payload := completedSessionEvent()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", stripeSignature(payload, webhookSecret, time.Now()))
	rr := httptest.NewRecorder()
	app.StripeWebhook(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["received"] != true {
		t.Fatalf("received = %v, want true", body["received"])
	}
	if len(donations.inserted) != 1 {
		t.Fatalf("donations recorded = %d, want 1", len(donations.inserted))
	}
	d := donations.inserted[0]
	if d.SessionID != "cs_test_1" {
		t.Fatalf("session id = %q", d.SessionID)
	}
	if d.Amount != 25.00 {
		t.Fatalf("amount = %v, want 25.00", d.Amount)
	}
	if d.DonorEmail != "donor@example.com" {
		t.Fatalf("donor email = %q", d.DonorEmail)
	}
	if d.Status != domain.DonationCompleted {
		t.Fatalf("status = %q, want completed", d.Status)
	}
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	app := newTestApp()
	app.WebhookSecret = webhookSecret
	donations := &fakeDonations{}
	app.Donations = donations

	payload := completedSessionEvent()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", stripeSignature(payload, "whsec_other", time.Now()))
	rr := httptest.NewRecorder()
	app.StripeWebhook(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if len(donations.inserted) != 0 {
		t.Fatalf("donation recorded despite bad signature")
	}
}

func TestStripeWebhookRequiresSignatureHeader(t *testing.T) {
	app := newTestApp()
	app.WebhookSecret = webhookSecret
	app.Donations = &fakeDonations{}

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(string(completedSessionEvent())))
	rr := httptest.NewRecorder()
	app.StripeWebhook(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestStripeWebhookIgnoresUnhandledEvents(t *testing.T) {
	app := newTestApp()
	app.WebhookSecret = webhookSecret
	donations := &fakeDonations{}
	app.Donations = donations

	payload := eventPayload("payment_intent.created", `{}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", stripeSignature(payload, webhookSecret, time.Now()))
	rr := httptest.NewRecorder()
	app.StripeWebhook(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for unhandled event", rr.Code)
	}
	if len(donations.inserted) != 0 {
		t.Fatalf("unhandled event recorded a donation")
	}
}

func TestDonationsStats(t *testing.T) {
	app := newTestApp()
	app.Donations = &fakeDonations{stats: &domain.DonationStats{
		TotalAmount:     125.50,
		TotalDonations:  3,
		AverageDonation: 41.83,
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/donations/stats", nil)
	rr := httptest.NewRecorder()
	app.DonationsStats(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["totalAmount"] != 125.50 {
		t.Fatalf("totalAmount = %v, want 125.50", body["totalAmount"])
	}
	if body["totalDonations"] != float64(3) {
		t.Fatalf("totalDonations = %v, want 3", body["totalDonations"])
	}
}

func TestCheckoutCreateWithoutStripeIs503(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"amount":25}`))
	rr := httptest.NewRecorder()
	app.CheckoutCreate(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestCheckoutCreateRejectsInvalidAmount(t *testing.T) {
	app := newTestApp()
	app.Checkout = stubCheckout{}

	for _, body := range []string{`{"amount":0}`, `{"amount":-5}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(body))
		rr := httptest.NewRecorder()
		app.CheckoutCreate(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rr.Code)
		}
	}
}
