package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"server/internal/domain"
)

// Stripe recommends capping webhook payloads at ~64KiB.
const maxWebhookBodySize = int64(65536)

// StripeWebhook handles POST /api/webhook. The signature is verified over
// the raw body; a completed checkout session becomes a donation record. The
// provider retries failed deliveries, so a storage failure is logged and
// acknowledged rather than surfaced.
func (a *App) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodySize)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		a.error(w, http.StatusBadRequest, "Cannot read request body")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if sig == "" {
		a.error(w, http.StatusBadRequest, "Missing Stripe-Signature header")
		return
	}

	event, err := webhook.ConstructEvent(payload, sig, a.WebhookSecret)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("webhook signature verification failed")
		a.error(w, http.StatusBadRequest, "Webhook signature verification failed")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			a.Logger.Error().Err(err).Msg("webhook payload parse failed")
			a.error(w, http.StatusBadRequest, "Malformed event payload")
			return
		}
		a.recordDonation(r, &sess)
	default:
		a.Logger.Debug().Str("type", string(event.Type)).Msg("unhandled webhook event")
	}

	a.json(w, http.StatusOK, map[string]bool{"received": true})
}

func (a *App) recordDonation(r *http.Request, sess *stripe.CheckoutSession) {
	donorEmail := sess.CustomerEmail
	if donorEmail == "" && sess.CustomerDetails != nil {
		donorEmail = sess.CustomerDetails.Email
	}

	donation := &domain.Donation{
		ID:         uuid.NewString(),
		SessionID:  sess.ID,
		Amount:     float64(sess.AmountTotal) / 100,
		Currency:   string(sess.Currency),
		DonorEmail: donorEmail,
		Status:     domain.DonationCompleted,
		Metadata:   sess.Metadata,
		CreatedAt:  time.Now().UTC(),
	}

	if err := a.Donations.Insert(r.Context(), donation); err != nil {
		a.Logger.Error().Err(err).Str("session_id", sess.ID).Msg("saving donation failed")
		return
	}
	a.Logger.Info().Str("session_id", sess.ID).Float64("amount", donation.Amount).Msg("donation recorded")
}
