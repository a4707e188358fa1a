package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type checkoutRequest struct {
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	DonorEmail string  `json:"donorEmail"`
}

// CheckoutCreate handles POST /api/create-checkout-session: a passthrough to
// the payment provider, no local persistence.
func (a *App) CheckoutCreate(w http.ResponseWriter, r *http.Request) {
	if a.Checkout == nil {
		a.error(w, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if req.Currency == "" {
		req.Currency = "usd"
	}

	sess, err := a.Checkout.CreateCheckoutSession(r.Context(), req.Amount, req.Currency, req.DonorEmail)
	if err != nil {
		a.Logger.Error().Err(err).Msg("create checkout session failed")
		a.error(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}

	a.json(w, http.StatusOK, map[string]string{
		"sessionId": sess.ID,
		"url":       sess.URL,
	})
}

// CheckoutGet handles GET /api/checkout-session/{session_id}.
func (a *App) CheckoutGet(w http.ResponseWriter, r *http.Request) {
	if a.Checkout == nil {
		a.error(w, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	id := chi.URLParam(r, "session_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	sess, err := a.Checkout.GetCheckoutSession(r.Context(), id)
	if err != nil {
		a.Logger.Error().Err(err).Str("session_id", id).Msg("get checkout session failed")
		a.error(w, http.StatusInternalServerError, "Failed to retrieve session")
		return
	}
	a.json(w, http.StatusOK, sess)
}

// DonationsStats handles GET /api/donations/stats.
func (a *App) DonationsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Donations.Stats(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("donation stats failed")
		a.error(w, http.StatusInternalServerError, "Failed to get donation statistics")
		return
	}
	a.json(w, http.StatusOK, stats)
}
