package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
)

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe handles POST /api/subscribe. The response is returned as soon as
// the record is persisted; notification delivery happens in the background.
func (a *App) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := a.Newsletter.Subscribe(r.Context(), req.Email)
	if errors.Is(err, domain.ErrInvalidEmail) {
		a.error(w, http.StatusBadRequest, "Invalid email address format")
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("subscribe failed")
		a.error(w, http.StatusInternalServerError, "Subscription failed. Please try again later.")
		return
	}

	message := "You are already subscribed to our newsletter!"
	switch result.Outcome {
	case domain.OutcomeCreated:
		message = "Successfully subscribed! Welcome email will be sent shortly."
	case domain.OutcomeResubscribed:
		message = "Welcome back! You have been resubscribed."
	}

	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"isNew":   result.IsNew(),
	})
}

// Unsubscribe handles POST /api/unsubscribe. It answers with a generic
// success whether or not the address was registered.
func (a *App) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := a.Newsletter.Unsubscribe(r.Context(), req.Email)
	if errors.Is(err, domain.ErrInvalidEmail) {
		a.error(w, http.StatusBadRequest, "Email is required")
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("unsubscribe failed")
		a.error(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Successfully unsubscribed",
	})
}

// SubscribersCount handles GET /api/subscribers/count.
func (a *App) SubscribersCount(w http.ResponseWriter, r *http.Request) {
	count, err := a.Subscribers.CountActive(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("count subscribers failed")
		a.error(w, http.StatusInternalServerError, "Failed to get subscriber count")
		return
	}
	a.json(w, http.StatusOK, map[string]int{"count": count})
}
