package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLogin handles POST /api/admin/login: a plain equality check against
// the configured secret. A wrong password is a 401 denial, not an error; a
// missing one is a 400.
func (a *App) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" {
		a.json(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Password is required",
		})
		return
	}

	if req.Password != a.AdminSecret {
		a.Logger.Warn().Msg("admin login failed")
		a.json(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Invalid admin password",
		})
		return
	}

	a.Logger.Info().Msg("admin login successful")
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Admin authenticated successfully",
	})
}

type subscriberDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
	Status       string    `json:"status"`
}

// AdminSubscribers handles GET /api/admin/subscribers: active records,
// newest subscription first.
func (a *App) AdminSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := a.Subscribers.ListActive(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("list subscribers failed")
		a.error(w, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}

	items := make([]subscriberDTO, 0, len(subs))
	for _, sub := range subs {
		items = append(items, subscriberDTO{
			ID:           sub.ID,
			Email:        sub.Email,
			SubscribedAt: sub.SubscribedAt,
			Status:       string(sub.Status),
		})
	}
	a.json(w, http.StatusOK, items)
}

// AdminSubscriberDelete handles DELETE /api/admin/subscribers/{id}.
func (a *App) AdminSubscriberDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "Subscriber ID is required")
		return
	}

	err := a.Subscribers.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		a.json(w, http.StatusNotFound, map[string]any{
			"success": false,
			"message": "Subscriber not found",
		})
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("id", id).Msg("delete subscriber failed")
		a.error(w, http.StatusInternalServerError, "Failed to remove subscriber")
		return
	}

	a.Logger.Info().Str("id", id).Msg("subscriber removed")
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Subscriber removed successfully",
	})
}
