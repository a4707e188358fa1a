package handlers

import (
	"net/http"
	"time"
)

// Health handles GET /api/health with a short service report.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	email := "not configured"
	if a.EmailConfigured {
		email = "smtp"
	}
	a.json(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"storage":     "postgres",
		"email":       email,
		"environment": a.AppEnv,
	})
}
