package middleware

import (
	"encoding/json"
	"net/http"
)

// AdminAuth guards admin data routes with the shared secret, supplied via
// the X-Admin-Secret header. The comparison is a plain equality check, the
// same gate the login endpoint applies. An empty configured secret denies
// everything.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get("X-Admin-Secret")
			if supplied == "" {
				writeAuthError(w, http.StatusBadRequest, "Admin secret is required")
				return
			}
			if secret == "" || supplied != secret {
				writeAuthError(w, http.StatusUnauthorized, "Invalid admin secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
