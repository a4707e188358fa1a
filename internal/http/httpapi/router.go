package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	mw "server/internal/middleware"
)

// Options carries the router-level knobs taken from configuration.
type Options struct {
	CORSOrigin      string
	RateLimitPerMin int
}

// NewRouter builds the API route table with the shared middleware chain.
func NewRouter(app *handlers.App, logger zerolog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		mw.Logger(logger),
		mw.CORS(opts.CORSOrigin),
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)

		// Subscription endpoints sit behind the per-IP limiter.
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(opts.RateLimitPerMin, time.Minute))
			r.Post("/subscribe", app.Subscribe)
			r.Post("/unsubscribe", app.Unsubscribe)
		})
		r.Get("/subscribers/count", app.SubscribersCount)

		r.Post("/create-checkout-session", app.CheckoutCreate)
		r.Get("/checkout-session/{session_id}", app.CheckoutGet)
		r.Post("/webhook", app.StripeWebhook)
		r.Get("/donations/stats", app.DonationsStats)

		r.Post("/admin/login", app.AdminLogin)
		r.Group(func(r chi.Router) {
			r.Use(mw.AdminAuth(app.AdminSecret))
			r.Get("/admin/subscribers", app.AdminSubscribers)
			r.Delete("/admin/subscribers/{id}", app.AdminSubscriberDelete)
		})
	})

	return r
}
