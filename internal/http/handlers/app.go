package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v78"

	"server/internal/domain"
	"server/internal/newsletter"
)

// SubscriptionService is the reconciler contract the handlers depend on.
type SubscriptionService interface {
	Subscribe(ctx context.Context, rawEmail string) (*newsletter.SubscribeResult, error)
	Unsubscribe(ctx context.Context, rawEmail string) (bool, error)
}

// CheckoutClient is the payment passthrough contract.
type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, amount float64, currency, donorEmail string) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

// App is the handler container. Collaborators are injected at startup; the
// zero value of optional ones (Checkout) degrades the matching routes.
type App struct {
	Newsletter  SubscriptionService
	Subscribers domain.SubscriberRepository
	Donations   domain.DonationRepository
	Checkout    CheckoutClient

	Logger          zerolog.Logger
	AdminSecret     string
	WebhookSecret   string
	AppEnv          string
	EmailConfigured bool
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]any{"success": false, "error": msg})
}
