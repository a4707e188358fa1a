package payments

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// Client wraps the Stripe SDK for donation checkout sessions. It is a thin
// passthrough: sessions are created and read, never stored here.
type Client struct {
	api         *client.API
	frontendURL string
	log         zerolog.Logger
}

// NewClient initializes the Stripe SDK with the given secret key. A nil
// client is returned when the key is empty so callers can degrade to 503.
func NewClient(apiKey, frontendURL string, log zerolog.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Client{api: api, frontendURL: frontendURL, log: log}
}

// CreateCheckoutSession opens a one-time card payment session for a donation
// of the given amount (in whole currency units, e.g. dollars).
func (c *Client) CreateCheckoutSession(ctx context.Context, amount float64, currency, donorEmail string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Donation"),
						Description: stripe.String("Supporting our community programs"),
					},
					UnitAmount: stripe.Int64(int64(math.Round(amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(c.frontendURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(c.frontendURL + "/cancel"),
		Metadata: map[string]string{
			"donation_amount": fmt.Sprintf("%.2f", amount),
			"currency":        currency,
			"donor_email":     donorEmail,
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		},
	}
	if donorEmail != "" {
		params.CustomerEmail = stripe.String(donorEmail)
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.log.Error().Err(err).Msg("stripe checkout session create failed")
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	c.log.Info().Str("session_id", sess.ID).Msg("checkout session created")
	return sess, nil
}

// GetCheckoutSession retrieves an existing checkout session by id.
func (c *Client) GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.Get(id, params)
	if err != nil {
		c.log.Error().Err(err).Str("session_id", id).Msg("stripe checkout session get failed")
		return nil, fmt.Errorf("stripe: get checkout session %s: %w", id, err)
	}
	return sess, nil
}
