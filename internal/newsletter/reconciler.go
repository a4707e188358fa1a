package newsletter

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/mailer"
)

// emailPattern is the local@domain-with-dot shape accepted for subscriptions.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Notifier accepts best-effort notifications. Enqueue must not block the
// caller; it reports whether the message was accepted.
type Notifier interface {
	Enqueue(msg mailer.Message) bool
}

// SubscribeResult is what a subscribe attempt decided and persisted.
type SubscribeResult struct {
	Outcome    domain.SubscribeOutcome
	Subscriber *domain.Subscriber
	// Notifications holds the messages handed to the notifier. Their
	// delivery is never awaited and never affects the persisted outcome.
	Notifications []mailer.Message
}

// IsNew reports whether the attempt changed the record (created or revived it).
func (r SubscribeResult) IsNew() bool {
	return r.Outcome != domain.OutcomeAlreadyActive
}

// Reconciler decides subscription state transitions and schedules the
// resulting notifications. Persistence success is the source of truth;
// notification delivery is fire-and-forget.
type Reconciler struct {
	repo       domain.SubscriberRepository
	notifier   Notifier
	templates  *mailer.Templates
	adminEmail string
	now        func() time.Time
	log        zerolog.Logger
}

// NewReconciler wires the reconciler with its collaborators. adminEmail may
// be empty, in which case no admin alerts are scheduled.
func NewReconciler(repo domain.SubscriberRepository, notifier Notifier, templates *mailer.Templates, adminEmail string, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		repo:       repo,
		notifier:   notifier,
		templates:  templates,
		adminEmail: adminEmail,
		now:        time.Now,
		log:        log,
	}
}

// NormalizeEmail returns the lookup key for an address: trimmed and lower-cased.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Subscribe reconciles a raw email against the stored record. It validates
// before touching the store, writes at most once, and schedules welcome and
// admin notifications only when the attempt created or revived the record.
func (r *Reconciler) Subscribe(ctx context.Context, rawEmail string) (*SubscribeResult, error) {
	trimmed := strings.TrimSpace(rawEmail)
	if trimmed == "" || !emailPattern.MatchString(trimmed) {
		return nil, domain.ErrInvalidEmail
	}
	email := strings.ToLower(trimmed)

	existing, err := r.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsActive():
		r.log.Debug().Str("email", email).Msg("subscriber already active")
		return &SubscribeResult{Outcome: domain.OutcomeAlreadyActive, Subscriber: existing}, nil

	case err == nil:
		// The record exists but is unsubscribed: revive it. The historical
		// unsubscribed_at timestamp is kept.
		now := r.now()
		if err := r.repo.SetStatus(ctx, existing.ID, domain.SubscriptionActive, now); err != nil {
			return nil, fmt.Errorf("resubscribe %s: %w", email, err)
		}
		existing.Status = domain.SubscriptionActive
		existing.SubscribedAt = now
		r.log.Info().Str("email", email).Msg("subscriber resubscribed")
		return &SubscribeResult{
			Outcome:       domain.OutcomeResubscribed,
			Subscriber:    existing,
			Notifications: r.notify(email),
		}, nil

	case errors.Is(err, domain.ErrNotFound):
		now := r.now()
		sub := &domain.Subscriber{
			ID:           uuid.NewString(),
			Email:        email,
			Status:       domain.SubscriptionActive,
			SubscribedAt: now,
		}
		if err := r.repo.Insert(ctx, sub); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// Lost a race with a concurrent subscribe for the same
				// address; the store's unique index already settled it.
				if winner, ferr := r.repo.FindByEmail(ctx, email); ferr == nil {
					sub = winner
				}
				return &SubscribeResult{Outcome: domain.OutcomeAlreadyActive, Subscriber: sub}, nil
			}
			return nil, fmt.Errorf("insert subscriber %s: %w", email, err)
		}
		r.log.Info().Str("email", email).Msg("new subscriber added")
		return &SubscribeResult{
			Outcome:       domain.OutcomeCreated,
			Subscriber:    sub,
			Notifications: r.notify(email),
		}, nil

	default:
		return nil, fmt.Errorf("find subscriber %s: %w", email, err)
	}
}

// Unsubscribe marks the record for the given address as unsubscribed. A
// missing record is not an error: found=false lets the caller answer with a
// generic success so registered addresses are not leaked. The operation is
// idempotent for already-unsubscribed records.
func (r *Reconciler) Unsubscribe(ctx context.Context, rawEmail string) (bool, error) {
	email := NormalizeEmail(rawEmail)
	if email == "" {
		return false, domain.ErrInvalidEmail
	}

	sub, err := r.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find subscriber %s: %w", email, err)
	}

	if err := r.repo.SetStatus(ctx, sub.ID, domain.SubscriptionUnsubscribed, r.now()); err != nil {
		return false, fmt.Errorf("unsubscribe %s: %w", email, err)
	}
	r.log.Info().Str("email", email).Msg("subscriber unsubscribed")
	return true, nil
}

func (r *Reconciler) notify(email string) []mailer.Message {
	msgs := []mailer.Message{r.templates.Welcome(email)}
	if r.adminEmail != "" {
		msgs = append(msgs, r.templates.AdminAlert(r.adminEmail, email))
	}
	for _, msg := range msgs {
		if !r.notifier.Enqueue(msg) {
			r.log.Warn().Str("to", msg.To).Msg("notification queue full, dropping message")
		}
	}
	return msgs
}
