package domain

import "time"

// SubscriptionStatus enumerates the states a subscriber record can be in.
type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "active"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

// Subscriber represents one newsletter recipient, keyed by normalized email.
type Subscriber struct {
	ID             string
	Email          string
	Status         SubscriptionStatus
	SubscribedAt   time.Time
	UnsubscribedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive reports whether the subscriber currently receives the newsletter.
func (s Subscriber) IsActive() bool {
	return s.Status == SubscriptionActive
}

// SubscribeOutcome classifies what a subscribe attempt did to the record.
type SubscribeOutcome string

const (
	OutcomeCreated       SubscribeOutcome = "created"
	OutcomeResubscribed  SubscribeOutcome = "resubscribed"
	OutcomeAlreadyActive SubscribeOutcome = "already_active"
)
