package domain

import (
	"context"
	"time"
)

// SubscriberRepository defines persistence for subscriber records.
// Implementations are expected to enforce email uniqueness natively so that
// concurrent inserts for the same address surface as ErrDuplicate.
type SubscriberRepository interface {
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	Insert(ctx context.Context, sub *Subscriber) error
	SetStatus(ctx context.Context, id string, status SubscriptionStatus, at time.Time) error
	ListActive(ctx context.Context) ([]Subscriber, error)
	CountActive(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

// DonationRepository handles donation persistence.
type DonationRepository interface {
	Insert(ctx context.Context, donation *Donation) error
	Stats(ctx context.Context) (*DonationStats, error)
}
