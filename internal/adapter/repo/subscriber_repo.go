package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// SubscriberRepositoryPG implements domain.SubscriberRepository backed by
// PostgreSQL. The unique index on email is the conflict detection the
// reconciler relies on for concurrent subscribes.
type SubscriberRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSubscriberRepository creates a new SubscriberRepositoryPG.
func NewSubscriberRepository(pool *pgxpool.Pool) *SubscriberRepositoryPG {
	return &SubscriberRepositoryPG{pool: pool}
}

const subscriberColumns = `id, email, status, subscribed_at, unsubscribed_at, created_at, updated_at`

// FindByEmail fetches the record for a normalized email address.
func (r *SubscriberRepositoryPG) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subscriberColumns+` FROM subscribers WHERE email = $1`, email)
	return scanSubscriber(row)
}

// Insert creates a new subscriber record. A concurrent insert for the same
// email loses against the unique index and reports domain.ErrDuplicate.
func (r *SubscriberRepositoryPG) Insert(ctx context.Context, sub *domain.Subscriber) error {
	tag, err := r.pool.Exec(ctx, `
INSERT INTO subscribers (id, email, status, subscribed_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO NOTHING;
`, sub.ID, sub.Email, sub.Status, sub.SubscribedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

// SetStatus flips the record's status and stamps the matching timestamp:
// subscribed_at when activating, unsubscribed_at when deactivating.
func (r *SubscriberRepositoryPG) SetStatus(ctx context.Context, id string, status domain.SubscriptionStatus, at time.Time) error {
	query := `UPDATE subscribers SET status = $2, subscribed_at = $3, updated_at = NOW() WHERE id = $1`
	if status == domain.SubscriptionUnsubscribed {
		query = `UPDATE subscribers SET status = $2, unsubscribed_at = $3, updated_at = NOW() WHERE id = $1`
	}
	tag, err := r.pool.Exec(ctx, query, id, status, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActive returns non-unsubscribed records, most recent subscription first.
func (r *SubscriberRepositoryPG) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+subscriberColumns+`
FROM subscribers
WHERE status <> 'unsubscribed'
ORDER BY subscribed_at DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Subscriber
	for rows.Next() {
		var sub domain.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Status, &sub.SubscribedAt, &sub.UnsubscribedAt, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountActive counts records whose status is not unsubscribed.
func (r *SubscriberRepositoryPG) CountActive(ctx context.Context) (int, error) {
	var count int
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers WHERE status <> 'unsubscribed'`)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a record by id.
func (r *SubscriberRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSubscriber(row pgx.Row) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	if err := row.Scan(&sub.ID, &sub.Email, &sub.Status, &sub.SubscribedAt, &sub.UnsubscribedAt, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}
