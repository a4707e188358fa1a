package repo

import (
	"context"
	"encoding/json"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
// Records are written only by the payment webhook and read by the stats
// aggregator.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Insert stores a donation recorded from a completed checkout session.
func (r *DonationRepositoryPG) Insert(ctx context.Context, donation *domain.Donation) error {
	metadata := donation.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO donations (id, session_id, amount, currency, donor_email, status, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`, donation.ID, donation.SessionID, donation.Amount, donation.Currency, donation.DonorEmail, donation.Status, raw)
	return err
}

// Stats sums and averages completed donations, rounded to cents.
func (r *DonationRepositoryPG) Stats(ctx context.Context) (*domain.DonationStats, error) {
	row := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(amount), 0), COUNT(*), COALESCE(AVG(amount), 0)
FROM donations
WHERE status = 'completed';
`)
	var stats domain.DonationStats
	if err := row.Scan(&stats.TotalAmount, &stats.TotalDonations, &stats.AverageDonation); err != nil {
		return nil, err
	}
	stats.TotalAmount = roundCents(stats.TotalAmount)
	stats.AverageDonation = roundCents(stats.AverageDonation)
	return &stats, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
