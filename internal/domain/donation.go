package domain

import "time"

// DonationStatus mirrors the payment provider's view of a checkout session.
type DonationStatus string

const (
	DonationCompleted DonationStatus = "completed"
)

// Donation represents a supporter contribution recorded from a payment webhook.
type Donation struct {
	ID         string
	SessionID  string
	Amount     float64
	Currency   string
	DonorEmail string
	Status     DonationStatus
	Metadata   map[string]string
	CreatedAt  time.Time
}

// DonationStats aggregates completed donations for the public stats endpoint.
type DonationStats struct {
	TotalAmount     float64 `json:"totalAmount"`
	TotalDonations  int64   `json:"totalDonations"`
	AverageDonation float64 `json:"averageDonation"`
}
