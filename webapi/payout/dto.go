package payout

import "time"

// PendingWithdrawalDTO is the API shape of a pending pool entry.
type PendingWithdrawalDTO struct {
	Reference string    `json:"reference"`
	Account   string    `json:"account"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
