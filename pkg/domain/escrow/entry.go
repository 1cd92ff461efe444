// Package escrow models the withdrawal pool: funds removed from an account's
// spendable balance while awaiting a manual cash payout. Every entry has
// exactly one outcome — settled within its window (fee charged, payout leg
// written) or expired (full fee-free reversal). Removal of the pool entry is
// the single linearization point deciding a settle/expire race.
package escrow

import (
	"errors"
	"time"
)

var (
	// ErrWithdrawalNotFound is returned when no pool entry matches a reference.
	ErrWithdrawalNotFound = errors.New("pending withdrawal not found")

	// ErrWithdrawalExpired is returned to a processor attempting to settle an
	// entry whose window has elapsed; the entry is force-expired instead.
	ErrWithdrawalExpired = errors.New("withdrawal window has expired")

	// ErrSelfPayout is returned when a processor tries to settle their own
	// withdrawal.
	ErrSelfPayout = errors.New("cannot process own withdrawal")

	// ErrAlreadyProcessed is returned when the pool entry was removed by a
	// concurrent settlement or expiry; the request was redundant, nothing is
	// broken.
	ErrAlreadyProcessed = errors.New("withdrawal already processed")
)

// Entry is a time-boxed pending withdrawal. The debited amount sits outside
// the owner's spendable balance until the entry is settled or expires.
type Entry struct {
	Reference string
	Account   string
	Amount    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the settlement window has elapsed at now.
// An entry is expired exactly at its deadline, not only after it.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
