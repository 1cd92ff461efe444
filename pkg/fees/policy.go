// Package fees implements the platform fee policy as a pure computation.
// Percentages are configuration, injected per call; they are never read from
// package-level state.
package fees

import "math"

// Percents holds the independently configurable fee percentages per
// operation type.
type Percents struct {
	P2P        float64
	Invoice    float64
	Withdrawal float64
	Ticket     float64
}

// DefaultPercents mirrors the platform defaults: 5% on transfers, invoices
// and withdrawals, 10% on ticket sales.
func DefaultPercents() Percents {
	return Percents{P2P: 5, Invoice: 5, Withdrawal: 5, Ticket: 10}
}

// Fee computes the platform fee on amount in integer minor units, rounded to
// the nearest unit. Exemption is all-or-nothing: an exempt account pays no
// fee regardless of operation type.
func Fee(amount int64, percent float64, exempt bool) int64 {
	if exempt || amount <= 0 || percent <= 0 {
		return 0
	}
	return int64(math.Round(float64(amount) * percent / 100))
}
