// Package ledger defines the append-only audit trail of the wallet: one
// transaction row per money movement and one fee row per fee actually
// captured. All legs of a logical operation share a reference, and the legs
// for a reference net to zero money created or destroyed (fees are transfers
// to the platform account, not creation).
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a transaction leg by the movement it records.
type Kind string

const (
	// KindSend is the debit leg of a peer-to-peer transfer.
	KindSend Kind = "send"
	// KindReceive is the credit leg of a peer-to-peer transfer.
	KindReceive Kind = "receive"
	// KindFee is a platform fee charged to the source account.
	KindFee Kind = "fee"
	// KindDeposit is a credit from a redeemed deposit instrument.
	KindDeposit Kind = "deposit"
	// KindInvoicePayment is the settlement of a billing document.
	KindInvoicePayment Kind = "invoice_payment"
	// KindCashPayout is a withdrawal settled in cash by a finance operator.
	KindCashPayout Kind = "cash_payout"
	// KindFeeSweep is the administrative deposit of collected fees into the
	// platform's own balance.
	KindFeeSweep Kind = "fee_sweep"
)

// Status is the lifecycle state of a transaction leg. Rows are immutable
// after creation except for the pending -> success/failed transition.
type Status string

const (
	// StatusPending marks an in-flight movement awaiting settlement.
	StatusPending Status = "pending"
	// StatusSuccess marks a settled movement. Terminal.
	StatusSuccess Status = "success"
	// StatusFailed marks a reversed or refused movement. Terminal.
	StatusFailed Status = "failed"
)

// Transaction is a single append-only ledger leg. From and To are nil for
// legs with no internal counterparty (deposits, cash payouts).
type Transaction struct {
	ID        uuid.UUID
	Kind      Kind
	Amount    int64
	FeeAmount int64
	From      *string
	To        *string
	Reference string
	Status    Status
	Note      string
	CreatedAt time.Time
}

// Fee records a fee actually captured from an account. Deposited flips to
// true once the amount has been swept into the platform balance; nothing
// else is ever mutated.
type Fee struct {
	ID        uuid.UUID
	Kind      Kind
	Amount    int64
	Percent   float64
	Account   string
	Reference string
	Deposited bool
	CreatedAt time.Time
}

// NewReference returns a fresh correlation identifier shared by all legs of
// one logical operation.
func NewReference() string {
	return uuid.NewString()
}
