package wallet

import (
	"time"

	"github.com/google/uuid"
)

// TransferCompletedEvent is emitted after a peer-to-peer send has settled.
type TransferCompletedEvent struct {
	EventID   uuid.UUID
	Reference string
	Sender    string
	Recipient string
	Amount    int64
	Fee       int64
	Timestamp time.Time
}

// EventType returns the type of the TransferCompletedEvent.
func (e TransferCompletedEvent) EventType() string { return "transfer.completed" }

// InvoicePaidEvent is emitted when an invoice transitions to paid.
type InvoicePaidEvent struct {
	EventID   uuid.UUID
	Reference string
	Issuer    string
	Payer     string
	Amount    int64
	Fee       int64
	Timestamp time.Time
}

// EventType returns the type of the InvoicePaidEvent.
func (e InvoicePaidEvent) EventType() string { return "invoice.paid" }

// PayoutProcessedEvent is emitted when a pending withdrawal is settled by a
// finance operator.
type PayoutProcessedEvent struct {
	EventID   uuid.UUID
	Reference string
	Account   string
	Processor string
	Amount    int64
	Fee       int64
	Timestamp time.Time
}

// EventType returns the type of the PayoutProcessedEvent.
func (e PayoutProcessedEvent) EventType() string { return "payout.processed" }

// CodeRedeemedEvent is emitted when a redeem code credits an account.
type CodeRedeemedEvent struct {
	EventID   uuid.UUID
	Account   string
	Amount    int64
	Timestamp time.Time
}

// EventType returns the type of the CodeRedeemedEvent.
func (e CodeRedeemedEvent) EventType() string { return "code.redeemed" }
