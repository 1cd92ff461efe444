// Package invoice models billing documents between two accounts. No money
// moves at creation time; settlement reuses the transfer debit/credit/fee
// pattern and the unpaid -> paid transition happens exactly once.
package invoice

import (
	"errors"
	"time"
)

// Status is the settlement state of an invoice.
type Status string

const (
	// StatusUnpaid marks an invoice awaiting payment.
	StatusUnpaid Status = "unpaid"
	// StatusPaid marks a settled invoice. Paid invoices are immutable.
	StatusPaid Status = "paid"
)

var (
	// ErrInvoiceNotFound is returned when no invoice matches a reference.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvoiceAlreadyPaid is returned when paying an invoice that has
	// already settled, including when a concurrent payer wins the race.
	ErrInvoiceAlreadyPaid = errors.New("invoice already paid")

	// ErrNotInvoiceRecipient is returned when someone other than the
	// designated recipient attempts payment.
	ErrNotInvoiceRecipient = errors.New("not the invoice recipient")

	// ErrSelfInvoice is returned when an account bills itself.
	ErrSelfInvoice = errors.New("cannot issue an invoice to own account")
)

// Invoice is a billing request from Issuer to Recipient. Only the designated
// recipient may pay it, and only once.
type Invoice struct {
	Reference   string
	Issuer      string
	Recipient   string
	Amount      int64
	Description string
	Status      Status
	CreatedAt   time.Time
	PaidAt      *time.Time
}

// Unpaid reports whether the invoice is still awaiting payment.
func (i *Invoice) Unpaid() bool {
	return i.Status == StatusUnpaid
}
