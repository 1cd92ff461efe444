// Package repository defines the data access contracts of the wallet core.
// Every balance-affecting method is a single conditional update against the
// store: a precondition check followed by a conditional write is the
// concurrency-safety mechanism, never an exclusive lock held across calls.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/townhub/wallet/pkg/domain/escrow"
	"github.com/townhub/wallet/pkg/domain/invoice"
	"github.com/townhub/wallet/pkg/domain/ledger"
	"github.com/townhub/wallet/pkg/domain/redeem"
	"github.com/townhub/wallet/pkg/domain/wallet"
)

// AccountRepository stores one balance record per account.
type AccountRepository interface {
	Get(ctx context.Context, number string) (*wallet.Account, error)
	Create(ctx context.Context, a *wallet.Account) error

	// Mutate applies delta to the balance as one atomic conditional update:
	// the write happens only if the resulting balance stays >= 0. A debit
	// matching zero rows returns wallet.ErrInsufficientFunds; an unknown
	// account returns wallet.ErrAccountNotFound. Changes are visible to
	// subsequent reads immediately.
	Mutate(ctx context.Context, number string, delta int64) error

	UpdateStatus(ctx context.Context, number string, status wallet.Status) error
	Delete(ctx context.Context, number string) error
}

// TransactionRepository appends immutable ledger legs.
type TransactionRepository interface {
	Create(ctx context.Context, tx *ledger.Transaction) error
	ListByAccount(ctx context.Context, number string) ([]*ledger.Transaction, error)

	// SettleReference conditionally flips all pending legs of a reference to
	// the given terminal status. Legs already terminal are left untouched.
	SettleReference(ctx context.Context, reference string, status ledger.Status) error
}

// FeeRepository stores captured fee records.
type FeeRepository interface {
	Create(ctx context.Context, f *ledger.Fee) error
	ListUndeposited(ctx context.Context) ([]*ledger.Fee, error)
	MarkDeposited(ctx context.Context, ids []uuid.UUID) error
}

// InvoiceRepository stores billing documents.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *invoice.Invoice) error
	GetByReference(ctx context.Context, reference string) (*invoice.Invoice, error)
	ListByAccount(ctx context.Context, number string) ([]*invoice.Invoice, error)

	// MarkPaid performs the conditional unpaid -> paid flip. It reports false
	// when the invoice was already paid, which is how a concurrent second
	// payer loses the race.
	MarkPaid(ctx context.Context, reference string, paidAt time.Time) (bool, error)
}

// WithdrawalRepository holds the escrow pool of pending withdrawals.
type WithdrawalRepository interface {
	Create(ctx context.Context, e *escrow.Entry) error
	GetByReference(ctx context.Context, reference string) (*escrow.Entry, error)
	List(ctx context.Context) ([]*escrow.Entry, error)
	ListDue(ctx context.Context, now time.Time) ([]*escrow.Entry, error)

	// Remove deletes the pool entry if it is still present and reports
	// whether this caller won the removal. Settlement and expiry both funnel
	// through Remove, making entry deletion the single linearization point
	// of their race.
	Remove(ctx context.Context, reference string) (bool, error)
}

// RedeemCodeRepository stores one-time-use deposit instruments.
type RedeemCodeRepository interface {
	Create(ctx context.Context, c *redeem.Code) error
	GetByCode(ctx context.Context, code string) (*redeem.Code, error)

	// MarkUsed performs the conditional used=false -> true flip, recording
	// the redeemer. It reports false when the code was already used.
	MarkUsed(ctx context.Context, code, usedBy string) (bool, error)
}
