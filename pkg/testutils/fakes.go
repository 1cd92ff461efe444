// Package testutils provides thread-safe in-memory implementations of the
// repository contracts plus small helpers shared by service and handler
// tests. The fakes honor the same conditional-update semantics as the
// postgres layer, so race-sensitive tests exercise the real arbitration
// logic.
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/townhub/wallet/pkg/domain/escrow"
	"github.com/townhub/wallet/pkg/domain/invoice"
	"github.com/townhub/wallet/pkg/domain/ledger"
	"github.com/townhub/wallet/pkg/domain/redeem"
	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/eventbus"
)

// MemoryAccounts is an in-memory AccountRepository.
type MemoryAccounts struct {
	mu       sync.Mutex
	accounts map[string]*wallet.Account
}

// NewMemoryAccounts creates an empty account store.
func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{accounts: make(map[string]*wallet.Account)}
}

// Seed inserts an account built from the given fields, for test setup.
func (m *MemoryAccounts) Seed(number string, balance int64, status wallet.Status, exempt bool) *wallet.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &wallet.Account{
		Number:    number,
		OwnerID:   uuid.New(),
		Balance:   balance,
		Status:    status,
		FeeExempt: exempt,
		CreatedAt: time.Now(),
	}
	m.accounts[number] = a
	return a
}

// Get implements repository.AccountRepository.
func (m *MemoryAccounts) Get(_ context.Context, number string) (*wallet.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[number]
	if !ok {
		return nil, wallet.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

// Create implements repository.AccountRepository.
func (m *MemoryAccounts) Create(_ context.Context, a *wallet.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.Number]; ok {
		return wallet.ErrInvalidAccountNumber
	}
	cp := *a
	m.accounts[a.Number] = &cp
	return nil
}

// Mutate applies delta under the non-negative floor, like the SQL
// conditional update.
func (m *MemoryAccounts) Mutate(_ context.Context, number string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[number]
	if !ok {
		return wallet.ErrAccountNotFound
	}
	if a.Balance+delta < 0 {
		return wallet.ErrInsufficientFunds
	}
	a.Balance += delta
	a.UpdatedAt = time.Now()
	return nil
}

// UpdateStatus implements repository.AccountRepository.
func (m *MemoryAccounts) UpdateStatus(_ context.Context, number string, status wallet.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[number]
	if !ok {
		return wallet.ErrAccountNotFound
	}
	a.Status = status
	return nil
}

// Delete implements repository.AccountRepository.
func (m *MemoryAccounts) Delete(_ context.Context, number string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, number)
	return nil
}

// MemoryTransactions is an in-memory TransactionRepository.
type MemoryTransactions struct {
	mu   sync.Mutex
	rows []*ledger.Transaction
}

// NewMemoryTransactions creates an empty ledger.
func NewMemoryTransactions() *MemoryTransactions {
	return &MemoryTransactions{}
}

// Create implements repository.TransactionRepository.
func (m *MemoryTransactions) Create(_ context.Context, tx *ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tx
	m.rows = append(m.rows, &cp)
	return nil
}

// ListByAccount implements repository.TransactionRepository.
func (m *MemoryTransactions) ListByAccount(_ context.Context, number string) ([]*ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ledger.Transaction
	for _, tx := range m.rows {
		if (tx.From != nil && *tx.From == number) || (tx.To != nil && *tx.To == number) {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

// SettleReference implements repository.TransactionRepository.
func (m *MemoryTransactions) SettleReference(_ context.Context, reference string, status ledger.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.rows {
		if tx.Reference == reference && tx.Status == ledger.StatusPending {
			tx.Status = status
		}
	}
	return nil
}

// ByReference returns all legs of a reference, for assertions.
func (m *MemoryTransactions) ByReference(reference string) []*ledger.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ledger.Transaction
	for _, tx := range m.rows {
		if tx.Reference == reference {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out
}

// MemoryFees is an in-memory FeeRepository.
type MemoryFees struct {
	mu   sync.Mutex
	rows []*ledger.Fee
}

// NewMemoryFees creates an empty fee store.
func NewMemoryFees() *MemoryFees {
	return &MemoryFees{}
}

// Create implements repository.FeeRepository.
func (m *MemoryFees) Create(_ context.Context, f *ledger.Fee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.rows = append(m.rows, &cp)
	return nil
}

// ListUndeposited implements repository.FeeRepository.
func (m *MemoryFees) ListUndeposited(_ context.Context) ([]*ledger.Fee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ledger.Fee
	for _, f := range m.rows {
		if !f.Deposited {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MarkDeposited implements repository.FeeRepository.
func (m *MemoryFees) MarkDeposited(_ context.Context, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for _, f := range m.rows {
		if wanted[f.ID] {
			f.Deposited = true
		}
	}
	return nil
}

// All returns every fee record, for assertions.
func (m *MemoryFees) All() []*ledger.Fee {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ledger.Fee, 0, len(m.rows))
	for _, f := range m.rows {
		cp := *f
		out = append(out, &cp)
	}
	return out
}

// MemoryInvoices is an in-memory InvoiceRepository.
type MemoryInvoices struct {
	mu   sync.Mutex
	rows map[string]*invoice.Invoice
}

// NewMemoryInvoices creates an empty invoice store.
func NewMemoryInvoices() *MemoryInvoices {
	return &MemoryInvoices{rows: make(map[string]*invoice.Invoice)}
}

// Create implements repository.InvoiceRepository.
func (m *MemoryInvoices) Create(_ context.Context, inv *invoice.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.rows[inv.Reference] = &cp
	return nil
}

// GetByReference implements repository.InvoiceRepository.
func (m *MemoryInvoices) GetByReference(_ context.Context, reference string) (*invoice.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.rows[reference]
	if !ok {
		return nil, invoice.ErrInvoiceNotFound
	}
	cp := *inv
	return &cp, nil
}

// ListByAccount implements repository.InvoiceRepository.
func (m *MemoryInvoices) ListByAccount(_ context.Context, number string) ([]*invoice.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*invoice.Invoice
	for _, inv := range m.rows {
		if inv.Issuer == number || inv.Recipient == number {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MarkPaid implements the conditional unpaid -> paid flip.
func (m *MemoryInvoices) MarkPaid(_ context.Context, reference string, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.rows[reference]
	if !ok {
		return false, invoice.ErrInvoiceNotFound
	}
	if inv.Status != invoice.StatusUnpaid {
		return false, nil
	}
	inv.Status = invoice.StatusPaid
	inv.PaidAt = &paidAt
	return true, nil
}

// MemoryWithdrawals is an in-memory WithdrawalRepository.
type MemoryWithdrawals struct {
	mu   sync.Mutex
	rows map[string]*escrow.Entry
}

// NewMemoryWithdrawals creates an empty pool.
func NewMemoryWithdrawals() *MemoryWithdrawals {
	return &MemoryWithdrawals{rows: make(map[string]*escrow.Entry)}
}

// Create implements repository.WithdrawalRepository.
func (m *MemoryWithdrawals) Create(_ context.Context, e *escrow.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.rows[e.Reference] = &cp
	return nil
}

// GetByReference implements repository.WithdrawalRepository.
func (m *MemoryWithdrawals) GetByReference(_ context.Context, reference string) (*escrow.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[reference]
	if !ok {
		return nil, escrow.ErrWithdrawalNotFound
	}
	cp := *e
	return &cp, nil
}

// List implements repository.WithdrawalRepository.
func (m *MemoryWithdrawals) List(_ context.Context) ([]*escrow.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*escrow.Entry, 0, len(m.rows))
	for _, e := range m.rows {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

// ListDue implements repository.WithdrawalRepository.
func (m *MemoryWithdrawals) ListDue(_ context.Context, now time.Time) ([]*escrow.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*escrow.Entry
	for _, e := range m.rows {
		if !now.Before(e.ExpiresAt) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Remove implements the atomic remove-if-present arbitration.
func (m *MemoryWithdrawals) Remove(_ context.Context, reference string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[reference]; !ok {
		return false, nil
	}
	delete(m.rows, reference)
	return true, nil
}

// MemoryCodes is an in-memory RedeemCodeRepository.
type MemoryCodes struct {
	mu   sync.Mutex
	rows map[string]*redeem.Code
}

// NewMemoryCodes creates an empty vault.
func NewMemoryCodes() *MemoryCodes {
	return &MemoryCodes{rows: make(map[string]*redeem.Code)}
}

// Create implements repository.RedeemCodeRepository.
func (m *MemoryCodes) Create(_ context.Context, c *redeem.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.rows[c.Code] = &cp
	return nil
}

// GetByCode implements repository.RedeemCodeRepository.
func (m *MemoryCodes) GetByCode(_ context.Context, code string) (*redeem.Code, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[code]
	if !ok {
		return nil, redeem.ErrCodeNotFound
	}
	cp := *c
	return &cp, nil
}

// MarkUsed implements the conditional used flip.
func (m *MemoryCodes) MarkUsed(_ context.Context, code, usedBy string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[code]
	if !ok {
		return false, redeem.ErrCodeNotFound
	}
	if c.Used {
		return false, nil
	}
	c.Used = true
	by := usedBy
	c.UsedBy = &by
	return true, nil
}

// CaptureBus records every published event for assertions.
type CaptureBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

// NewCaptureBus creates an empty capture bus.
func NewCaptureBus() *CaptureBus {
	return &CaptureBus{}
}

// Publish implements eventbus.EventBus.
func (b *CaptureBus) Publish(_ context.Context, event eventbus.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

// Subscribe implements eventbus.EventBus. Capture buses have no handlers.
func (b *CaptureBus) Subscribe(string, func(context.Context, eventbus.Event)) {}

// Events returns the captured events.
func (b *CaptureBus) Events() []eventbus.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]eventbus.Event, len(b.events))
	copy(out, b.events)
	return out
}
