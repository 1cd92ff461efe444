// Package withdrawal implements the escrow pool for cash withdrawals. Funds
// leave the account's spendable balance at request time and sit in a
// time-boxed pool entry until a finance operator settles the payout or the
// window elapses and the debit is reversed fee-free.
//
// Settlement and expiry are mutually exclusive by construction: both must
// win the atomic remove of the pool entry before touching balances, so
// exactly one of them proceeds and the other observes "already handled".
package withdrawal

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/domain/escrow"
	"github.com/townhub/wallet/pkg/domain/ledger"
	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/eventbus"
	"github.com/townhub/wallet/pkg/fees"
	"github.com/townhub/wallet/pkg/repository"
)

// Deps bundles the collaborators a withdrawal Service needs.
type Deps struct {
	Accounts     repository.AccountRepository
	Withdrawals  repository.WithdrawalRepository
	Transactions repository.TransactionRepository
	Fees         repository.FeeRepository
	Settings     config.Provider
	Bus          eventbus.EventBus
	Logger       *slog.Logger
	Now          func() time.Time
}

// Service manages the withdrawal pool.
type Service struct {
	accounts repository.AccountRepository
	pool     repository.WithdrawalRepository
	txs      repository.TransactionRepository
	feeRepo  repository.FeeRepository
	settings config.Provider
	bus      eventbus.EventBus
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a withdrawal Service with the provided dependencies.
func NewService(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		accounts: deps.Accounts,
		pool:     deps.Withdrawals,
		txs:      deps.Transactions,
		feeRepo:  deps.Fees,
		settings: deps.Settings,
		bus:      deps.Bus,
		logger:   deps.Logger,
		now:      deps.Now,
	}
}

// Request moves amount out of the account's spendable balance into the pool.
// No fee is charged at this stage; the fee falls due only if the payout is
// settled within the window. Returns the reference of the pending leg.
func (s *Service) Request(ctx context.Context, accountID string, amount int64) (string, error) {
	logger := s.logger.With("account", accountID, "amount", amount)
	if amount <= 0 {
		return "", wallet.ErrAmountNotPositive
	}
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return "", err
	}
	if !account.Active() {
		return "", wallet.ErrSenderNotActive
	}

	// The conditional debit rejects the request when the balance is short.
	if err := s.accounts.Mutate(ctx, accountID, -amount); err != nil {
		return "", err
	}

	now := s.now()
	settings := s.settings.Current()
	reference := ledger.NewReference()
	entry := &escrow.Entry{
		Reference: reference,
		Account:   accountID,
		Amount:    amount,
		CreatedAt: now,
		ExpiresAt: now.Add(settings.WithdrawalWindow),
	}
	if err := s.pool.Create(ctx, entry); err != nil {
		return "", err
	}
	from := accountID
	if err := s.txs.Create(ctx, &ledger.Transaction{
		ID:        uuid.New(),
		Kind:      ledger.KindCashPayout,
		Amount:    amount,
		From:      &from,
		Reference: reference,
		Status:    ledger.StatusPending,
		CreatedAt: now,
	}); err != nil {
		return "", err
	}
	logger.Info("withdrawal requested", "reference", reference, "expires_at", entry.ExpiresAt)
	return reference, nil
}

// ProcessPayout settles the pending withdrawal identified by reference. The
// actor must carry the finance role and must not be settling their own
// withdrawal. An entry whose window has elapsed is force-expired instead and
// the call fails with ErrWithdrawalExpired; a processor can never settle an
// expired entry.
//
// On success the withdrawal fee is computed on the original pooled amount
// with the currently configured percentage and the owner's exemption flag,
// recorded unswept, and the processor is credited amount minus fee for the
// cash they paid out.
func (s *Service) ProcessPayout(ctx context.Context, actor wallet.Actor, reference string) error {
	logger := s.logger.With("processor", actor.AccountNumber, "reference", reference)
	if !actor.HasRole(wallet.RoleFinance) && !actor.HasRole(wallet.RoleAdmin) {
		return wallet.ErrNotAuthorized
	}
	entry, err := s.pool.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	if actor.AccountNumber == entry.Account {
		return escrow.ErrSelfPayout
	}
	now := s.now()
	if entry.Expired(now) {
		if err := s.expire(ctx, entry); err != nil {
			return err
		}
		return escrow.ErrWithdrawalExpired
	}

	owner, err := s.accounts.Get(ctx, entry.Account)
	if err != nil {
		return err
	}
	settings := s.settings.Current()
	fee := fees.Fee(entry.Amount, settings.Percents.Withdrawal, owner.FeeExempt)

	// Winning the removal decides the race against a concurrent expiry.
	removed, err := s.pool.Remove(ctx, reference)
	if err != nil {
		return err
	}
	if !removed {
		return escrow.ErrAlreadyProcessed
	}

	if fee > 0 {
		if err := s.feeRepo.Create(ctx, &ledger.Fee{
			ID:        uuid.New(),
			Kind:      ledger.KindCashPayout,
			Amount:    fee,
			Percent:   settings.Percents.Withdrawal,
			Account:   entry.Account,
			Reference: reference,
			CreatedAt: now,
		}); err != nil {
			return err
		}
	}
	if err := s.accounts.Mutate(ctx, actor.AccountNumber, entry.Amount-fee); err != nil {
		return err
	}
	to := actor.AccountNumber
	from := entry.Account
	if err := s.txs.Create(ctx, &ledger.Transaction{
		ID:        uuid.New(),
		Kind:      ledger.KindCashPayout,
		Amount:    entry.Amount - fee,
		FeeAmount: fee,
		From:      &from,
		To:        &to,
		Reference: reference,
		Status:    ledger.StatusSuccess,
		CreatedAt: now,
	}); err != nil {
		return err
	}
	if err := s.txs.SettleReference(ctx, reference, ledger.StatusSuccess); err != nil {
		return err
	}

	if err := s.bus.Publish(ctx, wallet.PayoutProcessedEvent{
		EventID:   uuid.New(),
		Reference: reference,
		Account:   entry.Account,
		Processor: actor.AccountNumber,
		Amount:    entry.Amount,
		Fee:       fee,
		Timestamp: now,
	}); err != nil {
		logger.Warn("payout event publish failed", "error", err)
	}
	logger.Info("payout processed", "amount", entry.Amount, "fee", fee)
	return nil
}

// ExpireDue reverses every pool entry whose window has elapsed. It may be
// driven by an external periodic trigger or called lazily; both paths share
// the same idempotent per-entry expiry.
func (s *Service) ExpireDue(ctx context.Context) error {
	due, err := s.pool.ListDue(ctx, s.now())
	if err != nil {
		return err
	}
	for _, entry := range due {
		if err := s.expire(ctx, entry); err != nil {
			s.logger.Error("expiry failed", "reference", entry.Reference, "error", err)
		}
	}
	return nil
}

// List returns the live pool entries for administrative review.
func (s *Service) List(ctx context.Context) ([]*escrow.Entry, error) {
	return s.pool.List(ctx)
}

// expire reverses a single entry: the full original amount is credited back
// with zero fee and the withdrawal's pending leg is marked failed. Losing
// the removal race means the entry was already handled; that is a no-op, not
// an error.
func (s *Service) expire(ctx context.Context, entry *escrow.Entry) error {
	removed, err := s.pool.Remove(ctx, entry.Reference)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}
	if err := s.accounts.Mutate(ctx, entry.Account, entry.Amount); err != nil {
		return err
	}
	if err := s.txs.SettleReference(ctx, entry.Reference, ledger.StatusFailed); err != nil {
		return err
	}
	s.logger.Info("withdrawal expired", "reference", entry.Reference, "account", entry.Account, "amount", entry.Amount)
	return nil
}
