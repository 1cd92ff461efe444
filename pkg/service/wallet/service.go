// Package wallet provides account lifecycle management and the
// administrative operations around the ledger: opening accounts on approval,
// status transitions, balance and transaction review, and sweeping collected
// fees into the platform balance.
package wallet

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/domain/ledger"
	domainwallet "github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/repository"
)

// Deps bundles the collaborators a wallet Service needs.
type Deps struct {
	Accounts     repository.AccountRepository
	Transactions repository.TransactionRepository
	Fees         repository.FeeRepository
	Settings     config.Provider
	Logger       *slog.Logger
	Now          func() time.Time
}

// Service manages accounts and administrative ledger operations.
type Service struct {
	accounts repository.AccountRepository
	txs      repository.TransactionRepository
	feeRepo  repository.FeeRepository
	settings config.Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a wallet Service with the provided dependencies.
func NewService(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		accounts: deps.Accounts,
		txs:      deps.Transactions,
		feeRepo:  deps.Fees,
		settings: deps.Settings,
		logger:   deps.Logger,
		now:      deps.Now,
	}
}

// Open creates a zero-balance active account for an approved member. The
// generated number is retried on the rare collision with an existing one.
func (s *Service) Open(ctx context.Context, ownerID uuid.UUID) (*domainwallet.Account, error) {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		account, err := domainwallet.New().WithOwnerID(ownerID).Build()
		if err != nil {
			return nil, err
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			lastErr = err
			continue
		}
		s.logger.Info("account opened", "number", account.Number, "owner", ownerID)
		return account, nil
	}
	return nil, lastErr
}

// GetBalance returns the current balance of the account in minor units.
func (s *Service) GetBalance(ctx context.Context, number string) (int64, error) {
	account, err := s.accounts.Get(ctx, number)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// Get returns the full account record.
func (s *Service) Get(ctx context.Context, number string) (*domainwallet.Account, error) {
	return s.accounts.Get(ctx, number)
}

// ListTransactions returns the ledger legs involving the account.
func (s *Service) ListTransactions(ctx context.Context, number string) ([]*ledger.Transaction, error) {
	return s.txs.ListByAccount(ctx, number)
}

// Suspend freezes the account. Admin only.
func (s *Service) Suspend(ctx context.Context, actor domainwallet.Actor, number string) error {
	return s.setStatus(ctx, actor, number, domainwallet.StatusSuspended)
}

// Activate unfreezes a suspended account. Admin only.
func (s *Service) Activate(ctx context.Context, actor domainwallet.Actor, number string) error {
	return s.setStatus(ctx, actor, number, domainwallet.StatusActive)
}

// Terminate closes the account for good. Admin only; refused while the
// balance exceeds the configured close threshold.
func (s *Service) Terminate(ctx context.Context, actor domainwallet.Actor, number string) error {
	if !actor.HasRole(domainwallet.RoleAdmin) {
		return domainwallet.ErrNotAuthorized
	}
	account, err := s.accounts.Get(ctx, number)
	if err != nil {
		return err
	}
	if account.Balance > s.settings.Current().CloseThreshold {
		return domainwallet.ErrBalanceAboveCloseLimit
	}
	if err := s.accounts.UpdateStatus(ctx, number, domainwallet.StatusTerminated); err != nil {
		return err
	}
	s.logger.Info("account terminated", "number", number, "by", actor.AccountNumber)
	return nil
}

// SweepFees deposits every fee not yet swept into the platform account,
// flipping the deposited flag on each record and writing a fee_sweep leg for
// the total. Finance or admin only.
func (s *Service) SweepFees(ctx context.Context, actor domainwallet.Actor) (int64, error) {
	if !actor.HasRole(domainwallet.RoleFinance) && !actor.HasRole(domainwallet.RoleAdmin) {
		return 0, domainwallet.ErrNotAuthorized
	}
	pending, err := s.feeRepo.ListUndeposited(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	var total int64
	ids := make([]uuid.UUID, 0, len(pending))
	for _, f := range pending {
		total += f.Amount
		ids = append(ids, f.ID)
	}

	platform := s.settings.Current().PlatformAccount
	if err := s.accounts.Mutate(ctx, platform, total); err != nil {
		return 0, err
	}
	if err := s.feeRepo.MarkDeposited(ctx, ids); err != nil {
		return 0, err
	}
	to := platform
	if err := s.txs.Create(ctx, &ledger.Transaction{
		ID:        uuid.New(),
		Kind:      ledger.KindFeeSweep,
		Amount:    total,
		To:        &to,
		Reference: ledger.NewReference(),
		Status:    ledger.StatusSuccess,
		CreatedAt: s.now(),
	}); err != nil {
		return 0, err
	}
	s.logger.Info("fees swept", "total", total, "records", len(ids), "by", actor.AccountNumber)
	return total, nil
}

func (s *Service) setStatus(ctx context.Context, actor domainwallet.Actor, number string, status domainwallet.Status) error {
	if !actor.HasRole(domainwallet.RoleAdmin) {
		return domainwallet.ErrNotAuthorized
	}
	if _, err := s.accounts.Get(ctx, number); err != nil {
		return err
	}
	if err := s.accounts.UpdateStatus(ctx, number, status); err != nil {
		return err
	}
	s.logger.Info("account status changed", "number", number, "status", status, "by", actor.AccountNumber)
	return nil
}
