// Package redeem implements the vault of one-time-use deposit instruments.
// The conditional used flip happens before the credit: a redeemer losing the
// flip race gets nothing, so a code can never credit a balance twice.
package redeem

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/domain/ledger"
	domainredeem "github.com/townhub/wallet/pkg/domain/redeem"
	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/eventbus"
	"github.com/townhub/wallet/pkg/repository"
)

// Deps bundles the collaborators a redeem Service needs.
type Deps struct {
	Accounts     repository.AccountRepository
	Codes        repository.RedeemCodeRepository
	Transactions repository.TransactionRepository
	Settings     config.Provider
	Bus          eventbus.EventBus
	Logger       *slog.Logger
	Now          func() time.Time
}

// Service manages issuing and redeeming deposit codes.
type Service struct {
	accounts repository.AccountRepository
	codes    repository.RedeemCodeRepository
	txs      repository.TransactionRepository
	settings config.Provider
	bus      eventbus.EventBus
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a redeem Service with the provided dependencies.
func NewService(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		accounts: deps.Accounts,
		codes:    deps.Codes,
		txs:      deps.Transactions,
		settings: deps.Settings,
		bus:      deps.Bus,
		logger:   deps.Logger,
		now:      deps.Now,
	}
}

// Issue mints a new code and PIN worth amount minor units. Admin only.
func (s *Service) Issue(ctx context.Context, actor wallet.Actor, amount int64, ttl time.Duration) (*domainredeem.Code, error) {
	if !actor.HasRole(wallet.RoleAdmin) {
		return nil, wallet.ErrNotAuthorized
	}
	if amount <= 0 {
		return nil, wallet.ErrAmountNotPositive
	}
	if ttl <= 0 {
		ttl = s.settings.Current().RedeemCodeTTL
	}
	now := s.now()
	code := &domainredeem.Code{
		Code:      domainredeem.NewCode(),
		Pin:       domainredeem.NewPin(),
		Amount:    amount,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, err
	}
	s.logger.Info("redeem code issued", "amount", amount, "expires_at", code.ExpiresAt)
	return code, nil
}

// Redeem credits the code's amount to the account after verifying the PIN.
// Fails with distinct errors for an unknown code, a wrong PIN, a used code
// and an expired code, in that order. The used flip is conditional; losing
// the race means no credit occurs.
func (s *Service) Redeem(ctx context.Context, accountID, code, pin string) (int64, error) {
	logger := s.logger.With("account", accountID)
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return 0, err
	}
	instrument, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if instrument.Pin != pin {
		return 0, domainredeem.ErrInvalidPin
	}
	if instrument.Used {
		return 0, domainredeem.ErrCodeAlreadyUsed
	}
	now := s.now()
	if instrument.Expired(now) {
		return 0, domainredeem.ErrCodeExpired
	}

	flipped, err := s.codes.MarkUsed(ctx, code, accountID)
	if err != nil {
		return 0, err
	}
	if !flipped {
		return 0, domainredeem.ErrCodeAlreadyUsed
	}

	if err := s.accounts.Mutate(ctx, account.Number, instrument.Amount); err != nil {
		return 0, err
	}
	to := account.Number
	if err := s.txs.Create(ctx, &ledger.Transaction{
		ID:        uuid.New(),
		Kind:      ledger.KindDeposit,
		Amount:    instrument.Amount,
		To:        &to,
		Reference: ledger.NewReference(),
		Status:    ledger.StatusSuccess,
		CreatedAt: now,
	}); err != nil {
		return 0, err
	}

	if err := s.bus.Publish(ctx, wallet.CodeRedeemedEvent{
		EventID:   uuid.New(),
		Account:   account.Number,
		Amount:    instrument.Amount,
		Timestamp: now,
	}); err != nil {
		logger.Warn("redeem event publish failed", "error", err)
	}
	logger.Info("redeem code used", "amount", instrument.Amount)
	return instrument.Amount, nil
}
