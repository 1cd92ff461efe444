// Package transfer implements peer-to-peer sends between wallet accounts and
// the shared debit/credit/fee movement that invoice settlement reuses.
//
// A transfer never holds a lock across its two balance mutations. The debit
// and the credit are independent atomic conditional updates; the ledger legs
// written under the shared reference are the durable recovery anchor if the
// process dies between them.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/domain/ledger"
	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/eventbus"
	"github.com/townhub/wallet/pkg/fees"
	"github.com/townhub/wallet/pkg/repository"
)

// Deps bundles the collaborators a transfer Service needs.
type Deps struct {
	Accounts     repository.AccountRepository
	Transactions repository.TransactionRepository
	Fees         repository.FeeRepository
	Settings     config.Provider
	Bus          eventbus.EventBus
	Logger       *slog.Logger
	Now          func() time.Time
}

// Service orchestrates peer-to-peer sends.
type Service struct {
	accounts repository.AccountRepository
	txs      repository.TransactionRepository
	feeRepo  repository.FeeRepository
	settings config.Provider
	bus      eventbus.EventBus
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a transfer Service with the provided dependencies.
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
		bus:      deps.Bus,
		logger:   deps.Logger,
		now:      deps.Now,
	}
}

// Transfer sends amount minor units from sender to recipient, charging the
// platform's P2P fee on top unless the sender is fee-exempt. Preconditions
// are checked in a fixed order, each with a distinct failure; no mutation
// happens before all of them pass. Returns the shared reference of the
// ledger legs written for the operation.
func (s *Service) Transfer(ctx context.Context, senderID, recipientID string, amount int64, note string) (string, error) {
	logger := s.logger.With("sender", senderID, "recipient", recipientID, "amount", amount)
	if amount <= 0 {
		return "", wallet.ErrAmountNotPositive
	}
	if !wallet.ValidNumber(recipientID) {
		return "", wallet.ErrRecipientNotFound
	}
	recipient, err := s.accounts.Get(ctx, recipientID)
	if err != nil {
		if errors.Is(err, wallet.ErrAccountNotFound) {
			return "", wallet.ErrRecipientNotFound
		}
		return "", err
	}
	if senderID == recipientID {
		return "", wallet.ErrSelfTransfer
	}
	sender, err := s.accounts.Get(ctx, senderID)
	if err != nil {
		return "", err
	}
	if !sender.Active() {
		return "", wallet.ErrSenderNotActive
	}
	if !recipient.Active() {
		return "", wallet.ErrRecipientNotActive
	}

	settings := s.settings.Current()
	fee := fees.Fee(amount, settings.Percents.P2P, sender.FeeExempt)

	// The recipient could have been suspended between validation and the
	// mutating step; re-verify right before money moves.
	recipient, err = s.accounts.Get(ctx, recipientID)
	if err != nil {
		if errors.Is(err, wallet.ErrAccountNotFound) {
			return "", wallet.ErrRecipientNotFound
		}
		return "", err
	}
	if !recipient.Active() {
		return "", wallet.ErrRecipientNotActive
	}

	reference := ledger.NewReference()
	mv := Movement{
		Reference:  reference,
		DebitKind:  ledger.KindSend,
		CreditKind: ledger.KindReceive,
		FeeKind:    ledger.KindSend,
		From:       senderID,
		To:         recipientID,
		Amount:     amount,
		Fee:        fee,
		FeePercent: settings.Percents.P2P,
		Note:       note,
	}
	if err := s.Move(ctx, mv); err != nil {
		logger.Error("transfer failed", "error", err)
		return "", err
	}

	if err := s.bus.Publish(ctx, wallet.TransferCompletedEvent{
		EventID:   uuid.New(),
		Reference: reference,
		Sender:    senderID,
		Recipient: recipientID,
		Amount:    amount,
		Fee:       fee,
		Timestamp: s.now(),
	}); err != nil {
		logger.Warn("transfer event publish failed", "error", err)
	}
	logger.Info("transfer completed", "reference", reference, "fee", fee)
	return reference, nil
}

// Movement describes one debit/credit/fee settlement between two accounts.
type Movement struct {
	Reference  string
	DebitKind  ledger.Kind
	CreditKind ledger.Kind
	// FeeKind tags the fee record with the originating operation.
	FeeKind    ledger.Kind
	From       string
	To         string
	Amount     int64
	Fee        int64
	FeePercent float64
	Note       string
}

// Move performs the debit/credit/fee pattern shared by transfers and invoice
// payments: debit From by Amount+Fee, credit To by Amount, write one leg per
// movement under the shared reference and record the fee when one was
// charged. The debit is the conditional update that guarantees the sender
// balance never goes negative; a failed credit is compensated by refunding
// the debit.
func (s *Service) Move(ctx context.Context, m Movement) error {
	if err := s.accounts.Mutate(ctx, m.From, -(m.Amount + m.Fee)); err != nil {
		return err
	}
	if err := s.accounts.Mutate(ctx, m.To, m.Amount); err != nil {
		if rbErr := s.accounts.Mutate(ctx, m.From, m.Amount+m.Fee); rbErr != nil {
			// Money is now in flight: the debit is visible with no credit and
			// no refund. Surface both errors; the missing legs make the
			// reference auditable for recovery.
			return fmt.Errorf("credit failed: %w (refund also failed: %v)", err, rbErr)
		}
		return err
	}

	now := s.now()
	from, to := m.From, m.To
	legs := []*ledger.Transaction{
		{
			ID:        uuid.New(),
			Kind:      m.DebitKind,
			Amount:    m.Amount,
			FeeAmount: m.Fee,
			From:      &from,
			To:        &to,
			Reference: m.Reference,
			Status:    ledger.StatusSuccess,
			Note:      m.Note,
			CreatedAt: now,
		},
		{
			ID:        uuid.New(),
			Kind:      m.CreditKind,
			Amount:    m.Amount,
			From:      &from,
			To:        &to,
			Reference: m.Reference,
			Status:    ledger.StatusSuccess,
			Note:      m.Note,
			CreatedAt: now,
		},
	}
	if m.Fee > 0 {
		legs = append(legs, &ledger.Transaction{
			ID:        uuid.New(),
			Kind:      ledger.KindFee,
			Amount:    m.Fee,
			From:      &from,
			Reference: m.Reference,
			Status:    ledger.StatusSuccess,
			CreatedAt: now,
		})
	}
	for _, leg := range legs {
		if err := s.txs.Create(ctx, leg); err != nil {
			return err
		}
	}
	if m.Fee > 0 {
		if err := s.feeRepo.Create(ctx, &ledger.Fee{
			ID:        uuid.New(),
			Kind:      m.FeeKind,
			Amount:    m.Fee,
			Percent:   m.FeePercent,
			Account:   m.From,
			Reference: m.Reference,
			CreatedAt: now,
		}); err != nil {
			return err
		}
	}
	return nil
}
