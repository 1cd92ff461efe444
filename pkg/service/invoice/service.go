// Package invoice implements the create/pay lifecycle of billing documents.
// Settlement follows the transfer engine's debit/credit/fee pattern; the
// conditional unpaid -> paid flip decides concurrent payment attempts.
package invoice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/townhub/wallet/pkg/config"
	domaininvoice "github.com/townhub/wallet/pkg/domain/invoice"
	"github.com/townhub/wallet/pkg/domain/ledger"
	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/eventbus"
	"github.com/townhub/wallet/pkg/fees"
	"github.com/townhub/wallet/pkg/repository"
)

// Deps bundles the collaborators an invoice Service needs.
type Deps struct {
	Accounts     repository.AccountRepository
	Invoices     repository.InvoiceRepository
	Transactions repository.TransactionRepository
	Fees         repository.FeeRepository
	Settings     config.Provider
	Bus          eventbus.EventBus
	Logger       *slog.Logger
	Now          func() time.Time
}

// Service manages invoice creation and settlement.
type Service struct {
	accounts repository.AccountRepository
	invoices repository.InvoiceRepository
	txs      repository.TransactionRepository
	feeRepo  repository.FeeRepository
	settings config.Provider
	bus      eventbus.EventBus
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an invoice Service with the provided dependencies.
func NewService(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		accounts: deps.Accounts,
		invoices: deps.Invoices,
		txs:      deps.Transactions,
		feeRepo:  deps.Fees,
		settings: deps.Settings,
		bus:      deps.Bus,
		logger:   deps.Logger,
		now:      deps.Now,
	}
}

// Create issues an unpaid invoice from issuer to recipient and returns its
// reference. No money moves at creation time.
func (s *Service) Create(ctx context.Context, issuerID, recipientID string, amount int64, description string) (string, error) {
	if amount <= 0 {
		return "", wallet.ErrAmountNotPositive
	}
	if !wallet.ValidNumber(recipientID) {
		return "", wallet.ErrRecipientNotFound
	}
	if issuerID == recipientID {
		return "", domaininvoice.ErrSelfInvoice
	}
	recipient, err := s.accounts.Get(ctx, recipientID)
	if err != nil {
		if errors.Is(err, wallet.ErrAccountNotFound) {
			return "", wallet.ErrRecipientNotFound
		}
		return "", err
	}
	if !recipient.Active() {
		return "", wallet.ErrRecipientNotActive
	}

	inv := &domaininvoice.Invoice{
		Reference:   ledger.NewReference(),
		Issuer:      issuerID,
		Recipient:   recipientID,
		Amount:      amount,
		Description: description,
		Status:      domaininvoice.StatusUnpaid,
		CreatedAt:   s.now(),
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return "", err
	}
	s.logger.Info("invoice created", "reference", inv.Reference, "issuer", issuerID, "recipient", recipientID, "amount", amount)
	return inv.Reference, nil
}

// Pay settles the invoice identified by reference. Only the designated
// recipient may pay, and only while the invoice is unpaid. The payer is
// debited amount plus the invoice fee (zero if the payer is fee-exempt), the
// issuer is credited the amount, and the paid timestamp is recorded.
//
// The payer is debited before the conditional status flip; a payer losing
// the flip race is refunded in full and told the invoice was already paid,
// so the issuer can never be credited twice.
func (s *Service) Pay(ctx context.Context, reference, payerID string) error {
	logger := s.logger.With("reference", reference, "payer", payerID)
	inv, err := s.invoices.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	if inv.Recipient != payerID {
		return domaininvoice.ErrNotInvoiceRecipient
	}
	if !inv.Unpaid() {
		return domaininvoice.ErrInvoiceAlreadyPaid
	}
	payer, err := s.accounts.Get(ctx, payerID)
	if err != nil {
		return err
	}
	if !payer.Active() {
		return wallet.ErrSenderNotActive
	}

	settings := s.settings.Current()
	fee := fees.Fee(inv.Amount, settings.Percents.Invoice, payer.FeeExempt)

	if err := s.accounts.Mutate(ctx, payerID, -(inv.Amount + fee)); err != nil {
		return err
	}

	paidAt := s.now()
	flipped, err := s.invoices.MarkPaid(ctx, reference, paidAt)
	if err != nil || !flipped {
		// Lost the race (or the flip failed outright): give the money back.
		if rbErr := s.accounts.Mutate(ctx, payerID, inv.Amount+fee); rbErr != nil {
			logger.Error("refund after lost pay race failed", "error", rbErr)
		}
		if err != nil {
			return err
		}
		return domaininvoice.ErrInvoiceAlreadyPaid
	}

	if err := s.accounts.Mutate(ctx, inv.Issuer, inv.Amount); err != nil {
		logger.Error("issuer credit failed after debit", "error", err)
		return err
	}

	payerRef, issuerRef := payerID, inv.Issuer
	legs := []*ledger.Transaction{
		{
			ID:        uuid.New(),
			Kind:      ledger.KindInvoicePayment,
			Amount:    inv.Amount,
			FeeAmount: fee,
			From:      &payerRef,
			To:        &issuerRef,
			Reference: reference,
			Status:    ledger.StatusSuccess,
			Note:      inv.Description,
			CreatedAt: paidAt,
		},
		{
			ID:        uuid.New(),
			Kind:      ledger.KindReceive,
			Amount:    inv.Amount,
			From:      &payerRef,
			To:        &issuerRef,
			Reference: reference,
			Status:    ledger.StatusSuccess,
			Note:      inv.Description,
			CreatedAt: paidAt,
		},
	}
	if fee > 0 {
		legs = append(legs, &ledger.Transaction{
			ID:        uuid.New(),
			Kind:      ledger.KindFee,
			Amount:    fee,
			From:      &payerRef,
			Reference: reference,
			Status:    ledger.StatusSuccess,
			CreatedAt: paidAt,
		})
	}
	for _, leg := range legs {
		if err := s.txs.Create(ctx, leg); err != nil {
			return err
		}
	}
	if fee > 0 {
		if err := s.feeRepo.Create(ctx, &ledger.Fee{
			ID:        uuid.New(),
			Kind:      ledger.KindInvoicePayment,
			Amount:    fee,
			Percent:   settings.Percents.Invoice,
			Account:   payerID,
			Reference: reference,
			CreatedAt: paidAt,
		}); err != nil {
			return err
		}
	}

	if err := s.bus.Publish(ctx, wallet.InvoicePaidEvent{
		EventID:   uuid.New(),
		Reference: reference,
		Issuer:    inv.Issuer,
		Payer:     payerID,
		Amount:    inv.Amount,
		Fee:       fee,
		Timestamp: paidAt,
	}); err != nil {
		logger.Warn("invoice event publish failed", "error", err)
	}
	logger.Info("invoice paid", "amount", inv.Amount, "fee", fee)
	return nil
}

// Get returns the invoice for the given reference.
func (s *Service) Get(ctx context.Context, reference string) (*domaininvoice.Invoice, error) {
	return s.invoices.GetByReference(ctx, reference)
}

// ListByAccount returns invoices issued by or billed to the account.
func (s *Service) ListByAccount(ctx context.Context, number string) ([]*domaininvoice.Invoice, error) {
	return s.invoices.ListByAccount(ctx, number)
}
