package transaction

import (
	"context"

	"github.com/townhub/wallet/pkg/domain/ledger"
	"github.com/townhub/wallet/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a postgres-backed transaction repository.
func New(db *gorm.DB) repository.TransactionRepository {
	return &repo{db: db}
}

// Create implements repository.TransactionRepository.
func (r *repo) Create(ctx context.Context, tx *ledger.Transaction) error {
	model := Transaction{
		ID:        tx.ID,
		Kind:      string(tx.Kind),
		Amount:    tx.Amount,
		FeeAmount: tx.FeeAmount,
		From:      tx.From,
		To:        tx.To,
		Reference: tx.Reference,
		Status:    string(tx.Status),
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// ListByAccount implements repository.TransactionRepository.
func (r *repo) ListByAccount(ctx context.Context, number string) ([]*ledger.Transaction, error) {
	var rows []Transaction
	err := r.db.WithContext(ctx).
		Where("from_account = ? OR to_account = ?", number, number).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, mapModelToDomain(&rows[i]))
	}
	return out, nil
}

// SettleReference flips the pending legs of a reference to the terminal
// status. The status guard keeps settled legs immutable.
func (r *repo) SettleReference(ctx context.Context, reference string, status ledger.Status) error {
	return r.db.WithContext(ctx).Model(&Transaction{}).
		Where("reference = ? AND status = ?", reference, string(ledger.StatusPending)).
		Update("status", string(status)).Error
}

func mapModelToDomain(tx *Transaction) *ledger.Transaction {
	return &ledger.Transaction{
		ID:        tx.ID,
		Kind:      ledger.Kind(tx.Kind),
		Amount:    tx.Amount,
		FeeAmount: tx.FeeAmount,
		From:      tx.From,
		To:        tx.To,
		Reference: tx.Reference,
		Status:    ledger.Status(tx.Status),
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt,
	}
}
