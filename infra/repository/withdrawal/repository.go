package withdrawal

import (
	"context"
	"errors"
	"time"

	"github.com/townhub/wallet/pkg/domain/escrow"
	"github.com/townhub/wallet/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a postgres-backed withdrawal pool repository.
func New(db *gorm.DB) repository.WithdrawalRepository {
	return &repo{db: db}
}

// Create implements repository.WithdrawalRepository.
func (r *repo) Create(ctx context.Context, e *escrow.Entry) error {
	model := Withdrawal{
		Reference: e.Reference,
		Account:   e.Account,
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// GetByReference implements repository.WithdrawalRepository.
func (r *repo) GetByReference(ctx context.Context, reference string) (*escrow.Entry, error) {
	var w Withdrawal
	if err := r.db.WithContext(ctx).First(&w, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, escrow.ErrWithdrawalNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&w), nil
}

// List implements repository.WithdrawalRepository.
func (r *repo) List(ctx context.Context) ([]*escrow.Entry, error) {
	var rows []Withdrawal
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToDomain(rows), nil
}

// ListDue implements repository.WithdrawalRepository.
func (r *repo) ListDue(ctx context.Context, now time.Time) ([]*escrow.Entry, error) {
	var rows []Withdrawal
	err := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Order("expires_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToDomain(rows), nil
}

// Remove deletes the entry if still present and reports whether this caller
// won the removal. A zero-row delete means a concurrent settle or expiry got
// there first.
func (r *repo) Remove(ctx context.Context, reference string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Withdrawal{}, "reference = ?", reference)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func mapModelsToDomain(rows []Withdrawal) []*escrow.Entry {
	out := make([]*escrow.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, mapModelToDomain(&rows[i]))
	}
	return out
}

func mapModelToDomain(w *Withdrawal) *escrow.Entry {
	return &escrow.Entry{
		Reference: w.Reference,
		Account:   w.Account,
		Amount:    w.Amount,
		CreatedAt: w.CreatedAt,
		ExpiresAt: w.ExpiresAt,
	}
}
