package account

import (
	"context"
	"errors"
	"time"

	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a postgres-backed account repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.AccountRepository {
	return &repo{db: db}
}

// Get implements repository.AccountRepository.
func (r *repo) Get(ctx context.Context, number string) (*wallet.Account, error) {
	var acct Account
	if err := r.db.WithContext(ctx).First(&acct, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wallet.ErrAccountNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&acct), nil
}

// Create implements repository.AccountRepository.
func (r *repo) Create(ctx context.Context, a *wallet.Account) error {
	model := Account{
		Number:    a.Number,
		OwnerID:   a.OwnerID,
		Balance:   a.Balance,
		Status:    string(a.Status),
		FeeExempt: a.FeeExempt,
		CreatedAt: a.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// Mutate applies delta as one conditional UPDATE. The WHERE clause carries
// the non-negative floor, so a racing debit can match zero rows but can
// never produce a negative balance.
func (r *repo) Mutate(ctx context.Context, number string, delta int64) error {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("number = ? AND balance + ? >= 0", number, delta).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&Account{}).
			Where("number = ?", number).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return wallet.ErrAccountNotFound
		}
		return wallet.ErrInsufficientFunds
	}
	return nil
}

// UpdateStatus implements repository.AccountRepository.
func (r *repo) UpdateStatus(ctx context.Context, number string, status wallet.Status) error {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("number = ?", number).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wallet.ErrAccountNotFound
	}
	return nil
}

// Delete implements repository.AccountRepository.
func (r *repo) Delete(ctx context.Context, number string) error {
	return r.db.WithContext(ctx).Delete(&Account{}, "number = ?", number).Error
}

func mapModelToDomain(acct *Account) *wallet.Account {
	return &wallet.Account{
		Number:    acct.Number,
		OwnerID:   acct.OwnerID,
		Balance:   acct.Balance,
		Status:    wallet.Status(acct.Status),
		FeeExempt: acct.FeeExempt,
		CreatedAt: acct.CreatedAt,
		UpdatedAt: acct.UpdatedAt,
	}
}
