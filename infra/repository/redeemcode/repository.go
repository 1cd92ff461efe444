package redeemcode

import (
	"context"
	"errors"

	"github.com/townhub/wallet/pkg/domain/redeem"
	"github.com/townhub/wallet/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a postgres-backed redeem code repository.
func New(db *gorm.DB) repository.RedeemCodeRepository {
	return &repo{db: db}
}

// Create implements repository.RedeemCodeRepository.
func (r *repo) Create(ctx context.Context, c *redeem.Code) error {
	model := RedeemCode{
		Code:      c.Code,
		Pin:       c.Pin,
		Amount:    c.Amount,
		Used:      c.Used,
		UsedBy:    c.UsedBy,
		CreatedAt: c.CreatedAt,
		ExpiresAt: c.ExpiresAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// GetByCode implements repository.RedeemCodeRepository.
func (r *repo) GetByCode(ctx context.Context, code string) (*redeem.Code, error) {
	var c RedeemCode
	if err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, redeem.ErrCodeNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&c), nil
}

// MarkUsed flips used=false -> true as one conditional update, recording the
// redeemer. Exactly one caller observes true for a given code.
func (r *repo) MarkUsed(ctx context.Context, code, usedBy string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&RedeemCode{}).
		Where("code = ? AND used = ?", code, false).
		Updates(map[string]any{
			"used":    true,
			"used_by": usedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func mapModelToDomain(c *RedeemCode) *redeem.Code {
	return &redeem.Code{
		Code:      c.Code,
		Pin:       c.Pin,
		Amount:    c.Amount,
		Used:      c.Used,
		UsedBy:    c.UsedBy,
		CreatedAt: c.CreatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}
