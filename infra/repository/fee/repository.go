package fee

import (
	"context"

	"github.com/google/uuid"
	"github.com/townhub/wallet/pkg/domain/ledger"
	"github.com/townhub/wallet/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a postgres-backed fee repository.
func New(db *gorm.DB) repository.FeeRepository {
	return &repo{db: db}
}

// Create implements repository.FeeRepository.
func (r *repo) Create(ctx context.Context, f *ledger.Fee) error {
	model := Fee{
		ID:        f.ID,
		Kind:      string(f.Kind),
		Amount:    f.Amount,
		Percent:   f.Percent,
		Account:   f.Account,
		Reference: f.Reference,
		Deposited: f.Deposited,
		CreatedAt: f.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// ListUndeposited implements repository.FeeRepository.
func (r *repo) ListUndeposited(ctx context.Context) ([]*ledger.Fee, error) {
	var rows []Fee
	err := r.db.WithContext(ctx).
		Where("deposited = ?", false).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.Fee, 0, len(rows))
	for i := range rows {
		out = append(out, mapModelToDomain(&rows[i]))
	}
	return out, nil
}

// MarkDeposited implements repository.FeeRepository.
func (r *repo) MarkDeposited(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&Fee{}).
		Where("id IN ?", ids).
		Update("deposited", true).Error
}

func mapModelToDomain(f *Fee) *ledger.Fee {
	return &ledger.Fee{
		ID:        f.ID,
		Kind:      ledger.Kind(f.Kind),
		Amount:    f.Amount,
		Percent:   f.Percent,
		Account:   f.Account,
		Reference: f.Reference,
		Deposited: f.Deposited,
		CreatedAt: f.CreatedAt,
	}
}
