package invoice

import (
	"context"
	"errors"
	"time"

	domain "github.com/townhub/wallet/pkg/domain/invoice"
	"github.com/townhub/wallet/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a postgres-backed invoice repository.
func New(db *gorm.DB) repository.InvoiceRepository {
	return &repo{db: db}
}

// Create implements repository.InvoiceRepository.
func (r *repo) Create(ctx context.Context, inv *domain.Invoice) error {
	model := Invoice{
		Reference:   inv.Reference,
		Issuer:      inv.Issuer,
		Recipient:   inv.Recipient,
		Amount:      inv.Amount,
		Description: inv.Description,
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt,
		PaidAt:      inv.PaidAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// GetByReference implements repository.InvoiceRepository.
func (r *repo) GetByReference(ctx context.Context, reference string) (*domain.Invoice, error) {
	var inv Invoice
	if err := r.db.WithContext(ctx).First(&inv, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&inv), nil
}

// ListByAccount implements repository.InvoiceRepository.
func (r *repo) ListByAccount(ctx context.Context, number string) ([]*domain.Invoice, error) {
	var rows []Invoice
	err := r.db.WithContext(ctx).
		Where("issuer = ? OR recipient = ?", number, number).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Invoice, 0, len(rows))
	for i := range rows {
		out = append(out, mapModelToDomain(&rows[i]))
	}
	return out, nil
}

// MarkPaid flips unpaid -> paid as one conditional update. The status guard
// means exactly one caller observes true for a given invoice.
func (r *repo) MarkPaid(ctx context.Context, reference string, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Invoice{}).
		Where("reference = ? AND status = ?", reference, string(domain.StatusUnpaid)).
		Updates(map[string]any{
			"status":  string(domain.StatusPaid),
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func mapModelToDomain(inv *Invoice) *domain.Invoice {
	return &domain.Invoice{
		Reference:   inv.Reference,
		Issuer:      inv.Issuer,
		Recipient:   inv.Recipient,
		Amount:      inv.Amount,
		Description: inv.Description,
		Status:      domain.Status(inv.Status),
		CreatedAt:   inv.CreatedAt,
		PaidAt:      inv.PaidAt,
	}
}
