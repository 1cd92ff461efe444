package invoice

import "time"

// Invoice represents a billing document in the database.
type Invoice struct {
	Reference   string `gorm:"type:varchar(64);primary_key"`
	Issuer      string `gorm:"type:varchar(6);not null;index"`
	Recipient   string `gorm:"type:varchar(6);not null;index"`
	Amount      int64  `gorm:"not null"`
	Description string
	Status      string `gorm:"type:varchar(12);not null;default:'unpaid'"`
	CreatedAt   time.Time
	PaidAt      *time.Time
}

// TableName specifies the table name for the Invoice model.
func (Invoice) TableName() string {
	return "invoices"
}
