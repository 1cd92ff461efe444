package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction represents a ledger leg in the database.
type Transaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind      string    `gorm:"type:varchar(24);not null"`
	Amount    int64     `gorm:"not null"`
	FeeAmount int64     `gorm:"not null;default:0"`
	From      *string   `gorm:"column:from_account;type:varchar(6);index"`
	To        *string   `gorm:"column:to_account;type:varchar(6);index"`
	Reference string    `gorm:"type:varchar(64);not null;index"`
	Status    string    `gorm:"type:varchar(12);not null;default:'pending'"`
	Note      string
	CreatedAt time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
