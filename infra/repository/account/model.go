package account

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an account record in the database.
type Account struct {
	Number    string    `gorm:"type:varchar(6);primary_key"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index"`
	Balance   int64     `gorm:"not null;default:0;check:balance >= 0"`
	Status    string    `gorm:"type:varchar(16);not null;default:'active'"`
	FeeExempt bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}
