package fee

import (
	"time"

	"github.com/google/uuid"
)

// Fee represents a captured fee record in the database.
type Fee struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind      string    `gorm:"type:varchar(24);not null"`
	Amount    int64     `gorm:"not null"`
	Percent   float64   `gorm:"not null"`
	Account   string    `gorm:"type:varchar(6);not null;index"`
	Reference string    `gorm:"type:varchar(64);not null;index"`
	Deposited bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time
}

// TableName specifies the table name for the Fee model.
func (Fee) TableName() string {
	return "fees"
}
