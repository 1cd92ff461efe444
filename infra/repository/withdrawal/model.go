package withdrawal

import "time"

// Withdrawal represents a pending escrow pool entry in the database. Settled
// and expired entries are deleted, not flagged; the ledger keeps the history.
type Withdrawal struct {
	Reference string `gorm:"type:varchar(64);primary_key"`
	Account   string `gorm:"type:varchar(6);not null;index"`
	Amount    int64  `gorm:"not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

// TableName specifies the table name for the Withdrawal model.
func (Withdrawal) TableName() string {
	return "withdrawals"
}
