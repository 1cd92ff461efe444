package redeemcode

import "time"

// RedeemCode represents a one-time deposit instrument in the database.
type RedeemCode struct {
	Code      string  `gorm:"type:varchar(32);primary_key"`
	Pin       string  `gorm:"type:varchar(8);not null"`
	Amount    int64   `gorm:"not null"`
	Used      bool    `gorm:"not null;default:false"`
	UsedBy    *string `gorm:"type:varchar(6)"`
	CreatedAt time.Time
	ExpiresAt time.Time
}

// TableName specifies the table name for the RedeemCode model.
func (RedeemCode) TableName() string {
	return "redeem_codes"
}
