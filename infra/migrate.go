package infra

import (
	"github.com/townhub/wallet/infra/repository/account"
	"github.com/townhub/wallet/infra/repository/fee"
	"github.com/townhub/wallet/infra/repository/invoice"
	"github.com/townhub/wallet/infra/repository/redeemcode"
	"github.com/townhub/wallet/infra/repository/transaction"
	"github.com/townhub/wallet/infra/repository/withdrawal"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every wallet table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&account.Account{},
		&transaction.Transaction{},
		&fee.Fee{},
		&invoice.Invoice{},
		&withdrawal.Withdrawal{},
		&redeemcode.RedeemCode{},
	)
}
