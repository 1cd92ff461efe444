// Package app assembles the wallet service: repositories over the database
// connection, domain services over the repositories, and the event
// subscribers over the bus.
package app

import (
	"log/slog"

	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/eventbus"
	"github.com/townhub/wallet/pkg/repository"
	invoicesvc "github.com/townhub/wallet/pkg/service/invoice"
	redeemsvc "github.com/townhub/wallet/pkg/service/redeem"
	transfersvc "github.com/townhub/wallet/pkg/service/transfer"
	walletsvc "github.com/townhub/wallet/pkg/service/wallet"
	withdrawalsvc "github.com/townhub/wallet/pkg/service/withdrawal"
)

// Deps contains the external collaborators the App is assembled from.
type Deps struct {
	Accounts     repository.AccountRepository
	Transactions repository.TransactionRepository
	Fees         repository.FeeRepository
	Invoices     repository.InvoiceRepository
	Withdrawals  repository.WithdrawalRepository
	Codes        repository.RedeemCodeRepository
	Bus          eventbus.EventBus
	Logger       *slog.Logger
}

// App holds the wired services of the wallet.
type App struct {
	Deps     *Deps
	Config   *config.App
	Settings *config.StaticProvider

	WalletService     *walletsvc.Service
	TransferService   *transfersvc.Service
	InvoiceService    *invoicesvc.Service
	WithdrawalService *withdrawalsvc.Service
	RedeemService     *redeemsvc.Service
}

// New wires the services from their dependencies and registers the
// notification subscribers on the bus.
func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	settings := config.NewStaticProvider(config.FromApp(cfg))

	app := &App{
		Deps:     deps,
		Config:   cfg,
		Settings: settings,
	}
	app.WalletService = walletsvc.NewService(walletsvc.Deps{
		Accounts:     deps.Accounts,
		Transactions: deps.Transactions,
		Fees:         deps.Fees,
		Settings:     settings,
		Logger:       deps.Logger,
	})
	app.TransferService = transfersvc.NewService(transfersvc.Deps{
		Accounts:     deps.Accounts,
		Transactions: deps.Transactions,
		Fees:         deps.Fees,
		Settings:     settings,
		Bus:          deps.Bus,
		Logger:       deps.Logger,
	})
	app.InvoiceService = invoicesvc.NewService(invoicesvc.Deps{
		Accounts:     deps.Accounts,
		Invoices:     deps.Invoices,
		Transactions: deps.Transactions,
		Fees:         deps.Fees,
		Settings:     settings,
		Bus:          deps.Bus,
		Logger:       deps.Logger,
	})
	app.WithdrawalService = withdrawalsvc.NewService(withdrawalsvc.Deps{
		Accounts:     deps.Accounts,
		Withdrawals:  deps.Withdrawals,
		Transactions: deps.Transactions,
		Fees:         deps.Fees,
		Settings:     settings,
		Bus:          deps.Bus,
		Logger:       deps.Logger,
	})
	app.RedeemService = redeemsvc.NewService(redeemsvc.Deps{
		Accounts:     deps.Accounts,
		Codes:        deps.Codes,
		Transactions: deps.Transactions,
		Settings:     settings,
		Bus:          deps.Bus,
		Logger:       deps.Logger,
	})

	setupNotifications(deps.Bus, deps.Logger)
	return app
}
