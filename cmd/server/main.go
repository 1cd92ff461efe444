package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/townhub/wallet/infra"
	accountrepo "github.com/townhub/wallet/infra/repository/account"
	feerepo "github.com/townhub/wallet/infra/repository/fee"
	invoicerepo "github.com/townhub/wallet/infra/repository/invoice"
	redeemcoderepo "github.com/townhub/wallet/infra/repository/redeemcode"
	transactionrepo "github.com/townhub/wallet/infra/repository/transaction"
	withdrawalrepo "github.com/townhub/wallet/infra/repository/withdrawal"
	"github.com/townhub/wallet/pkg/app"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/eventbus"
	"github.com/townhub/wallet/webapi"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := infra.NewDBConnection(*cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	deps := &app.Deps{
		Accounts:     accountrepo.New(db),
		Transactions: transactionrepo.New(db),
		Fees:         feerepo.New(db),
		Invoices:     invoicerepo.New(db),
		Withdrawals:  withdrawalrepo.New(db),
		Codes:        redeemcoderepo.New(db),
		Bus:          eventbus.NewSimpleEventBus(),
		Logger:       logger,
	}
	a := app.New(deps, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.StartExpirySweep(ctx)

	fiberApp := webapi.SetupApp(a)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)
	return fiberApp.Listen(addr)
}

func newLogger(cfg *config.Log) *slog.Logger {
	level := slog.LevelInfo
	format := "json"
	if cfg != nil {
		level = slog.Level(cfg.Level)
		format = cfg.Format
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
