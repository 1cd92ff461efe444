package app

import (
	"context"
	"log/slog"

	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/eventbus"
)

// setupNotifications registers the notification subscribers with the bus.
// The current sink is the structured log; a mail or push collaborator can be
// swapped in behind the same subscriptions.
func setupNotifications(bus eventbus.EventBus, logger *slog.Logger) {
	bus.Subscribe("transfer.completed", func(ctx context.Context, e eventbus.Event) {
		ev, ok := e.(wallet.TransferCompletedEvent)
		if !ok {
			return
		}
		logger.Info("notify: transfer completed",
			"reference", ev.Reference,
			"sender", ev.Sender,
			"recipient", ev.Recipient,
			"amount", ev.Amount,
			"fee", ev.Fee,
		)
	})
	bus.Subscribe("invoice.paid", func(ctx context.Context, e eventbus.Event) {
		ev, ok := e.(wallet.InvoicePaidEvent)
		if !ok {
			return
		}
		logger.Info("notify: invoice paid",
			"reference", ev.Reference,
			"issuer", ev.Issuer,
			"payer", ev.Payer,
			"amount", ev.Amount,
			"fee", ev.Fee,
		)
	})
	bus.Subscribe("payout.processed", func(ctx context.Context, e eventbus.Event) {
		ev, ok := e.(wallet.PayoutProcessedEvent)
		if !ok {
			return
		}
		logger.Info("notify: payout processed",
			"reference", ev.Reference,
			"account", ev.Account,
			"processor", ev.Processor,
			"amount", ev.Amount,
			"fee", ev.Fee,
		)
	})
	bus.Subscribe("code.redeemed", func(ctx context.Context, e eventbus.Event) {
		ev, ok := e.(wallet.CodeRedeemedEvent)
		if !ok {
			return
		}
		logger.Info("notify: code redeemed",
			"account", ev.Account,
			"amount", ev.Amount,
		)
	})
}
