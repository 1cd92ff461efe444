package app

import (
	"context"
	"time"
)

// StartExpirySweep runs the withdrawal expiry sweep on the configured
// interval until ctx is cancelled. A zero or negative interval disables the
// ticker; overdue entries are then only expired when touched.
func (a *App) StartExpirySweep(ctx context.Context) {
	interval := time.Duration(0)
	if a.Config.Ledger != nil {
		interval = a.Config.Ledger.SweepInterval
	}
	if interval <= 0 {
		a.Deps.Logger.Info("withdrawal expiry sweep disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := a.WithdrawalService.ExpireDue(ctx); err != nil {
					a.Deps.Logger.Error("withdrawal expiry sweep failed", "error", err)
				}
			}
		}
	}()
}
