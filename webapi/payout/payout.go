// Package payout provides the HTTP surface for finance operations: settling
// pending withdrawals in cash and sweeping collected fees.
package payout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/middleware"
	walletsvc "github.com/townhub/wallet/pkg/service/wallet"
	withdrawalsvc "github.com/townhub/wallet/pkg/service/withdrawal"
	"github.com/townhub/wallet/webapi/common"
)

// Routes registers HTTP routes for finance operations.
//
// Routes:
//   - POST /payout/:ref      : Settle a pending withdrawal in cash.
//   - GET  /payout/pending   : List the withdrawal pool.
//   - POST /payout/sweep     : Deposit collected fees into the platform balance.
func Routes(app *fiber.App, withdrawalSvc *withdrawalsvc.Service, walletSvc *walletsvc.Service, cfg config.Jwt) {
	app.Post("/payout/:ref", middleware.Protected(cfg), ProcessPayout(withdrawalSvc))
	app.Get("/payout/pending", middleware.Protected(cfg), ListPending(withdrawalSvc))
	app.Post("/payout/sweep", middleware.Protected(cfg), SweepFees(walletSvc))
}

// ProcessPayout returns a Fiber handler that settles a pending withdrawal.
// The service enforces the finance role and the settlement window.
func ProcessPayout(withdrawalSvc *withdrawalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		reference := c.Params("ref")
		if err := withdrawalSvc.ProcessPayout(c.Context(), actor, reference); err != nil {
			log.Errorf("Failed to process payout %s: %v", reference, err)
			return common.ProblemDetailsJSON(c, "Failed to process payout", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payout processed", fiber.Map{"reference": reference})
	}
}

// ListPending returns a Fiber handler listing the withdrawal pool.
func ListPending(withdrawalSvc *withdrawalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.CurrentActor(c); !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		entries, err := withdrawalSvc.List(c.Context())
		if err != nil {
			log.Errorf("Failed to list pending withdrawals: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list pending withdrawals", err)
		}
		dtos := make([]*PendingWithdrawalDTO, 0, len(entries))
		for _, e := range entries {
			dtos = append(dtos, &PendingWithdrawalDTO{
				Reference: e.Reference,
				Account:   e.Account,
				Amount:    e.Amount,
				CreatedAt: e.CreatedAt,
				ExpiresAt: e.ExpiresAt,
			})
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Pending withdrawals fetched", dtos)
	}
}

// SweepFees returns a Fiber handler that deposits all undeposited fees into
// the platform balance.
func SweepFees(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		total, err := walletSvc.SweepFees(c.Context(), actor)
		if err != nil {
			log.Errorf("Failed to sweep fees: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to sweep fees", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Fees swept", fiber.Map{"total": total})
	}
}
