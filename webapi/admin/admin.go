// Package admin provides the HTTP surface for administrative operations:
// account lifecycle and redeem code issuance.
package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/middleware"
	redeemsvc "github.com/townhub/wallet/pkg/service/redeem"
	walletsvc "github.com/townhub/wallet/pkg/service/wallet"
	"github.com/townhub/wallet/webapi/common"
)

// Routes registers HTTP routes for administrative operations. Role checks
// live in the services; the handlers only carry the actor through.
//
// Routes:
//   - POST /admin/account                 : Open a new member account.
//   - PUT  /admin/account/:num/suspend    : Suspend an account.
//   - PUT  /admin/account/:num/activate   : Reactivate a suspended account.
//   - DELETE /admin/account/:num          : Terminate an account.
//   - POST /admin/code                    : Mint a redeem code.
func Routes(app *fiber.App, walletSvc *walletsvc.Service, redeemSvc *redeemsvc.Service, cfg config.Jwt) {
	app.Post("/admin/account", middleware.Protected(cfg), OpenAccount(walletSvc))
	app.Put("/admin/account/:num/suspend", middleware.Protected(cfg), Suspend(walletSvc))
	app.Put("/admin/account/:num/activate", middleware.Protected(cfg), Activate(walletSvc))
	app.Delete("/admin/account/:num", middleware.Protected(cfg), Terminate(walletSvc))
	app.Post("/admin/code", middleware.Protected(cfg), IssueCode(redeemSvc))
}

// OpenAccount returns a Fiber handler that opens a wallet account for a
// portal user.
func OpenAccount(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.CurrentActor(c); !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		input, err := common.BindAndValidate[OpenAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		ownerID, err := uuid.Parse(input.OwnerID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid owner ID", err.Error())
		}
		acct, err := walletSvc.Open(c.Context(), ownerID)
		if err != nil {
			log.Errorf("Failed to open account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to open account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account opened", fiber.Map{
			"number": acct.Number,
		})
	}
}

// Suspend returns a Fiber handler that suspends an account.
func Suspend(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		number := c.Params("num")
		if err := walletSvc.Suspend(c.Context(), actor, number); err != nil {
			log.Errorf("Failed to suspend account %s: %v", number, err)
			return common.ProblemDetailsJSON(c, "Failed to suspend account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account suspended", nil)
	}
}

// Activate returns a Fiber handler that reactivates a suspended account.
func Activate(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		number := c.Params("num")
		if err := walletSvc.Activate(c.Context(), actor, number); err != nil {
			log.Errorf("Failed to activate account %s: %v", number, err)
			return common.ProblemDetailsJSON(c, "Failed to activate account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account activated", nil)
	}
}

// Terminate returns a Fiber handler that terminates an account. Accounts
// holding more than the configured threshold are refused.
func Terminate(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		number := c.Params("num")
		if err := walletSvc.Terminate(c.Context(), actor, number); err != nil {
			log.Errorf("Failed to terminate account %s: %v", number, err)
			return common.ProblemDetailsJSON(c, "Failed to terminate account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account terminated", nil)
	}
}

// IssueCode returns a Fiber handler that mints a one-time redeem code.
func IssueCode(redeemSvc *redeemsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		input, err := common.BindAndValidate[IssueCodeRequest](c)
		if input == nil {
			return err // error response already written
		}
		var ttl time.Duration
		if input.TTL != "" {
			ttl, err = time.ParseDuration(input.TTL)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid TTL", err.Error())
			}
		}
		code, err := redeemSvc.Issue(c.Context(), actor, input.Amount, ttl)
		if err != nil {
			log.Errorf("Failed to issue redeem code: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to issue redeem code", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Code issued", fiber.Map{
			"code":       code.Code,
			"pin":        code.Pin,
			"amount":     code.Amount,
			"expires_at": code.ExpiresAt,
		})
	}
}
