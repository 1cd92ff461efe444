// Package webapi provides HTTP handlers and API endpoints for the wallet
// service. It is organized into sub-packages for different concerns:
// - wallet: member operations (transfer, withdraw, redeem, balance, history)
// - invoice: issuing and settling invoices
// - payout: finance operations (cash payouts, fee sweep)
// - admin: account lifecycle and redeem code issuance
package webapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/townhub/wallet/pkg/app"
	"github.com/townhub/wallet/pkg/config"
	adminweb "github.com/townhub/wallet/webapi/admin"
	"github.com/townhub/wallet/webapi/common"
	invoiceweb "github.com/townhub/wallet/webapi/invoice"
	payoutweb "github.com/townhub/wallet/webapi/payout"
	walletweb "github.com/townhub/wallet/webapi/wallet"
)

// SetupApp initializes Fiber with the wallet routes and middleware.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	rl := a.Config.RateLimit
	if rl == nil {
		rl = &config.RateLimit{}
	}
	if rl.MaxRequests > 0 {
		// Uses X-Forwarded-For when behind a proxy, falling back to
		// X-Real-IP and then the direct peer address.
		fiberApp.Use(limiter.New(limiter.Config{
			Max:        rl.MaxRequests,
			Expiration: rl.Window,
			KeyGenerator: func(c *fiber.Ctx) string {
				if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
					if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
						return strings.TrimSpace(forwardedFor[:commaIndex])
					}
					return strings.TrimSpace(forwardedFor)
				}
				if realIP := c.Get("X-Real-IP"); realIP != "" {
					return realIP
				}
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return common.ErrorResponseJSON(
					c,
					fiber.StatusTooManyRequests,
					"Too Many Requests",
					"rate limit exceeded",
				)
			},
		}))
	}
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtCfg := *a.Config.Jwt
	walletweb.Routes(fiberApp, a.TransferService, a.WithdrawalService, a.RedeemService, a.WalletService, jwtCfg)
	invoiceweb.Routes(fiberApp, a.InvoiceService, jwtCfg)
	payoutweb.Routes(fiberApp, a.WithdrawalService, a.WalletService, jwtCfg)
	adminweb.Routes(fiberApp, a.WalletService, a.RedeemService, jwtCfg)

	return fiberApp
}
