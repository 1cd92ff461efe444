// Package wallet provides the HTTP surface of member-facing wallet
// operations: transfers, withdrawal requests, code redemption, balance and
// transaction history.
package wallet

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/domain/ledger"
	"github.com/townhub/wallet/pkg/middleware"
	redeemsvc "github.com/townhub/wallet/pkg/service/redeem"
	transfersvc "github.com/townhub/wallet/pkg/service/transfer"
	walletsvc "github.com/townhub/wallet/pkg/service/wallet"
	withdrawalsvc "github.com/townhub/wallet/pkg/service/withdrawal"
	"github.com/townhub/wallet/webapi/common"
)

// Routes registers HTTP routes for member wallet operations.
//
// Routes:
//   - POST /wallet/transfer     : Send money to another account.
//   - POST /wallet/withdraw     : Request a cash withdrawal.
//   - POST /wallet/redeem       : Redeem a deposit code into the balance.
//   - GET  /wallet/balance      : Current spendable balance.
//   - GET  /wallet/transactions : Ledger history for the account.
func Routes(
	app *fiber.App,
	transferSvc *transfersvc.Service,
	withdrawalSvc *withdrawalsvc.Service,
	redeemSvc *redeemsvc.Service,
	walletSvc *walletsvc.Service,
	cfg config.Jwt,
) {
	app.Post("/wallet/transfer", middleware.Protected(cfg), Transfer(transferSvc))
	app.Post("/wallet/withdraw", middleware.Protected(cfg), Withdraw(withdrawalSvc))
	app.Post("/wallet/redeem", middleware.Protected(cfg), Redeem(redeemSvc))
	app.Get("/wallet/balance", middleware.Protected(cfg), GetBalance(walletSvc))
	app.Get("/wallet/transactions", middleware.Protected(cfg), GetTransactions(walletSvc))
}

// Transfer returns a Fiber handler that moves money from the authenticated
// account to a recipient.
func Transfer(transferSvc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err // error response already written
		}
		reference, err := transferSvc.Transfer(c.Context(), actor.AccountNumber, input.Recipient, input.Amount, input.Note)
		if err != nil {
			log.Errorf("Failed to transfer: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to transfer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", fiber.Map{"reference": reference})
	}
}

// Withdraw returns a Fiber handler that moves funds from the authenticated
// account into the pending withdrawal pool.
func Withdraw(withdrawalSvc *withdrawalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		input, err := common.BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err // error response already written
		}
		reference, err := withdrawalSvc.Request(c.Context(), actor.AccountNumber, input.Amount)
		if err != nil {
			log.Errorf("Failed to request withdrawal: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to request withdrawal", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal requested", fiber.Map{"reference": reference})
	}
}

// Redeem returns a Fiber handler that credits the authenticated account from
// a one-time deposit code.
func Redeem(redeemSvc *redeemsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		input, err := common.BindAndValidate[RedeemRequest](c)
		if input == nil {
			return err // error response already written
		}
		amount, err := redeemSvc.Redeem(c.Context(), actor.AccountNumber, input.Code, input.Pin)
		if err != nil {
			log.Errorf("Failed to redeem code: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to redeem code", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Code redeemed", fiber.Map{"amount": amount})
	}
}

// GetBalance returns a Fiber handler for the authenticated account's balance.
func GetBalance(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		balance, err := walletSvc.GetBalance(c.Context(), actor.AccountNumber)
		if err != nil {
			log.Errorf("Failed to fetch balance for %s: %v", actor.AccountNumber, err)
			return common.ProblemDetailsJSON(c, "Failed to fetch balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance fetched", fiber.Map{"balance": balance})
	}
}

// GetTransactions returns a Fiber handler listing the authenticated account's
// ledger history.
func GetTransactions(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		txs, err := walletSvc.ListTransactions(c.Context(), actor.AccountNumber)
		if err != nil {
			log.Errorf("Failed to list transactions for %s: %v", actor.AccountNumber, err)
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		dtos := make([]*TransactionDTO, 0, len(txs))
		for _, t := range txs {
			dtos = append(dtos, toTransactionDTO(t))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", dtos)
	}
}

func toTransactionDTO(t *ledger.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:        t.ID.String(),
		Kind:      string(t.Kind),
		Amount:    t.Amount,
		FeeAmount: t.FeeAmount,
		From:      t.From,
		To:        t.To,
		Reference: t.Reference,
		Status:    string(t.Status),
		Note:      t.Note,
		CreatedAt: t.CreatedAt,
	}
}
