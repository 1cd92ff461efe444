// Package invoice provides the HTTP surface for issuing and settling
// invoices between accounts.
package invoice

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/townhub/wallet/pkg/config"
	domaininvoice "github.com/townhub/wallet/pkg/domain/invoice"
	"github.com/townhub/wallet/pkg/middleware"
	invoicesvc "github.com/townhub/wallet/pkg/service/invoice"
	"github.com/townhub/wallet/webapi/common"
)

// Routes registers HTTP routes for invoice operations.
//
// Routes:
//   - POST /invoice          : Issue an invoice to another account.
//   - POST /invoice/:ref/pay : Pay an invoice addressed to the caller.
//   - GET  /invoice/:ref     : Fetch a single invoice.
//   - GET  /invoice          : List invoices involving the caller.
func Routes(app *fiber.App, invoiceSvc *invoicesvc.Service, cfg config.Jwt) {
	app.Post("/invoice", middleware.Protected(cfg), CreateInvoice(invoiceSvc))
	app.Post("/invoice/:ref/pay", middleware.Protected(cfg), PayInvoice(invoiceSvc))
	app.Get("/invoice/:ref", middleware.Protected(cfg), GetInvoice(invoiceSvc))
	app.Get("/invoice", middleware.Protected(cfg), ListInvoices(invoiceSvc))
}

// CreateInvoice returns a Fiber handler that issues an invoice from the
// authenticated account. No money moves until the recipient pays.
func CreateInvoice(invoiceSvc *invoicesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		input, err := common.BindAndValidate[CreateInvoiceRequest](c)
		if input == nil {
			return err // error response already written
		}
		reference, err := invoiceSvc.Create(c.Context(), actor.AccountNumber, input.Recipient, input.Amount, input.Description)
		if err != nil {
			log.Errorf("Failed to create invoice: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create invoice", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Invoice created", fiber.Map{"reference": reference})
	}
}

// PayInvoice returns a Fiber handler that settles an invoice addressed to
// the authenticated account.
func PayInvoice(invoiceSvc *invoicesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		reference := c.Params("ref")
		if err := invoiceSvc.Pay(c.Context(), reference, actor.AccountNumber); err != nil {
			log.Errorf("Failed to pay invoice %s: %v", reference, err)
			return common.ProblemDetailsJSON(c, "Failed to pay invoice", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Invoice paid", fiber.Map{"reference": reference})
	}
}

// GetInvoice returns a Fiber handler that fetches a single invoice.
func GetInvoice(invoiceSvc *invoicesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.CurrentActor(c); !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		inv, err := invoiceSvc.Get(c.Context(), c.Params("ref"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch invoice", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Invoice fetched", toInvoiceDTO(inv))
	}
}

// ListInvoices returns a Fiber handler listing invoices where the
// authenticated account is issuer or recipient.
func ListInvoices(invoiceSvc *invoicesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		invoices, err := invoiceSvc.ListByAccount(c.Context(), actor.AccountNumber)
		if err != nil {
			log.Errorf("Failed to list invoices for %s: %v", actor.AccountNumber, err)
			return common.ProblemDetailsJSON(c, "Failed to list invoices", err)
		}
		dtos := make([]*InvoiceDTO, 0, len(invoices))
		for _, inv := range invoices {
			dtos = append(dtos, toInvoiceDTO(inv))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Invoices fetched", dtos)
	}
}

func toInvoiceDTO(inv *domaininvoice.Invoice) *InvoiceDTO {
	return &InvoiceDTO{
		Reference:   inv.Reference,
		Issuer:      inv.Issuer,
		Recipient:   inv.Recipient,
		Amount:      inv.Amount,
		Description: inv.Description,
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt,
		PaidAt:      inv.PaidAt,
	}
}
