// Package common provides shared HTTP response and request-binding helpers
// for the wallet API.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/townhub/wallet/pkg/domain/escrow"
	"github.com/townhub/wallet/pkg/domain/invoice"
	"github.com/townhub/wallet/pkg/domain/redeem"
	"github.com/townhub/wallet/pkg/domain/wallet"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// SuccessResponseJSON writes a standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")

	return c.Status(status).JSON(pd)
}

// ProblemDetailsJSON maps a domain error to its status code and writes the
// problem document.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error) error {
	status := ErrorToStatusCode(err)
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return ErrorResponseJSON(c, status, title, detail)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, wallet.ErrAccountNotFound),
		errors.Is(err, wallet.ErrRecipientNotFound),
		errors.Is(err, invoice.ErrInvoiceNotFound),
		errors.Is(err, escrow.ErrWithdrawalNotFound),
		errors.Is(err, redeem.ErrCodeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, wallet.ErrAmountNotPositive),
		errors.Is(err, wallet.ErrInvalidAccountNumber):
		return fiber.StatusBadRequest
	case errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrSelfTransfer),
		errors.Is(err, wallet.ErrSenderNotActive),
		errors.Is(err, wallet.ErrRecipientNotActive),
		errors.Is(err, wallet.ErrBalanceAboveCloseLimit),
		errors.Is(err, invoice.ErrSelfInvoice),
		errors.Is(err, escrow.ErrSelfPayout),
		errors.Is(err, redeem.ErrCodeExpired):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, invoice.ErrInvoiceAlreadyPaid),
		errors.Is(err, escrow.ErrAlreadyProcessed),
		errors.Is(err, escrow.ErrWithdrawalExpired),
		errors.Is(err, redeem.ErrCodeAlreadyUsed):
		return fiber.StatusConflict
	case errors.Is(err, wallet.ErrNotAuthorized),
		errors.Is(err, invoice.ErrNotInvoiceRecipient),
		errors.Is(err, redeem.ErrInvalidPin):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. Returns the populated struct, or writes an error
// response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
		return nil, err
	}
	return &input, nil
}
