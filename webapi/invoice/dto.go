package invoice

import "time"

// CreateInvoiceRequest is the request body for issuing an invoice.
type CreateInvoiceRequest struct {
	Recipient   string `json:"recipient" validate:"required"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description"`
}

// InvoiceDTO is the API shape of an invoice.
type InvoiceDTO struct {
	Reference   string     `json:"reference"`
	Issuer      string     `json:"issuer"`
	Recipient   string     `json:"recipient"`
	Amount      int64      `json:"amount"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}
