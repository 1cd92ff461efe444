package wallet

import "time"

// TransferRequest is the request body for a peer-to-peer transfer.
type TransferRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Note      string `json:"note"`
}

// WithdrawRequest is the request body for a cash withdrawal request.
type WithdrawRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// RedeemRequest is the request body for redeeming a deposit code.
type RedeemRequest struct {
	Code string `json:"code" validate:"required"`
	Pin  string `json:"pin" validate:"required"`
}

// TransactionDTO is the API shape of a ledger leg.
type TransactionDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	FeeAmount int64     `json:"fee_amount,omitempty"`
	From      *string   `json:"from,omitempty"`
	To        *string   `json:"to,omitempty"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
