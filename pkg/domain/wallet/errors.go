package wallet

import "errors"

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAccountNumber is returned when an account identifier does not
	// match the 3-letters-3-digits format.
	ErrInvalidAccountNumber = errors.New("invalid account number")

	// ErrOwnerRequired is returned when an account is built without an owner.
	ErrOwnerRequired = errors.New("account owner is required")

	// ErrNegativeBalance is returned when a balance below zero is supplied.
	ErrNegativeBalance = errors.New("balance cannot be negative")

	// ErrAmountNotPositive is returned when an operation amount is not > 0.
	ErrAmountNotPositive = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a debit would take the balance
	// below zero. It is raised by the conditional update itself, so no race
	// can produce a negative balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer is returned when sender and recipient are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to own account")

	// ErrRecipientNotFound is returned when a transfer recipient identifier is
	// malformed or does not resolve to an account.
	ErrRecipientNotFound = errors.New("recipient account not found")

	// ErrSenderNotActive is returned when the sending account is suspended or
	// terminated.
	ErrSenderNotActive = errors.New("sender account is not active")

	// ErrRecipientNotActive is returned when the receiving account is
	// suspended or terminated.
	ErrRecipientNotActive = errors.New("recipient account is not active")

	// ErrNotAuthorized is returned when the acting identity lacks the role
	// required for a privileged operation.
	ErrNotAuthorized = errors.New("operation not authorized for this role")

	// ErrBalanceAboveCloseLimit is returned when terminating an account whose
	// balance still exceeds the configured threshold.
	ErrBalanceAboveCloseLimit = errors.New("balance above account close limit")
)
