// Package wallet contains the core ledger aggregates: accounts, their
// lifecycle states and the authorization value passed into privileged
// operations. An account is created with a zero balance once the identity
// collaborator reports the owner as approved; from then on its balance only
// changes through the conditional mutation operations exposed by the
// repository layer, which enforce the non-negative invariant.
package wallet

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an account. Transitions are admin-only.
type Status string

const (
	// StatusActive marks an account that may send and receive funds.
	StatusActive Status = "active"
	// StatusSuspended marks an account frozen by an administrator.
	StatusSuspended Status = "suspended"
	// StatusTerminated marks an account that has been closed for good.
	StatusTerminated Status = "terminated"
)

var numberPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

// ValidNumber reports whether s is a well-formed account number
// (three uppercase letters followed by three digits, e.g. "KHV204").
func ValidNumber(s string) bool {
	return numberPattern.MatchString(s)
}

// Account represents a member's wallet balance record.
//
// Invariants:
//   - Balance is in integer minor units and is never negative.
//   - Balance changes only through conditional repository mutations.
//   - FeeExempt zeroes every computed fee for this account.
type Account struct {
	Number    string
	OwnerID   uuid.UUID
	Balance   int64
	Status    Status
	FeeExempt bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder provides a fluent API for constructing Account values, mostly for
// hydrating records from the store and for test setup.
type Builder struct {
	number    string
	ownerID   uuid.UUID
	balance   int64
	status    Status
	feeExempt bool
	createdAt time.Time
	updatedAt time.Time
}

// New creates a Builder with a freshly generated account number, active
// status and zero balance.
func New() *Builder {
	return &Builder{
		number:    NewNumber(),
		status:    StatusActive,
		createdAt: time.Now(),
	}
}

// WithNumber sets the account number for the account being built.
func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

// WithOwnerID sets the owning user. This is a mandatory field.
func (b *Builder) WithOwnerID(ownerID uuid.UUID) *Builder {
	b.ownerID = ownerID
	return b
}

// WithBalance sets the initial balance in minor units. Only for hydrating an
// existing account from the store or for test setup.
func (b *Builder) WithBalance(balance int64) *Builder {
	b.balance = balance
	return b
}

// WithStatus sets the lifecycle status.
func (b *Builder) WithStatus(status Status) *Builder {
	b.status = status
	return b
}

// WithFeeExempt marks the account as exempt from all platform fees.
func (b *Builder) WithFeeExempt(exempt bool) *Builder {
	b.feeExempt = exempt
	return b
}

// WithCreatedAt sets the creation timestamp, for hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// Build validates the invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !ValidNumber(b.number) {
		return nil, ErrInvalidAccountNumber
	}
	if b.ownerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	if b.balance < 0 {
		return nil, ErrNegativeBalance
	}
	return &Account{
		Number:    b.number,
		OwnerID:   b.ownerID,
		Balance:   b.balance,
		Status:    b.status,
		FeeExempt: b.feeExempt,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// Active reports whether the account may move money.
func (a *Account) Active() bool {
	return a.Status == StatusActive
}

const (
	numberLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberDigits  = "0123456789"
)

// NewNumber generates a random account number in the 3-letters-3-digits
// format. Uniqueness is enforced by the store; callers retry on collision.
func NewNumber() string {
	buf := make([]byte, 6)
	for i := 0; i < 3; i++ {
		buf[i] = numberLetters[randIndex(len(numberLetters))]
	}
	for i := 3; i < 6; i++ {
		buf[i] = numberDigits[randIndex(len(numberDigits))]
	}
	return string(buf)
}

func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		panic(err)
	}
	return int(v.Int64())
}
