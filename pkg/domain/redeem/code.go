// Package redeem models one-time-use deposit instruments: a code and PIN
// pair carrying a fixed amount, redeemable exactly once into a balance.
package redeem

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	// ErrCodeNotFound is returned when no instrument matches the code.
	ErrCodeNotFound = errors.New("redeem code not found")

	// ErrInvalidPin is returned on a PIN mismatch.
	ErrInvalidPin = errors.New("invalid pin")

	// ErrCodeAlreadyUsed is returned when the code has been redeemed before,
	// including when a concurrent redeemer wins the race.
	ErrCodeAlreadyUsed = errors.New("redeem code already used")

	// ErrCodeExpired is returned when the code is past its expiry.
	ErrCodeExpired = errors.New("redeem code expired")
)

// Code is a deposit instrument. Used flips to true exactly once; a used or
// expired code can never credit a balance again.
type Code struct {
	Code      string
	Pin       string
	Amount    int64
	Used      bool
	UsedBy    *string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the code is past its expiry at now.
func (c *Code) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// NewCode generates a 16-hex-character redeem code.
func NewCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// NewPin generates a four digit PIN.
func NewPin() string {
	v, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%04d", v.Int64())
}
