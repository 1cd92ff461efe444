// Package middleware provides HTTP middleware for the wallet API, including
// JWT authentication.
package middleware

import (
	"strings"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/domain/wallet"
)

// Protected returns a middleware that rejects requests without a valid JWT
// signed with the configured secret.
func Protected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "missing or malformed") {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT"})
}

// CurrentActor extracts the acting account and role claims from the JWT
// stored in the request context by Protected. The second return is false when
// no valid token is present.
func CurrentActor(c *fiber.Ctx) (wallet.Actor, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return wallet.Actor{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return wallet.Actor{}, false
	}
	number, ok := claims["account"].(string)
	if !ok || number == "" {
		return wallet.Actor{}, false
	}
	actor := wallet.Actor{AccountNumber: number}
	if raw, ok := claims["roles"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				actor.Roles = append(actor.Roles, wallet.Role(s))
			}
		}
	}
	return actor, true
}

// NewToken signs a JWT carrying the actor's account number and role claims.
func NewToken(cfg config.Jwt, actor wallet.Actor) (string, error) {
	roles := make([]string, 0, len(actor.Roles))
	for _, r := range actor.Roles {
		roles = append(roles, string(r))
	}
	claims := jwt.MapClaims{
		"account": actor.AccountNumber,
		"roles":   roles,
		"exp":     time.Now().Add(cfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}
