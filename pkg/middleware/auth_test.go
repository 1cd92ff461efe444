package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/domain/wallet"
)

func testJwtConfig() config.Jwt {
	return config.Jwt{Secret: "test-secret", Expiry: time.Hour}
}

func TestProtected_Unauthorized(t *testing.T) {
	app := fiber.New()
	app.Use(Protected(testJwtConfig()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode == fiber.StatusOK {
		t.Error("expected unauthorized, got 200")
	}
}

func TestProtected_ValidToken(t *testing.T) {
	cfg := testJwtConfig()
	app := fiber.New()
	app.Use(Protected(cfg))
	app.Get("/", func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		require.True(t, ok)
		assert.Equal(t, "ABC123", actor.AccountNumber)
		assert.True(t, actor.HasRole(wallet.RoleFinance))
		assert.False(t, actor.HasRole(wallet.RoleAdmin))
		return c.SendStatus(fiber.StatusOK)
	})

	token, err := NewToken(cfg, wallet.Actor{
		AccountNumber: "ABC123",
		Roles:         []wallet.Role{wallet.RoleMember, wallet.RoleFinance},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJwtError_Malformed(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		return jwtError(c, errors.New("Missing or malformed JWT"))
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestJwtError_Invalid(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		return jwtError(c, errors.New("any other error"))
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}
