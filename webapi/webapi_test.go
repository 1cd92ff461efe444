package webapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/townhub/wallet/pkg/app"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/middleware"
	"github.com/townhub/wallet/pkg/testutils"
	"github.com/townhub/wallet/webapi"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.Run()
}

type fixture struct {
	app      *fiber.App
	cfg      *config.App
	accounts *testutils.MemoryAccounts
	codes    *testutils.MemoryCodes
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.App{
		Env: "test",
		Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour},
		Fees: &config.Fees{
			P2PPercent:        5,
			InvoicePercent:    5,
			WithdrawalPercent: 5,
			TicketPercent:     10,
		},
		Ledger: &config.Ledger{
			WithdrawalWindow: 24 * time.Hour,
			PlatformAccount:  "ADM001",
			CloseThreshold:   100,
			RedeemCodeTTL:    time.Hour,
		},
	}
	accounts := testutils.NewMemoryAccounts()
	codes := testutils.NewMemoryCodes()
	deps := &app.Deps{
		Accounts:     accounts,
		Transactions: testutils.NewMemoryTransactions(),
		Fees:         testutils.NewMemoryFees(),
		Invoices:     testutils.NewMemoryInvoices(),
		Withdrawals:  testutils.NewMemoryWithdrawals(),
		Codes:        codes,
		Bus:          testutils.NewCaptureBus(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	a := app.New(deps, cfg)
	return &fixture{
		app:      webapi.SetupApp(a),
		cfg:      cfg,
		accounts: accounts,
		codes:    codes,
	}
}

func (f *fixture) token(t *testing.T, number string, roles ...wallet.Role) string {
	t.Helper()
	token, err := middleware.NewToken(*f.cfg.Jwt, wallet.Actor{AccountNumber: number, Roles: roles})
	require.NoError(t, err)
	return token
}

func (f *fixture) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func TestTransferEndpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.accounts.Seed("AAA111", 1000, wallet.StatusActive, false)
	f.accounts.Seed("BBB222", 0, wallet.StatusActive, false)

	resp := f.request(t, http.MethodPost, "/wallet/transfer", f.token(t, "AAA111", wallet.RoleMember), fiber.Map{
		"recipient": "BBB222",
		"amount":    600,
		"note":      "rent share",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.NotEmpty(t, data["reference"])

	resp = f.request(t, http.MethodGet, "/wallet/balance", f.token(t, "AAA111", wallet.RoleMember), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(370), decodeData(t, resp)["balance"])

	resp = f.request(t, http.MethodGet, "/wallet/balance", f.token(t, "BBB222", wallet.RoleMember), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(600), decodeData(t, resp)["balance"])
}

func TestTransferEndpoint_Unauthorized(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/wallet/transfer", "", fiber.Map{
		"recipient": "BBB222",
		"amount":    100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransferEndpoint_InsufficientFunds(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.accounts.Seed("AAA111", 10, wallet.StatusActive, false)
	f.accounts.Seed("BBB222", 0, wallet.StatusActive, false)

	resp := f.request(t, http.MethodPost, "/wallet/transfer", f.token(t, "AAA111", wallet.RoleMember), fiber.Map{
		"recipient": "BBB222",
		"amount":    600,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestInvoiceEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.accounts.Seed("AAA111", 0, wallet.StatusActive, false)
	f.accounts.Seed("BBB222", 500, wallet.StatusActive, false)

	resp := f.request(t, http.MethodPost, "/invoice", f.token(t, "AAA111", wallet.RoleMember), fiber.Map{
		"recipient":   "BBB222",
		"amount":      200,
		"description": "market stall",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reference := decodeData(t, resp)["reference"].(string)
	require.NotEmpty(t, reference)

	// only the designated recipient may pay
	resp = f.request(t, http.MethodPost, "/invoice/"+reference+"/pay", f.token(t, "AAA111", wallet.RoleMember), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, http.MethodPost, "/invoice/"+reference+"/pay", f.token(t, "BBB222", wallet.RoleMember), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/wallet/balance", f.token(t, "BBB222", wallet.RoleMember), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(290), decodeData(t, resp)["balance"])

	// paying twice conflicts
	resp = f.request(t, http.MethodPost, "/invoice/"+reference+"/pay", f.token(t, "BBB222", wallet.RoleMember), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestWithdrawAndPayoutEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.accounts.Seed("AAA111", 500, wallet.StatusActive, false)
	f.accounts.Seed("FIN001", 0, wallet.StatusActive, false)

	resp := f.request(t, http.MethodPost, "/wallet/withdraw", f.token(t, "AAA111", wallet.RoleMember), fiber.Map{
		"amount": 100,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reference := decodeData(t, resp)["reference"].(string)
	require.NotEmpty(t, reference)

	resp = f.request(t, http.MethodGet, "/payout/pending", f.token(t, "FIN001", wallet.RoleFinance), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// member role may not settle payouts
	resp = f.request(t, http.MethodPost, "/payout/"+reference, f.token(t, "FIN001", wallet.RoleMember), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, http.MethodPost, "/payout/"+reference, f.token(t, "FIN001", wallet.RoleFinance), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// processor received the amount minus the 5% fee
	resp = f.request(t, http.MethodGet, "/wallet/balance", f.token(t, "FIN001", wallet.RoleFinance), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(95), decodeData(t, resp)["balance"])

	// settling again conflicts: the pool entry is gone
	resp = f.request(t, http.MethodPost, "/payout/"+reference, f.token(t, "FIN001", wallet.RoleFinance), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRedeemEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.accounts.Seed("ADM001", 0, wallet.StatusActive, true)
	f.accounts.Seed("AAA111", 0, wallet.StatusActive, false)

	resp := f.request(t, http.MethodPost, "/admin/code", f.token(t, "ADM001", wallet.RoleAdmin), fiber.Map{
		"amount": 250,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := decodeData(t, resp)
	code := data["code"].(string)
	pin := data["pin"].(string)

	// member role may not mint codes
	resp = f.request(t, http.MethodPost, "/admin/code", f.token(t, "AAA111", wallet.RoleMember), fiber.Map{
		"amount": 250,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, http.MethodPost, "/wallet/redeem", f.token(t, "AAA111", wallet.RoleMember), fiber.Map{
		"code": code,
		"pin":  pin,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(250), decodeData(t, resp)["amount"])

	// a code only works once
	resp = f.request(t, http.MethodPost, "/wallet/redeem", f.token(t, "AAA111", wallet.RoleMember), fiber.Map{
		"code": code,
		"pin":  pin,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminLifecycleEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.accounts.Seed("ADM001", 0, wallet.StatusActive, true)
	f.accounts.Seed("AAA111", 50, wallet.StatusActive, false)

	admin := f.token(t, "ADM001", wallet.RoleAdmin)

	resp := f.request(t, http.MethodPut, "/admin/account/AAA111/suspend", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.request(t, http.MethodPut, "/admin/account/AAA111/activate", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.request(t, http.MethodDelete, "/admin/account/AAA111", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// lifecycle requires the admin role
	resp = f.request(t, http.MethodPut, "/admin/account/AAA111/suspend", f.token(t, "AAA111", wallet.RoleMember), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	resp := f.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
