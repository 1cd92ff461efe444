package invoice_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/townhub/wallet/pkg/config"
	domaininvoice "github.com/townhub/wallet/pkg/domain/invoice"
	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/fees"
	invoicesvc "github.com/townhub/wallet/pkg/service/invoice"
	"github.com/townhub/wallet/pkg/testutils"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type fixture struct {
	svc      *invoicesvc.Service
	accounts *testutils.MemoryAccounts
	invoices *testutils.MemoryInvoices
	txs      *testutils.MemoryTransactions
	fees     *testutils.MemoryFees
	bus      *testutils.CaptureBus
}

func newFixture() *fixture {
	f := &fixture{
		accounts: testutils.NewMemoryAccounts(),
		invoices: testutils.NewMemoryInvoices(),
		txs:      testutils.NewMemoryTransactions(),
		fees:     testutils.NewMemoryFees(),
		bus:      testutils.NewCaptureBus(),
	}
	f.svc = invoicesvc.NewService(invoicesvc.Deps{
		Accounts:     f.accounts,
		Invoices:     f.invoices,
		Transactions: f.txs,
		Fees:         f.fees,
		Settings: config.NewStaticProvider(config.Settings{
			Percents:        fees.DefaultPercents(),
			PlatformAccount: "ADM001",
		}),
		Bus: f.bus,
	})
	return f
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates unpaid invoice without moving money", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("ISS001", 0, wallet.StatusActive, false)
		f.accounts.Seed("PAY002", 500, wallet.StatusActive, false)

		ref, err := f.svc.Create(context.Background(), "ISS001", "PAY002", 200, "membership")
		require.NoError(t, err)

		inv, err := f.svc.Get(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, domaininvoice.StatusUnpaid, inv.Status)
		assert.Nil(t, inv.PaidAt)

		payer, _ := f.accounts.Get(context.Background(), "PAY002")
		assert.Equal(t, int64(500), payer.Balance)
	})

	t.Run("rejects self issuance", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("ISS001", 0, wallet.StatusActive, false)
		_, err := f.svc.Create(context.Background(), "ISS001", "ISS001", 200, "")
		assert.ErrorIs(t, err, domaininvoice.ErrSelfInvoice)
	})

	t.Run("rejects unknown recipient", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Create(context.Background(), "ISS001", "ZZZ999", 200, "")
		assert.ErrorIs(t, err, wallet.ErrRecipientNotFound)
	})

	t.Run("rejects inactive recipient", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("PAY002", 0, wallet.StatusSuspended, false)
		_, err := f.svc.Create(context.Background(), "ISS001", "PAY002", 200, "")
		assert.ErrorIs(t, err, wallet.ErrRecipientNotActive)
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Create(context.Background(), "ISS001", "PAY002", 0, "")
		assert.ErrorIs(t, err, wallet.ErrAmountNotPositive)
	})
}

func TestPay(t *testing.T) {
	t.Parallel()

	t.Run("payer pays amount plus fee and issuer receives amount", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("ISS001", 0, wallet.StatusActive, false)
		f.accounts.Seed("PAY002", 500, wallet.StatusActive, false)
		ref, err := f.svc.Create(context.Background(), "ISS001", "PAY002", 200, "membership")
		require.NoError(t, err)

		require.NoError(t, f.svc.Pay(context.Background(), ref, "PAY002"))

		payer, _ := f.accounts.Get(context.Background(), "PAY002")
		issuer, _ := f.accounts.Get(context.Background(), "ISS001")
		assert.Equal(t, int64(290), payer.Balance) // 500 - 200 - 10
		assert.Equal(t, int64(200), issuer.Balance)

		inv, err := f.svc.Get(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, domaininvoice.StatusPaid, inv.Status)
		require.NotNil(t, inv.PaidAt)

		feeRows := f.fees.All()
		require.Len(t, feeRows, 1)
		assert.Equal(t, int64(10), feeRows[0].Amount)

		events := f.bus.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "invoice.paid", events[0].EventType())
	})

	t.Run("second payment fails with exactly one credit", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("ISS001", 0, wallet.StatusActive, false)
		f.accounts.Seed("PAY002", 1000, wallet.StatusActive, false)
		ref, err := f.svc.Create(context.Background(), "ISS001", "PAY002", 200, "")
		require.NoError(t, err)

		require.NoError(t, f.svc.Pay(context.Background(), ref, "PAY002"))
		err = f.svc.Pay(context.Background(), ref, "PAY002")
		assert.ErrorIs(t, err, domaininvoice.ErrInvoiceAlreadyPaid)

		issuer, _ := f.accounts.Get(context.Background(), "ISS001")
		payer, _ := f.accounts.Get(context.Background(), "PAY002")
		assert.Equal(t, int64(200), issuer.Balance)
		assert.Equal(t, int64(790), payer.Balance) // debited once
	})

	t.Run("only designated recipient may pay", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("ISS001", 0, wallet.StatusActive, false)
		f.accounts.Seed("PAY002", 500, wallet.StatusActive, false)
		f.accounts.Seed("OTH003", 500, wallet.StatusActive, false)
		ref, err := f.svc.Create(context.Background(), "ISS001", "PAY002", 200, "")
		require.NoError(t, err)

		err = f.svc.Pay(context.Background(), ref, "OTH003")
		assert.ErrorIs(t, err, domaininvoice.ErrNotInvoiceRecipient)
	})

	t.Run("insufficient funds leaves invoice unpaid", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("ISS001", 0, wallet.StatusActive, false)
		f.accounts.Seed("PAY002", 100, wallet.StatusActive, false)
		ref, err := f.svc.Create(context.Background(), "ISS001", "PAY002", 200, "")
		require.NoError(t, err)

		err = f.svc.Pay(context.Background(), ref, "PAY002")
		assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)

		inv, err := f.svc.Get(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, domaininvoice.StatusUnpaid, inv.Status)
	})

	t.Run("exempt payer pays no fee", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("ISS001", 0, wallet.StatusActive, false)
		f.accounts.Seed("ADM002", 500, wallet.StatusActive, true)
		ref, err := f.svc.Create(context.Background(), "ISS001", "ADM002", 200, "")
		require.NoError(t, err)

		require.NoError(t, f.svc.Pay(context.Background(), ref, "ADM002"))
		payer, _ := f.accounts.Get(context.Background(), "ADM002")
		assert.Equal(t, int64(300), payer.Balance)
		assert.Empty(t, f.fees.All())
	})

	t.Run("unknown reference", func(t *testing.T) {
		f := newFixture()
		err := f.svc.Pay(context.Background(), "missing", "PAY002")
		assert.ErrorIs(t, err, domaininvoice.ErrInvoiceNotFound)
	})
}
