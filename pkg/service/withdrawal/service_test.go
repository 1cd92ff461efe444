package withdrawal_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/townhub/wallet/pkg/config"
	"github.com/townhub/wallet/pkg/domain/escrow"
	"github.com/townhub/wallet/pkg/domain/ledger"
	"github.com/townhub/wallet/pkg/domain/wallet"
	"github.com/townhub/wallet/pkg/fees"
	"github.com/townhub/wallet/pkg/service/withdrawal"
	"github.com/townhub/wallet/pkg/testutils"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

var financeActor = wallet.Actor{AccountNumber: "FIN001", Roles: []wallet.Role{wallet.RoleFinance}}

type fixture struct {
	svc      *withdrawal.Service
	accounts *testutils.MemoryAccounts
	pool     *testutils.MemoryWithdrawals
	txs      *testutils.MemoryTransactions
	fees     *testutils.MemoryFees
	bus      *testutils.CaptureBus
	now      time.Time
}

// newFixture wires a service with a controllable clock; advance moves it.
func newFixture() *fixture {
	f := &fixture{
		accounts: testutils.NewMemoryAccounts(),
		pool:     testutils.NewMemoryWithdrawals(),
		txs:      testutils.NewMemoryTransactions(),
		fees:     testutils.NewMemoryFees(),
		bus:      testutils.NewCaptureBus(),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = withdrawal.NewService(withdrawal.Deps{
		Accounts:     f.accounts,
		Withdrawals:  f.pool,
		Transactions: f.txs,
		Fees:         f.fees,
		Settings: config.NewStaticProvider(config.Settings{
			Percents:         fees.DefaultPercents(),
			WithdrawalWindow: 24 * time.Hour,
			PlatformAccount:  "ADM001",
		}),
		Bus: f.bus,
		Now: func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestRequest(t *testing.T) {
	t.Parallel()

	t.Run("debits immediately and pools the amount", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 500, wallet.StatusActive, false)

		ref, err := f.svc.Request(context.Background(), "CCC003", 100)
		require.NoError(t, err)

		a, _ := f.accounts.Get(context.Background(), "CCC003")
		assert.Equal(t, int64(400), a.Balance)

		entries, err := f.svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, ref, entries[0].Reference)
		assert.Equal(t, int64(100), entries[0].Amount)
		assert.Equal(t, f.now.Add(24*time.Hour), entries[0].ExpiresAt)

		legs := f.txs.ByReference(ref)
		require.Len(t, legs, 1)
		assert.Equal(t, ledger.StatusPending, legs[0].Status)
		assert.Equal(t, ledger.KindCashPayout, legs[0].Kind)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 50, wallet.StatusActive, false)
		_, err := f.svc.Request(context.Background(), "CCC003", 100)
		assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 500, wallet.StatusSuspended, false)
		_, err := f.svc.Request(context.Background(), "CCC003", 100)
		assert.ErrorIs(t, err, wallet.ErrSenderNotActive)
	})
}

func TestProcessPayout(t *testing.T) {
	t.Parallel()

	t.Run("settles within window at five percent", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 500, wallet.StatusActive, false)
		f.accounts.Seed("FIN001", 0, wallet.StatusActive, false)
		ref, err := f.svc.Request(context.Background(), "CCC003", 100)
		require.NoError(t, err)

		f.advance(1 * time.Hour)
		require.NoError(t, f.svc.ProcessPayout(context.Background(), financeActor, ref))

		processor, _ := f.accounts.Get(context.Background(), "FIN001")
		assert.Equal(t, int64(95), processor.Balance) // 100 - 5

		feeRows := f.fees.All()
		require.Len(t, feeRows, 1)
		assert.Equal(t, int64(5), feeRows[0].Amount)
		assert.False(t, feeRows[0].Deposited)

		entries, _ := f.svc.List(context.Background())
		assert.Empty(t, entries)

		for _, leg := range f.txs.ByReference(ref) {
			assert.NotEqual(t, ledger.StatusPending, leg.Status)
		}

		events := f.bus.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "payout.processed", events[0].EventType())
	})

	t.Run("expired entry is reversed instead of settled", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 500, wallet.StatusActive, false)
		f.accounts.Seed("FIN001", 0, wallet.StatusActive, false)
		ref, err := f.svc.Request(context.Background(), "CCC003", 100)
		require.NoError(t, err)

		f.advance(24*time.Hour + time.Minute)
		err = f.svc.ProcessPayout(context.Background(), financeActor, ref)
		assert.ErrorIs(t, err, escrow.ErrWithdrawalExpired)

		owner, _ := f.accounts.Get(context.Background(), "CCC003")
		processor, _ := f.accounts.Get(context.Background(), "FIN001")
		assert.Equal(t, int64(500), owner.Balance) // fully restored
		assert.Equal(t, int64(0), processor.Balance)
		assert.Empty(t, f.fees.All())

		entries, _ := f.svc.List(context.Background())
		assert.Empty(t, entries)
	})

	t.Run("settlement refused exactly at expiry", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 500, wallet.StatusActive, false)
		f.accounts.Seed("FIN001", 0, wallet.StatusActive, false)
		ref, err := f.svc.Request(context.Background(), "CCC003", 100)
		require.NoError(t, err)

		f.advance(24 * time.Hour)
		err = f.svc.ProcessPayout(context.Background(), financeActor, ref)
		assert.ErrorIs(t, err, escrow.ErrWithdrawalExpired)
	})

	t.Run("self payout denied without mutation", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("FIN001", 500, wallet.StatusActive, false)
		ref, err := f.svc.Request(context.Background(), "FIN001", 100)
		require.NoError(t, err)

		err = f.svc.ProcessPayout(context.Background(), financeActor, ref)
		assert.ErrorIs(t, err, escrow.ErrSelfPayout)

		entries, _ := f.svc.List(context.Background())
		assert.Len(t, entries, 1)
	})

	t.Run("requires finance role", func(t *testing.T) {
		f := newFixture()
		member := wallet.Actor{AccountNumber: "BBB002", Roles: []wallet.Role{wallet.RoleMember}}
		err := f.svc.ProcessPayout(context.Background(), member, "whatever")
		assert.ErrorIs(t, err, wallet.ErrNotAuthorized)
	})

	t.Run("second attempt loses the removal race", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 500, wallet.StatusActive, false)
		f.accounts.Seed("FIN001", 0, wallet.StatusActive, false)
		ref, err := f.svc.Request(context.Background(), "CCC003", 100)
		require.NoError(t, err)

		require.NoError(t, f.svc.ProcessPayout(context.Background(), financeActor, ref))
		err = f.svc.ProcessPayout(context.Background(), financeActor, ref)
		assert.ErrorIs(t, err, escrow.ErrWithdrawalNotFound)
	})

	t.Run("unknown reference", func(t *testing.T) {
		f := newFixture()
		err := f.svc.ProcessPayout(context.Background(), financeActor, "missing")
		assert.ErrorIs(t, err, escrow.ErrWithdrawalNotFound)
	})

	t.Run("exempt owner pays no withdrawal fee", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("ADM002", 500, wallet.StatusActive, true)
		f.accounts.Seed("FIN001", 0, wallet.StatusActive, false)
		ref, err := f.svc.Request(context.Background(), "ADM002", 100)
		require.NoError(t, err)

		require.NoError(t, f.svc.ProcessPayout(context.Background(), financeActor, ref))
		processor, _ := f.accounts.Get(context.Background(), "FIN001")
		assert.Equal(t, int64(100), processor.Balance)
		assert.Empty(t, f.fees.All())
	})
}

func TestExpireDue(t *testing.T) {
	t.Parallel()

	t.Run("sweep reverses elapsed entries fee free", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 500, wallet.StatusActive, false)
		ref, err := f.svc.Request(context.Background(), "CCC003", 100)
		require.NoError(t, err)

		f.advance(24*time.Hour + time.Minute)
		require.NoError(t, f.svc.ExpireDue(context.Background()))

		owner, _ := f.accounts.Get(context.Background(), "CCC003")
		assert.Equal(t, int64(500), owner.Balance)
		assert.Empty(t, f.fees.All())

		entries, _ := f.svc.List(context.Background())
		assert.Empty(t, entries)

		legs := f.txs.ByReference(ref)
		require.Len(t, legs, 1)
		assert.Equal(t, ledger.StatusFailed, legs[0].Status)
	})

	t.Run("sweep leaves fresh entries alone", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 500, wallet.StatusActive, false)
		_, err := f.svc.Request(context.Background(), "CCC003", 100)
		require.NoError(t, err)

		f.advance(1 * time.Hour)
		require.NoError(t, f.svc.ExpireDue(context.Background()))

		entries, _ := f.svc.List(context.Background())
		assert.Len(t, entries, 1)
		owner, _ := f.accounts.Get(context.Background(), "CCC003")
		assert.Equal(t, int64(400), owner.Balance)
	})

	t.Run("sweep is idempotent", func(t *testing.T) {
		f := newFixture()
		f.accounts.Seed("CCC003", 500, wallet.StatusActive, false)
		_, err := f.svc.Request(context.Background(), "CCC003", 100)
		require.NoError(t, err)

		f.advance(25 * time.Hour)
		require.NoError(t, f.svc.ExpireDue(context.Background()))
		require.NoError(t, f.svc.ExpireDue(context.Background()))

		owner, _ := f.accounts.Get(context.Background(), "CCC003")
		assert.Equal(t, int64(500), owner.Balance) // credited exactly once
	})
}
