package account

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/townhub/wallet/pkg/domain/wallet"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestAccountRepository_Get(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)
	r := repo{db: db}

	ownerID := uuid.New()
	rows := sqlmock.NewRows([]string{"number", "owner_id", "balance", "status", "fee_exempt", "created_at", "updated_at"}).
		AddRow("ABC123", ownerID, int64(500), "active", false, time.Now().UTC(), time.Now().UTC())
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE number = \$1 ORDER BY "accounts"\."number" LIMIT \$2`).
		WithArgs("ABC123", 1).WillReturnRows(rows)

	acct, err := r.Get(context.Background(), "ABC123")
	require.NoError(err)
	assert.Equal("ABC123", acct.Number)
	assert.Equal(int64(500), acct.Balance)
	assert.Equal(ownerID, acct.OwnerID)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE number = \$1 ORDER BY "accounts"\."number" LIMIT \$2`).
		WithArgs("ZZZ999", 1).WillReturnError(gorm.ErrRecordNotFound)

	_, err = r.Get(context.Background(), "ZZZ999")
	require.ErrorIs(err, wallet.ErrAccountNotFound)
}

func TestAccountRepository_Mutate(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	r := repo{db: db}

	mock.ExpectExec(`UPDATE "accounts" SET "balance"=balance \+ \$1,"updated_at"=\$2 WHERE number = \$3 AND balance \+ \$4 >= 0`).
		WithArgs(int64(-100), sqlmock.AnyArg(), "ABC123", int64(-100)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.Mutate(context.Background(), "ABC123", -100)
	require.NoError(err)
}

func TestAccountRepository_Mutate_InsufficientFunds(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	r := repo{db: db}

	mock.ExpectExec(`UPDATE "accounts" SET "balance"=balance \+ \$1,"updated_at"=\$2 WHERE number = \$3 AND balance \+ \$4 >= 0`).
		WithArgs(int64(-9999), sqlmock.AnyArg(), "ABC123", int64(-9999)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" WHERE number = \$1`).
		WithArgs("ABC123").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := r.Mutate(context.Background(), "ABC123", -9999)
	require.ErrorIs(err, wallet.ErrInsufficientFunds)
}

func TestAccountRepository_Mutate_AccountNotFound(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	r := repo{db: db}

	mock.ExpectExec(`UPDATE "accounts" SET "balance"=balance \+ \$1,"updated_at"=\$2 WHERE number = \$3 AND balance \+ \$4 >= 0`).
		WithArgs(int64(50), sqlmock.AnyArg(), "ZZZ999", int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" WHERE number = \$1`).
		WithArgs("ZZZ999").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := r.Mutate(context.Background(), "ZZZ999", 50)
	require.ErrorIs(err, wallet.ErrAccountNotFound)
}
