package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/iblisbuu/gracenode-wallet/internal/domain"
	"github.com/iblisbuu/gracenode-wallet/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupEngineMock(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewEngine(gdb), mock
}

func TestEngine_Dialect(t *testing.T) {
	eng, _ := setupEngineMock(t)
	assert.Equal(t, wallet.DialectMySQL, eng.Dialect())
}

func TestEngine_ReadOne(t *testing.T) {
	eng, mock := setupEngineMock(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(wallet.SelectBalanceSQL)).
		WithArgs("u1", "gems").
		WillReturnRows(sqlmock.NewRows([]string{"paid", "free"}).AddRow(20, 5))

	var row domain.Balance
	found, err := eng.ReadOne(ctx, &row, wallet.SelectBalanceSQL, "u1", "gems")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(20), row.Paid)
	assert.Equal(t, int64(5), row.Free)

	mock.ExpectQuery(regexp.QuoteMeta(wallet.SelectBalanceSQL)).
		WithArgs("u2", "gems").
		WillReturnRows(sqlmock.NewRows([]string{"paid", "free"}))

	found, err = eng.ReadOne(ctx, &domain.Balance{}, wallet.SelectBalanceSQL, "u2", "gems")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_Write(t *testing.T) {
	eng, mock := setupEngineMock(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(wallet.UpdateBalanceSQL)).
		WithArgs(20, 5, sqlmock.AnyArg(), "u1", "gems").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := eng.Write(ctx, wallet.UpdateBalanceSQL, 20, 5, int64(1), "u1", "gems")
	require.NoError(t, err)
	assert.Zero(t, affected)

	mock.ExpectExec(regexp.QuoteMeta(wallet.InsertOutboundSQL)).
		WillReturnError(errors.New("deadlock found"))

	_, err = eng.Write(ctx, wallet.InsertOutboundSQL, "u1", "gems", 0, 15, "item", int64(1))
	assert.EqualError(t, err, "deadlock found")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_RunTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		eng, mock := setupEngineMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(wallet.InsertOutboundSQL)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := eng.RunTransaction(ctx, func(tx wallet.Querier) error {
			_, err := tx.Write(ctx, wallet.InsertOutboundSQL, "u1", "gems", 0, 15, "item", int64(1))
			return err
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback keeps only the error", func(t *testing.T) {
		eng, mock := setupEngineMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := eng.RunTransaction(ctx, func(tx wallet.Querier) error { return boom })
		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

// A full debit through the gorm engine: locked read, overwrite, outbound row, commit.
func TestEngine_WalletDebit(t *testing.T) {
	eng, mock := setupEngineMock(t)
	reg, err := wallet.NewRegistry(eng, []string{"gems"}, nil)
	require.NoError(t, err)
	w, _ := reg.Get("gems")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(wallet.SelectBalanceForUpdateSQL)).
		WithArgs("u1", "gems").
		WillReturnRows(sqlmock.NewRows([]string{"paid", "free"}).AddRow(20, 10))
	mock.ExpectExec(regexp.QuoteMeta(wallet.UpdateBalanceSQL)).
		WithArgs(20, 0, sqlmock.AnyArg(), "u1", "gems").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(wallet.InsertOutboundSQL)).
		WithArgs("u1", "gems", 0, 10, "item", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, w.Debit(context.Background(), "u1", 10, "item"))
	require.NoError(t, mock.ExpectationsWereMet())
}

// A credit whose history insert fails must roll the upsert back.
func TestEngine_WalletCreditRollback(t *testing.T) {
	eng, mock := setupEngineMock(t)
	reg, err := wallet.NewRegistry(eng, []string{"gems"}, nil)
	require.NoError(t, err)
	w, _ := reg.Get("gems")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(wallet.UpsertBalanceMySQL)).
		WithArgs("u1", "gems", 10, 0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(wallet.InsertInboundSQL)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = w.AddPaid(context.Background(), "r1", "u1", 100, 10)
	assert.ErrorIs(t, err, wallet.ErrPersistence)
	require.NoError(t, mock.ExpectationsWereMet())
}
