package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStore_ListHistory(t *testing.T) {
	eng, mock := setupEngineMock(t)
	store := NewHistoryStore(eng.db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `wallet_in`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT \\* FROM `wallet_in`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "receipt_id", "user_id", "name", "price", "value", "value_type", "created"}).
			AddRow(2, "r1", "7", "gems", 100, 5, "free", 1000).
			AddRow(1, "r1", "7", "gems", 100, 20, "paid", 1000))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `wallet_out`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT \\* FROM `wallet_out`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "paid", "free", "reason", "created"}).
			AddRow(1, "7", "gems", 3, 5, "item", 2000))

	page, err := store.ListHistory(context.Background(), "gems", "7", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalInbound)
	assert.Equal(t, int64(1), page.TotalOutbound)
	require.Len(t, page.Inbound, 2)
	assert.Equal(t, "paid", page.Inbound[1].ValueType)
	require.Len(t, page.Outbound, 1)
	assert.Equal(t, int64(3), page.Outbound[0].Paid)
	assert.Equal(t, int64(5), page.Outbound[0].Free)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryStore_ListHistoryError(t *testing.T) {
	eng, mock := setupEngineMock(t)
	store := NewHistoryStore(eng.db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `wallet_in`").WillReturnError(errors.New("db down"))

	_, err := store.ListHistory(context.Background(), "gems", "7", 1, 20)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
