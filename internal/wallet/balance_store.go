package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/iblisbuu/gracenode-wallet/internal/domain"
)

// Balance statements. The upsert is dialect specific, everything else is shared.
const (
	SelectBalanceSQL          = "SELECT paid, free FROM wallet_balance WHERE user_id = ? AND name = ?"
	SelectBalanceForUpdateSQL = SelectBalanceSQL + " FOR UPDATE"
	UpsertBalanceMySQL        = "INSERT INTO wallet_balance (user_id, name, paid, free, created, modified) VALUES (?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE paid = paid + VALUES(paid), free = free + VALUES(free), modified = VALUES(modified)"
	UpsertBalancePostgres     = "INSERT INTO wallet_balance (user_id, name, paid, free, created, modified) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (user_id, name) DO UPDATE SET paid = wallet_balance.paid + EXCLUDED.paid, free = wallet_balance.free + EXCLUDED.free, modified = EXCLUDED.modified"
	UpdateBalanceSQL          = "UPDATE wallet_balance SET paid = ?, free = ?, modified = ? WHERE user_id = ? AND name = ?"
)

// BalanceStore reads and writes the (paid, free) snapshot of a user in a wallet.
type BalanceStore struct {
	upsert string
	now    func() time.Time
}

// NewBalanceStore picks the upsert statement for the given dialect.
func NewBalanceStore(dialect string) *BalanceStore {
	upsert := UpsertBalanceMySQL
	if dialect == DialectPostgres {
		upsert = UpsertBalancePostgres
	}
	return &BalanceStore{upsert: upsert, now: time.Now}
}

// Read returns a zero balance when the user has never been credited.
func (s *BalanceStore) Read(ctx context.Context, q Querier, userID, name string) (domain.Balance, error) {
	return s.read(ctx, q, SelectBalanceSQL, userID, name)
}

// ReadForUpdate is Read with a row lock held until the enclosing transaction ends.
func (s *BalanceStore) ReadForUpdate(ctx context.Context, q Querier, userID, name string) (domain.Balance, error) {
	return s.read(ctx, q, SelectBalanceForUpdateSQL, userID, name)
}

func (s *BalanceStore) read(ctx context.Context, q Querier, query, userID, name string) (domain.Balance, error) {
	var row domain.Balance
	found, err := q.ReadOne(ctx, &row, query, userID, name)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("%w: read balance of user(%s): %v", ErrPersistence, userID, err)
	}
	balance := domain.Balance{UserID: userID, Name: name}
	if found {
		balance.Paid = row.Paid
		balance.Free = row.Free
	}
	return balance, nil
}

// Credit adds the deltas, creating the row on the first credit.
func (s *BalanceStore) Credit(ctx context.Context, q Querier, userID, name string, paid, free int64) error {
	now := s.now().UnixMilli()
	affected, err := q.Write(ctx, s.upsert, userID, name, paid, free, now, now)
	if err != nil {
		return fmt.Errorf("%w: add to balance of user(%s): %v", ErrPersistence, userID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: add to balance of user(%s) affected no rows", ErrPersistence, userID)
	}
	return nil
}

// SetBalance overwrites both buckets. The row must already exist.
func (s *BalanceStore) SetBalance(ctx context.Context, q Querier, userID, name string, paid, free int64) error {
	if paid < 0 || free < 0 || paid+free < 0 {
		return fmt.Errorf("%w: user(%s) paid: %d, free: %d", ErrValidation, userID, paid, free)
	}
	affected, err := q.Write(ctx, UpdateBalanceSQL, paid, free, s.now().UnixMilli(), userID, name)
	if err != nil {
		return fmt.Errorf("%w: update balance of user(%s): %v", ErrPersistence, userID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: update balance of user(%s) affected no rows", ErrPersistence, userID)
	}
	return nil
}
