package db

import (
	"context"

	"github.com/iblisbuu/gracenode-wallet/internal/wallet"

	"gorm.io/gorm"
)

// Engine runs the ledger's statements through gorm. The same type serves the
// pool and an open transaction: RunTransaction hands work an Engine bound to tx.
type Engine struct {
	db      *gorm.DB
	dialect string
}

var _ wallet.Engine = (*Engine)(nil)

// NewEngine wraps a connected gorm handle.
func NewEngine(gdb *gorm.DB) *Engine {
	return &Engine{db: gdb, dialect: gdb.Dialector.Name()}
}

func (e *Engine) Dialect() string {
	return e.dialect
}

// ReadOne scans the first row of query into dest. No match reports false.
func (e *Engine) ReadOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	res := e.db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Write executes query and returns the affected row count.
func (e *Engine) Write(ctx context.Context, query string, args ...any) (int64, error) {
	res := e.db.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// RunTransaction commits when work returns nil and rolls back on error or panic.
func (e *Engine) RunTransaction(ctx context.Context, work func(tx wallet.Querier) error) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return work(&Engine{db: tx, dialect: e.dialect})
	})
}
