// Package wallettest provides an in-memory wallet.Engine for tests.
//
// The engine understands exactly the statements issued by package wallet.
// Transactions are serialized and roll back by restoring a snapshot, which
// models the row locking the SQL engines provide.
package wallettest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/iblisbuu/gracenode-wallet/internal/domain"
	"github.com/iblisbuu/gracenode-wallet/internal/wallet"
)

type key struct {
	userID string
	name   string
}

type state struct {
	balances map[key]domain.Balance
	inbound  []domain.InboundEntry
	outbound []domain.OutboundEntry
}

func (s state) clone() state {
	c := state{
		balances: make(map[key]domain.Balance, len(s.balances)),
		inbound:  append([]domain.InboundEntry(nil), s.inbound...),
		outbound: append([]domain.OutboundEntry(nil), s.outbound...),
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	return c
}

// Engine is a wallet.Engine backed by maps.
type Engine struct {
	mu        sync.Mutex
	st        state
	failures  map[string]error
	nth       map[string]nthFailure
	seen      map[string]int
	zeroRows  map[string]bool
	dialect   string
	calls     atomic.Int64
	commits   atomic.Int64
	rollbacks atomic.Int64
}

type nthFailure struct {
	n   int
	err error
}

var _ wallet.Engine = (*Engine)(nil)

func NewEngine() *Engine {
	return &Engine{
		st:       state{balances: map[key]domain.Balance{}},
		failures: map[string]error{},
		nth:      map[string]nthFailure{},
		seen:     map[string]int{},
		zeroRows: map[string]bool{},
		dialect:  wallet.DialectMySQL,
	}
}

// FailOn makes every execution of query return err.
func (e *Engine) FailOn(query string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[query] = err
}

// FailOnNth makes only the nth execution (1-based) of query return err.
func (e *Engine) FailOnNth(query string, n int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nth[query] = nthFailure{n: n, err: err}
}

// ZeroRowsOn makes writes of query report zero affected rows without applying them.
func (e *Engine) ZeroRowsOn(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zeroRows[query] = true
}

// Seed stores a balance row directly.
func (e *Engine) Seed(b domain.Balance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.balances[key{b.UserID, b.Name}] = b
}

// Balance returns the stored row, if any.
func (e *Engine) Balance(userID, name string) (domain.Balance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.st.balances[key{userID, name}]
	return b, ok
}

// Inbound returns a copy of all wallet_in rows.
func (e *Engine) Inbound() []domain.InboundEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.InboundEntry(nil), e.st.inbound...)
}

// Outbound returns a copy of all wallet_out rows.
func (e *Engine) Outbound() []domain.OutboundEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.OutboundEntry(nil), e.st.outbound...)
}

// Calls counts the statements executed so far. Safe to call from inside a transaction.
func (e *Engine) Calls() int {
	return int(e.calls.Load())
}

// Commits counts committed transactions.
func (e *Engine) Commits() int {
	return int(e.commits.Load())
}

// Rollbacks counts rolled back transactions.
func (e *Engine) Rollbacks() int {
	return int(e.rollbacks.Load())
}

func (e *Engine) Dialect() string {
	return e.dialect
}

func (e *Engine) ReadOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readOne(dest, query, args)
}

func (e *Engine) Write(ctx context.Context, query string, args ...any) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.write(query, args)
}

func (e *Engine) RunTransaction(ctx context.Context, work func(tx wallet.Querier) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.st.clone()
	defer func() {
		if r := recover(); r != nil {
			e.st = snapshot
			e.rollbacks.Add(1)
			panic(r)
		}
	}()

	if err := work(txHandle{e}); err != nil {
		e.st = snapshot
		e.rollbacks.Add(1)
		return err
	}
	e.commits.Add(1)
	return nil
}

// txHandle runs statements while RunTransaction holds the lock.
type txHandle struct {
	e *Engine
}

func (t txHandle) ReadOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	return t.e.readOne(dest, query, args)
}

func (t txHandle) Write(ctx context.Context, query string, args ...any) (int64, error) {
	return t.e.write(query, args)
}

func (e *Engine) readOne(dest any, query string, args []any) (bool, error) {
	if err := e.inject(query); err != nil {
		return false, err
	}
	switch query {
	case wallet.SelectBalanceSQL, wallet.SelectBalanceForUpdateSQL:
		row, ok := dest.(*domain.Balance)
		if !ok {
			return false, fmt.Errorf("wallettest: unexpected dest %T", dest)
		}
		b, found := e.st.balances[key{str(args[0]), str(args[1])}]
		if !found {
			return false, nil
		}
		*row = b
		return true, nil
	}
	return false, fmt.Errorf("wallettest: unknown query %q", query)
}

func (e *Engine) write(query string, args []any) (int64, error) {
	if err := e.inject(query); err != nil {
		return 0, err
	}
	if e.zeroRows[query] {
		return 0, nil
	}
	switch query {
	case wallet.UpsertBalanceMySQL, wallet.UpsertBalancePostgres:
		k := key{str(args[0]), str(args[1])}
		b, found := e.st.balances[k]
		if !found {
			e.st.balances[k] = domain.Balance{
				UserID:   k.userID,
				Name:     k.name,
				Paid:     num(args[2]),
				Free:     num(args[3]),
				Created:  num(args[4]),
				Modified: num(args[5]),
			}
			return 1, nil
		}
		b.Paid += num(args[2])
		b.Free += num(args[3])
		b.Modified = num(args[5])
		e.st.balances[k] = b
		return 2, nil
	case wallet.UpdateBalanceSQL:
		k := key{str(args[3]), str(args[4])}
		b, found := e.st.balances[k]
		if !found {
			return 0, nil
		}
		b.Paid = num(args[0])
		b.Free = num(args[1])
		b.Modified = num(args[2])
		e.st.balances[k] = b
		return 1, nil
	case wallet.InsertInboundSQL:
		e.st.inbound = append(e.st.inbound, domain.InboundEntry{
			ID:        uint(len(e.st.inbound) + 1),
			ReceiptID: str(args[0]),
			UserID:    str(args[1]),
			Name:      str(args[2]),
			Price:     num(args[3]),
			Value:     num(args[4]),
			ValueType: str(args[5]),
			Created:   num(args[6]),
		})
		return 1, nil
	case wallet.InsertOutboundSQL:
		e.st.outbound = append(e.st.outbound, domain.OutboundEntry{
			ID:      uint(len(e.st.outbound) + 1),
			UserID:  str(args[0]),
			Name:    str(args[1]),
			Paid:    num(args[2]),
			Free:    num(args[3]),
			Reason:  str(args[4]),
			Created: num(args[5]),
		})
		return 1, nil
	}
	return 0, fmt.Errorf("wallettest: unknown query %q", query)
}

func (e *Engine) inject(query string) error {
	e.calls.Add(1)
	e.seen[query]++
	if err := e.failures[query]; err != nil {
		return err
	}
	if f, ok := e.nth[query]; ok && f.n == e.seen[query] {
		return f.err
	}
	return nil
}

// ErrInjected is a ready-made failure for FailOn.
var ErrInjected = errors.New("wallettest: injected failure")

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}
