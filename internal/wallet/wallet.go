package wallet

import (
	"context"

	"github.com/iblisbuu/gracenode-wallet/internal/domain"
	"github.com/sirupsen/logrus"
)

// Wallet is a named ledger. It holds no balances itself, all state lives in the engine.
type Wallet struct {
	engine Engine
	ledger *ledger
}

func newWallet(name string, engine Engine, log logrus.FieldLogger) *Wallet {
	return &Wallet{
		engine: engine,
		ledger: &ledger{
			name:    name,
			store:   NewBalanceStore(engine.Dialect()),
			history: NewHistoryRecorder(),
			log:     log.WithField("wallet", name),
		},
	}
}

// Name is the registry key of the wallet.
func (w *Wallet) Name() string {
	return w.ledger.name
}

// OpOption customizes a single Credit or Debit call.
type OpOption func(*opConfig)

type opConfig struct {
	hooks []func(ctx context.Context) error
}

// OnApplied runs fn inside the transaction once the operation succeeded and
// before commit. An error from fn rolls the operation back.
func OnApplied(fn func(ctx context.Context) error) OpOption {
	return func(c *opConfig) {
		if fn != nil {
			c.hooks = append(c.hooks, fn)
		}
	}
}

func (w *Wallet) run(ctx context.Context, opts []OpOption, op func(tx Querier) error) error {
	var cfg opConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return w.engine.RunTransaction(ctx, func(tx Querier) error {
		if err := op(tx); err != nil {
			return err
		}
		for _, hook := range cfg.hooks {
			if err := hook(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetBalance reads the current balance outside of any transaction.
func (w *Wallet) GetBalance(ctx context.Context, userID string) (domain.Balance, error) {
	return w.ledger.store.Read(ctx, w.engine, userID, w.ledger.name)
}

// Credit adds amounts to the user's balance and records one inbound entry per
// non-zero bucket, all in one transaction.
func (w *Wallet) Credit(ctx context.Context, receiptID, userID string, price int64, amounts Amounts, opts ...OpOption) error {
	if err := w.run(ctx, opts, func(tx Querier) error {
		return w.ledger.credit(ctx, tx, receiptID, userID, price, amounts)
	}); err != nil {
		w.logFailure(ctx, "credit", userID, err)
		return err
	}
	return nil
}

// AddPaid credits the paid bucket for a purchase of the given price.
func (w *Wallet) AddPaid(ctx context.Context, receiptID, userID string, price, value int64, opts ...OpOption) error {
	return w.Credit(ctx, receiptID, userID, price, Amounts{Paid: value}, opts...)
}

// AddFree credits the free bucket. Free credits carry no price.
func (w *Wallet) AddFree(ctx context.Context, receiptID, userID string, value int64, opts ...OpOption) error {
	return w.Credit(ctx, receiptID, userID, 0, Amounts{Free: value}, opts...)
}

// Debit spends amount, free balance first, and records the split.
func (w *Wallet) Debit(ctx context.Context, userID string, amount int64, reason string, opts ...OpOption) error {
	if err := w.run(ctx, opts, func(tx Querier) error {
		return w.ledger.debit(ctx, tx, userID, amount, reason)
	}); err != nil {
		w.logFailure(ctx, "debit", userID, err)
		return err
	}
	return nil
}

// Batch runs work in a single transaction. Nothing is committed unless work
// returns nil and none of its operations failed.
func (w *Wallet) Batch(ctx context.Context, work func(b *Batch) error) error {
	err := w.engine.RunTransaction(ctx, func(tx Querier) error {
		b := &Batch{ctx: ctx, tx: tx, ledger: w.ledger}
		werr := work(b)
		if b.err != nil {
			return b.err
		}
		return werr
	})
	if err != nil {
		w.logFailure(ctx, "batch", "", err)
	}
	return err
}

func (w *Wallet) logFailure(ctx context.Context, op, userID string, err error) {
	fields := logrus.Fields{"op": op, "error": err.Error()}
	if userID != "" {
		fields["user_id"] = userID
	}
	w.ledger.logger(ctx).WithFields(fields).Error("wallet operation rolled back")
}
