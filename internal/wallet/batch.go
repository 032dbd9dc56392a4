package wallet

import "context"

// Batch issues credits and debits against the transaction of Wallet.Batch.
// The first failing operation aborts the batch: the transaction rolls back
// and every later call returns that same error without touching the store.
type Batch struct {
	ctx    context.Context
	tx     Querier
	ledger *ledger
	err    error
}

// Credit is Wallet.Credit inside the batch.
func (b *Batch) Credit(receiptID, userID string, price int64, amounts Amounts) error {
	return b.do(func() error {
		return b.ledger.credit(b.ctx, b.tx, receiptID, userID, price, amounts)
	})
}

// AddPaid is Wallet.AddPaid inside the batch.
func (b *Batch) AddPaid(receiptID, userID string, price, value int64) error {
	return b.Credit(receiptID, userID, price, Amounts{Paid: value})
}

// AddFree is Wallet.AddFree inside the batch.
func (b *Batch) AddFree(receiptID, userID string, value int64) error {
	return b.Credit(receiptID, userID, 0, Amounts{Free: value})
}

// Debit is Wallet.Debit inside the batch.
func (b *Batch) Debit(userID string, amount int64, reason string) error {
	return b.do(func() error {
		return b.ledger.debit(b.ctx, b.tx, userID, amount, reason)
	})
}

// Err reports the error that aborted the batch, if any.
func (b *Batch) Err() error {
	return b.err
}

func (b *Batch) do(op func() error) error {
	if b.err != nil {
		return b.err
	}
	if err := op(); err != nil {
		b.err = err
		return err
	}
	return nil
}
