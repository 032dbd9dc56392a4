package wallet

import (
	"context"
	"fmt"

	"github.com/iblisbuu/gracenode-wallet/internal/domain"
	"github.com/sirupsen/logrus"
)

// Amounts is the split of a credit across both buckets.
type Amounts struct {
	Paid int64 `json:"paid"`
	Free int64 `json:"free"`
}

// Total is the credited sum.
func (a Amounts) Total() int64 {
	return a.Paid + a.Free
}

// ledger holds the credit/debit steps. Every method runs against a handle the
// caller already opened, so single calls and batches share the same code.
type ledger struct {
	name    string
	store   *BalanceStore
	history *HistoryRecorder
	log     logrus.FieldLogger
}

func (l *ledger) credit(ctx context.Context, tx Querier, receiptID, userID string, price int64, amounts Amounts) error {
	if amounts.Paid < 0 || amounts.Free < 0 || amounts.Total() <= 0 {
		return fmt.Errorf("%w: invalid value to add given: paid %d, free %d", ErrInvalidAmount, amounts.Paid, amounts.Free)
	}

	if err := l.store.Credit(ctx, tx, userID, l.name, amounts.Paid, amounts.Free); err != nil {
		return err
	}

	buckets := []struct {
		valueType string
		value     int64
	}{
		{domain.ValueTypePaid, amounts.Paid},
		{domain.ValueTypeFree, amounts.Free},
	}
	for _, b := range buckets {
		if b.value == 0 {
			continue
		}
		entry := domain.InboundEntry{
			ReceiptID: receiptID,
			UserID:    userID,
			Name:      l.name,
			Price:     price,
			Value:     b.value,
			ValueType: b.valueType,
		}
		if err := l.history.RecordInbound(ctx, tx, entry); err != nil {
			return err
		}
		l.logger(ctx).WithFields(logrus.Fields{
			"user_id":    userID,
			"receipt_id": receiptID,
			"value_type": b.valueType,
			"value":      b.value,
		}).Info("balance added")
	}
	return nil
}

func (l *ledger) debit(ctx context.Context, tx Querier, userID string, amount int64, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: invalid value to spend given: %d", ErrInvalidAmount, amount)
	}

	balance, err := l.store.ReadForUpdate(ctx, tx, userID, l.name)
	if err != nil {
		return err
	}
	total := balance.Total()

	entry := l.logger(ctx).WithFields(logrus.Fields{"user_id": userID, "amount": amount, "total": total})
	entry.Info("trying to spend")

	if total < amount {
		return fmt.Errorf("%w: user(%s) has %d, wants %d", ErrInsufficientBalance, userID, total, amount)
	}

	split := Allocate(amount, balance.Paid, balance.Free)
	if err := l.store.SetBalance(ctx, tx, userID, l.name, split.PaidOut, split.FreeOut); err != nil {
		return err
	}

	out := domain.OutboundEntry{
		UserID: userID,
		Name:   l.name,
		Paid:   split.PaidSpent,
		Free:   split.FreeSpent,
		Reason: reason,
	}
	if err := l.history.RecordOutbound(ctx, tx, out); err != nil {
		return err
	}

	entry.WithFields(logrus.Fields{"paid": split.PaidSpent, "free": split.FreeSpent, "reason": reason}).Info("spent")
	return nil
}
