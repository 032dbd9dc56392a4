package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/iblisbuu/gracenode-wallet/internal/domain"
)

// History statements. Entries are append only.
const (
	InsertInboundSQL  = "INSERT INTO wallet_in (receipt_id, user_id, name, price, value, value_type, created) VALUES (?, ?, ?, ?, ?, ?, ?)"
	InsertOutboundSQL = "INSERT INTO wallet_out (user_id, name, paid, free, reason, created) VALUES (?, ?, ?, ?, ?, ?)"
)

// HistoryRecorder appends wallet_in and wallet_out rows.
type HistoryRecorder struct {
	now func() time.Time
}

func NewHistoryRecorder() *HistoryRecorder {
	return &HistoryRecorder{now: time.Now}
}

// RecordInbound stamps entry.Created when unset.
func (h *HistoryRecorder) RecordInbound(ctx context.Context, q Querier, entry domain.InboundEntry) error {
	if entry.Created == 0 {
		entry.Created = h.now().UnixMilli()
	}
	affected, err := q.Write(ctx, InsertInboundSQL,
		entry.ReceiptID, entry.UserID, entry.Name, entry.Price, entry.Value, entry.ValueType, entry.Created)
	if err != nil {
		return fmt.Errorf("%w: record inbound %s for user(%s): %v", ErrPersistence, entry.ValueType, entry.UserID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: record inbound %s for user(%s) affected no rows", ErrPersistence, entry.ValueType, entry.UserID)
	}
	return nil
}

// RecordOutbound stamps entry.Created when unset.
func (h *HistoryRecorder) RecordOutbound(ctx context.Context, q Querier, entry domain.OutboundEntry) error {
	if entry.Created == 0 {
		entry.Created = h.now().UnixMilli()
	}
	affected, err := q.Write(ctx, InsertOutboundSQL,
		entry.UserID, entry.Name, entry.Paid, entry.Free, entry.Reason, entry.Created)
	if err != nil {
		return fmt.Errorf("%w: record outbound for user(%s): %v", ErrPersistence, entry.UserID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: record outbound for user(%s) affected no rows", ErrPersistence, entry.UserID)
	}
	return nil
}
