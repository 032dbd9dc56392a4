package db

import (
	"context"

	"github.com/iblisbuu/gracenode-wallet/internal/domain"

	"gorm.io/gorm"
)

// HistoryStore pages through the append-only history tables.
type HistoryStore struct {
	db *gorm.DB
}

func NewHistoryStore(gdb *gorm.DB) *HistoryStore {
	return &HistoryStore{db: gdb}
}

// ListHistory returns the newest entries first. page starts at 1.
func (s *HistoryStore) ListHistory(ctx context.Context, walletName, userID string, page, pageSize int) (domain.HistoryPage, error) {
	out := domain.HistoryPage{
		Inbound:  []domain.InboundEntry{},
		Outbound: []domain.OutboundEntry{},
		Page:     page,
		PageSize: pageSize,
	}
	offset := (page - 1) * pageSize
	owner := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, walletName).Session(&gorm.Session{})

	if err := owner.Model(&domain.InboundEntry{}).Count(&out.TotalInbound).Error; err != nil {
		return out, err
	}
	if err := owner.Order("id desc").Offset(offset).Limit(pageSize).Find(&out.Inbound).Error; err != nil {
		return out, err
	}
	if err := owner.Model(&domain.OutboundEntry{}).Count(&out.TotalOutbound).Error; err != nil {
		return out, err
	}
	if err := owner.Order("id desc").Offset(offset).Limit(pageSize).Find(&out.Outbound).Error; err != nil {
		return out, err
	}
	return out, nil
}
