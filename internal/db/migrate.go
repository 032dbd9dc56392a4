package db

import (
	"github.com/iblisbuu/gracenode-wallet/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Migrate creates the users table and the wallet_balance, wallet_in and
// wallet_out tables with their keys and indexes
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&domain.User{},
		&domain.Balance{},
		&domain.InboundEntry{},
		&domain.OutboundEntry{},
	)
}
