package db

import (
	"fmt"  // DSN formatting
	"time" // Pool lifetimes

	"github.com/iblisbuu/gracenode-wallet/internal/config" // Custom package for configuration
	"github.com/iblisbuu/gracenode-wallet/internal/wallet" // Dialect names

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	"gorm.io/gorm/logger"     // GORM logger configuration
)

// Connection pool settings
const (
	maxIdleConns    = 10
	maxOpenConns    = 100
	connMaxLifetime = time.Hour
	connMaxIdleTime = 30 * time.Minute
)

// DSN builds the data source name for the configured driver
func DSN(cfg *config.Config) string {
	if cfg.DBDriver == wallet.DialectPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	}
	return cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
}

// Open connects to the configured database and applies the pool settings
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector // Driver selected by DB_DRIVER
	switch cfg.DBDriver {
	case wallet.DialectMySQL:
		dialector = mysql.Open(DSN(cfg))
	case wallet.DialectPostgres:
		dialector = postgres.Open(DSN(cfg))
	default:
		return nil, fmt.Errorf("%w: unsupported DB_DRIVER %q", wallet.ErrConfiguration, cfg.DBDriver)
	}

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn), // Only warnings and errors
	}
	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	sqlDB, err := gdb.DB() // Underlying pool
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return gdb, nil
}
