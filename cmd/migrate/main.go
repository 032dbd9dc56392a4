package main

import (
	"fmt" // Error wrapping

	"github.com/iblisbuu/gracenode-wallet/internal/config" // Configuration
	"github.com/iblisbuu/gracenode-wallet/internal/db"     // Database connection and schema
	"github.com/sirupsen/logrus"                           // Logging library
)

// run validates cfg before touching the database, then migrates the schema
func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	gdb, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	if err := run(cfg); err != nil {
		logrus.Fatal(err)
	}
	logrus.WithField("driver", cfg.DBDriver).Info("Migration completed")
}
