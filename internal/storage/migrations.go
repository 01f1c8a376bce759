package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the engine expects.
const ExpectedSchemaVersion = 1

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					vendor_id TEXT NOT NULL,
					vendor_name TEXT NOT NULL,
					description TEXT,
					amount REAL NOT NULL CHECK (amount >= 0),
					currency TEXT DEFAULT 'USD',
					date DATETIME NOT NULL,
					category TEXT,
					subcategory TEXT,
					item_code TEXT,
					unit_price REAL DEFAULT 0,
					quantity REAL DEFAULT 0,
					gl_account TEXT,
					contract_id TEXT,
					cost_center TEXT,
					department TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_vendor ON transactions(vendor_id)`,
				`CREATE INDEX idx_transactions_category ON transactions(category)`,

				`CREATE TABLE IF NOT EXISTS contracts (
					vendor_id TEXT PRIMARY KEY,
					vendor_name TEXT NOT NULL,
					start_date DATETIME,
					end_date DATETIME
				)`,
				`CREATE TABLE IF NOT EXISTS contract_categories (
					vendor_id TEXT NOT NULL,
					category TEXT NOT NULL,
					PRIMARY KEY (vendor_id, category),
					FOREIGN KEY (vendor_id) REFERENCES contracts(vendor_id)
				)`,
				`CREATE TABLE IF NOT EXISTS contract_prices (
					vendor_id TEXT NOT NULL,
					item_code TEXT NOT NULL,
					price REAL NOT NULL,
					PRIMARY KEY (vendor_id, item_code),
					FOREIGN KEY (vendor_id) REFERENCES contracts(vendor_id)
				)`,

				`CREATE TABLE IF NOT EXISTS benchmarks (
					category TEXT PRIMARY KEY,
					avg_price REAL NOT NULL,
					market_min REAL DEFAULT 0,
					market_max REAL DEFAULT 0
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= version {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("Applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}
