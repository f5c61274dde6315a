package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

// SchemaVersion is the version Migrate leaves the database at.
const SchemaVersion = 3

type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Members and transactions",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS members (
					uid TEXT NOT NULL,
					id TEXT NOT NULL,
					name TEXT NOT NULL,
					name_key TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					PRIMARY KEY (uid, id),
					UNIQUE (uid, name_key)
				)`,
				`CREATE TABLE IF NOT EXISTS transactions (
					uid TEXT NOT NULL,
					id TEXT NOT NULL,
					member_id TEXT NOT NULL DEFAULT '',
					member TEXT NOT NULL DEFAULT '',
					category TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL,
					notes TEXT NOT NULL DEFAULT '',
					amount TEXT NOT NULL,
					currency TEXT NOT NULL DEFAULT '',
					direction TEXT NOT NULL CHECK (direction IN ('inflow', 'outflow')),
					date TEXT NOT NULL,
					goal_id TEXT NOT NULL DEFAULT '',
					source TEXT NOT NULL,
					external_id TEXT NOT NULL DEFAULT '',
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					PRIMARY KEY (uid, id)
				)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(uid, date)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Monthly budgets",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS budgets (
					uid TEXT NOT NULL,
					id TEXT NOT NULL,
					category TEXT NOT NULL,
					category_key TEXT NOT NULL,
					limit_amount TEXT NOT NULL,
					month TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					PRIMARY KEY (uid, id),
					UNIQUE (uid, month, category_key)
				)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Bank id and pending flag for imported transactions",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE transactions ADD COLUMN bank_id TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE transactions ADD COLUMN pending INTEGER NOT NULL DEFAULT 0`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_external ON transactions(uid, source, external_id)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, q := range queries {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", q, err)
		}
	}
	return nil
}

// Version returns the schema version recorded in the database.
func (d *DB) Version(ctx context.Context) (int, error) {
	var v int
	if err := d.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, errs.NewDatabaseError("migrate", "failed to get schema version", err)
	}
	return v, nil
}

// Migrate applies every pending migration, each in its own transaction.
// Existing data is never dropped.
func (d *DB) Migrate(ctx context.Context) error {
	log := logger.FromContext(ctx)

	current, err := d.Version(ctx)
	if err != nil {
		return err
	}
	if current > SchemaVersion {
		return errs.NewDatabaseError("migrate",
			fmt.Sprintf("database schema version %d is newer than supported version %d", current, SchemaVersion), nil)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return errs.NewDatabaseError("migrate", "failed to begin transaction", err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return errs.NewDatabaseError("migrate", fmt.Sprintf("migration %d failed", m.Version), err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return errs.NewDatabaseError("migrate", "failed to update schema version", err)
		}
		if err := tx.Commit(); err != nil {
			return errs.NewDatabaseError("migrate", fmt.Sprintf("failed to commit migration %d", m.Version), err)
		}

		log.Info("applied migration", "version", m.Version, "description", m.Description)
	}
	return nil
}
