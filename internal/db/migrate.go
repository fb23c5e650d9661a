package db

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order; schema version N means migrations[:N]
// have run. Append only.
var migrations = [][]string{
	{
		`CREATE TABLE goals (
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			target_date     TEXT NOT NULL,
			days_per_week   INTEGER NOT NULL CHECK (days_per_week BETWEEN 1 AND 7),
			session_minutes INTEGER NOT NULL CHECK (session_minutes > 0),
			preferred_days  TEXT NOT NULL DEFAULT '[]',
			time_of_day     TEXT NOT NULL DEFAULT 'default',
			submission_key  TEXT NOT NULL UNIQUE,
			created_at      TEXT NOT NULL
		)`,
		`CREATE TABLE goal_tasks (
			id               TEXT PRIMARY KEY,
			goal_id          TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
			seq              INTEGER NOT NULL CHECK (seq > 0),
			title            TEXT NOT NULL,
			notes            TEXT NOT NULL DEFAULT '',
			due_at           TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			all_day          INTEGER NOT NULL DEFAULT 0,
			status           TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'completed', 'skipped')),
			UNIQUE (goal_id, seq)
		)`,
		`CREATE INDEX idx_goal_tasks_goal ON goal_tasks(goal_id)`,
		`CREATE INDEX idx_goal_tasks_due ON goal_tasks(due_at)`,
		`CREATE TABLE conversations (
			id              TEXT PRIMARY KEY,
			current_step    TEXT NOT NULL,
			state_json      TEXT NOT NULL,
			transcript_json TEXT NOT NULL DEFAULT '[]',
			goal_id         TEXT,
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL
		)`,
		`CREATE INDEX idx_conversations_updated ON conversations(updated_at)`,
	},
}

// SchemaVersion is the version Migrate brings a database to.
func SchemaVersion() int { return len(migrations) }

// Migrate applies pending migrations, each in its own transaction, and
// records progress in PRAGMA user_version. Running it again is a no-op.
func Migrate(db *sql.DB) error {
	current, err := userVersion(db)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", current, len(migrations))
	}

	for v := current; v < len(migrations); v++ {
		if err := applyMigration(db, v); err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
	}
	return nil
}

func applyMigration(db *sql.DB, v int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, stmt := range migrations[v] {
		if _, err := tx.Exec(stmt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func userVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
