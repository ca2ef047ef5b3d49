package db

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order; the index of the last applied step is
// recorded in PRAGMA user_version. Never edit a released step, append one.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS leads (
			id             TEXT PRIMARY KEY,
			customer_name  TEXT NOT NULL,
			customer_email TEXT NOT NULL DEFAULT '',
			destination    TEXT NOT NULL,
			budget         TEXT NOT NULL,
			trip_type      TEXT NOT NULL DEFAULT '',
			adults         INTEGER NOT NULL DEFAULT 1 CHECK(adults >= 0),
			children       INTEGER NOT NULL DEFAULT 0 CHECK(children >= 0),
			start_date     TEXT,
			end_date       TEXT,
			duration_days  INTEGER NOT NULL DEFAULT 0 CHECK(duration_days >= 0),
			preferences    TEXT NOT NULL DEFAULT '',
			requirements   TEXT NOT NULL DEFAULT '',
			price          TEXT NOT NULL DEFAULT '0',
			status         TEXT NOT NULL DEFAULT 'available'
			               CHECK(status IN ('available','purchased','archived')),
			agent_id       TEXT NOT NULL DEFAULT '',
			purchased_at   TEXT,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_agent ON leads(agent_id)`,

		`CREATE TABLE IF NOT EXISTS packages (
			id                   TEXT PRIMARY KEY,
			title                TEXT NOT NULL,
			description          TEXT NOT NULL DEFAULT '',
			type                 TEXT NOT NULL
			                     CHECK(type IN ('ACTIVITY','TRANSFERS','LAND_PACKAGE','HOTEL','CRUISE','FLIGHT','COMBO','CUSTOM')),
			adult_price          TEXT NOT NULL,
			child_price          TEXT NOT NULL DEFAULT '0',
			currency             TEXT NOT NULL DEFAULT 'USD',
			duration_days        INTEGER NOT NULL DEFAULT 0 CHECK(duration_days >= 0),
			duration_hours       INTEGER NOT NULL DEFAULT 0 CHECK(duration_hours >= 0),
			operator_id          TEXT NOT NULL,
			operator_name        TEXT NOT NULL DEFAULT '',
			rating               REAL NOT NULL DEFAULT 0,
			review_count         INTEGER NOT NULL DEFAULT 0,
			recommendation_score REAL NOT NULL DEFAULT 0,
			status               TEXT NOT NULL DEFAULT 'active'
			                     CHECK(status IN ('active','inactive')),
			created_at           TEXT NOT NULL,
			updated_at           TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_packages_operator ON packages(operator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_packages_status ON packages(status)`,

		`CREATE TABLE IF NOT EXISTS package_destinations (
			package_id  TEXT NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
			destination TEXT NOT NULL,
			position    INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (package_id, destination)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_package_destinations_dest ON package_destinations(destination COLLATE NOCASE)`,

		`CREATE TABLE IF NOT EXISTS itinerary_drafts (
			id           TEXT PRIMARY KEY,
			lead_id      TEXT NOT NULL REFERENCES leads(id),
			agent_id     TEXT NOT NULL,
			title        TEXT NOT NULL DEFAULT '',
			status       TEXT NOT NULL DEFAULT 'draft'
			             CHECK(status IN ('draft','finalized')),
			step         TEXT NOT NULL,
			state        TEXT NOT NULL,
			finalized_at TEXT,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_agent ON itinerary_drafts(agent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_lead ON itinerary_drafts(lead_id)`,

		`CREATE TABLE IF NOT EXISTS change_log (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			table_name TEXT NOT NULL,
			op         TEXT NOT NULL CHECK(op IN ('INSERT','UPDATE','DELETE')),
			record_id  TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_change_log_table ON change_log(table_name, seq)`,
	},
}

// SchemaVersion is the user_version after all migrations are applied.
var SchemaVersion = len(migrations)

// Migrate applies every pending migration step, each in its own transaction.
func Migrate(db *sql.DB) error {
	ctx := context.Background()

	var current int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this binary (%d)", current, len(migrations))
	}

	for v := current; v < len(migrations); v++ {
		if err := applyStep(ctx, db, v+1, migrations[v]); err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
	}
	return nil
}

func applyStep(ctx context.Context, db *sql.DB, version int, stmts []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	committed = true
	return nil
}
