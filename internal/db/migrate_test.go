package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var version int
	require.NoError(t, db.QueryRow(`PRAGMA user_version`).Scan(&version))
	assert.Equal(t, SchemaVersion, version)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"leads", "packages", "package_destinations", "itinerary_drafts", "change_log"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_leads_status",
		"idx_leads_agent",
		"idx_packages_operator",
		"idx_packages_status",
		"idx_package_destinations_dest",
		"idx_drafts_agent",
		"idx_drafts_lead",
		"idx_change_log_table",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`PRAGMA user_version = 999`)
	require.NoError(t, err)

	err = Migrate(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer")
}

func TestMigrate_EnforcesCheckConstraints(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO packages (id, title, type, adult_price, operator_id, created_at, updated_at)
		VALUES ('p1', 'Boat', 'SUBMARINE', '10', 'op', 'now', 'now')`)
	assert.Error(t, err)
}
