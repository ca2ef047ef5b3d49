package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private in-memory database with the tourdesk schema
// migrated. It is closed by t.Cleanup.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening in-memory database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in the unit of work the services write through.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// CountRows returns the number of rows in table. Tests use it to check that
// a rolled-back use case left nothing behind.
func CountRows(t testing.TB, conn db.DBTX, table string) int {
	t.Helper()
	var n int
	err := conn.QueryRowContext(t.Context(), fmt.Sprintf("SELECT COUNT(*) FROM %q", table)).Scan(&n)
	require.NoError(t, err, "counting %s", table)
	return n
}
