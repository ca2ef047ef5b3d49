package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/alexanderramin/tourdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigrated(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return database, db.NewSQLiteUnitOfWork(database)
}

func changeCount(t *testing.T, database *sql.DB) int {
	t.Helper()
	return testutil.CountRows(t, database, "change_log")
}

func logChange(ctx context.Context, tx db.DBTX, record string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO change_log (table_name, op, record_id, created_at) VALUES ('leads', 'INSERT', ?, '2026-03-02T09:00:00Z')`,
		record)
	return err
}

func TestWithinTx_CommitsBothWrites(t *testing.T) {
	database, uow := openMigrated(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := logChange(ctx, tx, "lead-1"); err != nil {
			return err
		}
		return logChange(ctx, tx, "lead-2")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, changeCount(t, database))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database, uow := openMigrated(t)
	errStop := errors.New("stop after first write")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := logChange(ctx, tx, "lead-1"); err != nil {
			return err
		}
		return errStop
	})
	assert.ErrorIs(t, err, errStop)
	assert.Zero(t, changeCount(t, database))
}

func TestWithinTx_ForeignKeyViolationRollsBack(t *testing.T) {
	database, uow := openMigrated(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := logChange(ctx, tx, "pkg-1"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO package_destinations (package_id, destination) VALUES ('missing', 'Bali')`)
		return err
	})
	require.Error(t, err, "foreign keys are enforced on every connection")
	assert.Zero(t, changeCount(t, database))
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database, uow := openMigrated(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = logChange(ctx, tx, "lead-1")
			panic("boom")
		})
	})
	assert.Zero(t, changeCount(t, database))
}

func TestWithinTx_CancelledContext(t *testing.T) {
	_, uow := openMigrated(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(context.Context, db.DBTX) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestWithinTx_LaterTxSeesCommittedWrites(t *testing.T) {
	database, uow := openMigrated(t)
	ctx := context.Background()

	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return logChange(ctx, tx, "lead-1")
	}))
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		assert.Equal(t, 1, testutil.CountRows(t, tx, "change_log"))
		return logChange(ctx, tx, "lead-2")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, changeCount(t, database))
}
