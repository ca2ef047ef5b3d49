package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeLog_AppendSinceHead(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteChangeLogRepo(db)
	ctx := context.Background()

	head, err := repo.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), head)

	require.NoError(t, repo.Append(ctx, TableLeads, domain.ChangeInsert, "l1"))
	require.NoError(t, repo.Append(ctx, TablePackages, domain.ChangeInsert, "p1"))
	require.NoError(t, repo.Append(ctx, TableLeads, domain.ChangeUpdate, "l1"))

	head, err = repo.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), head)

	all, err := repo.Since(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	leads, err := repo.Since(ctx, TableLeads, 0, 10)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, domain.ChangeInsert, leads[0].Op)
	assert.Equal(t, domain.ChangeUpdate, leads[1].Op)
	assert.Less(t, leads[0].Seq, leads[1].Seq)

	after, err := repo.Since(ctx, TableLeads, leads[0].Seq, 10)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "l1", after[0].RecordID)
	assert.False(t, after[0].CreatedAt.IsZero())
}

func TestChangeLog_RejectsUnknownOp(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteChangeLogRepo(db)

	err := repo.Append(context.Background(), TableLeads, domain.ChangeOp("UPSERT"), "l1")
	assert.Error(t, err)
}

func TestChangeLog_Limit(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteChangeLogRepo(db)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, TableDrafts, domain.ChangeUpdate, "d"))
	}

	page, err := repo.Since(ctx, TableDrafts, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
