package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)
	ctx := context.Background()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	lead := testutil.NewTestLead("Bali", testutil.WithBudget("2500.50"), testutil.WithStartDate(start))
	require.NoError(t, repo.Create(ctx, lead))

	fetched, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bali", fetched.Destination)
	assert.Equal(t, "2500.5", fetched.Budget.String())
	assert.Equal(t, 5, fetched.Duration)
	assert.Equal(t, 2, fetched.Adults)
	assert.Equal(t, domain.LeadAvailable, fetched.Status)
	require.NotNil(t, fetched.StartDate)
	assert.Equal(t, "2026-07-01", fetched.StartDate.Format(dateLayout))
	assert.Nil(t, fetched.EndDate)
	assert.Nil(t, fetched.PurchasedAt)
}

func TestLeadRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeadRepo_List_Filters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)
	ctx := context.Background()

	bali := testutil.NewTestLead("Bali")
	paris := testutil.NewTestLead("Paris", testutil.WithPurchasedBy("agent-1"))
	lisbon := testutil.NewTestLead("Lisbon", testutil.WithPurchasedBy("agent-2"))
	for _, l := range []*domain.Lead{bali, paris, lisbon} {
		require.NoError(t, repo.Create(ctx, l))
	}

	all, err := repo.List(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	available, err := repo.List(ctx, LeadFilter{Status: domain.LeadAvailable})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, bali.ID, available[0].ID)

	mine, err := repo.List(ctx, LeadFilter{AgentID: "agent-1"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, paris.ID, mine[0].ID)

	byDest, err := repo.List(ctx, LeadFilter{Destination: "lis"})
	require.NoError(t, err)
	require.Len(t, byDest, 1)
	assert.Equal(t, lisbon.ID, byDest[0].ID)
}

func TestLeadRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)
	ctx := context.Background()

	lead := testutil.NewTestLead("Bali")
	require.NoError(t, repo.Create(ctx, lead))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, lead.Purchase("agent-9", now))
	require.NoError(t, repo.Update(ctx, lead))

	fetched, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadPurchased, fetched.Status)
	assert.Equal(t, "agent-9", fetched.AgentID)
	require.NotNil(t, fetched.PurchasedAt)
	assert.True(t, now.Equal(*fetched.PurchasedAt))
}

func TestLeadRepo_Update_Missing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)

	err := repo.Update(context.Background(), testutil.NewTestLead("Nowhere"))
	assert.ErrorIs(t, err, ErrNotFound)
}
