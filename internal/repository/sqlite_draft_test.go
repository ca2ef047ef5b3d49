package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDraft(leadID, agentID string) *domain.ItineraryDraft {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.ItineraryDraft{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		AgentID:   agentID,
		Status:    domain.DraftOpen,
		Step:      domain.StepPackageSelection,
		State:     []byte(`{"version":1}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDraftRepo_CreateGetUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Bali", testutil.WithPurchasedBy("agent-1"))
	require.NoError(t, NewSQLiteLeadRepo(db).Create(ctx, lead))

	repo := NewSQLiteDraftRepo(db)
	d := newTestDraft(lead.ID, "agent-1")
	require.NoError(t, repo.Create(ctx, d))

	fetched, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftOpen, fetched.Status)
	assert.JSONEq(t, `{"version":1}`, string(fetched.State))
	assert.Nil(t, fetched.FinalizedAt)

	now := time.Now().UTC().Truncate(time.Second)
	d.Status = domain.DraftFinalized
	d.Step = domain.StepReview
	d.Title = "Bali escape"
	d.FinalizedAt = &now
	d.UpdatedAt = now
	require.NoError(t, repo.Update(ctx, d))

	fetched, err = repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsFinalized())
	assert.Equal(t, domain.StepReview, fetched.Step)
	assert.Equal(t, "Bali escape", fetched.Title)
	require.NotNil(t, fetched.FinalizedAt)
}

func TestDraftRepo_RequiresExistingLead(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteDraftRepo(db)

	err := repo.Create(context.Background(), newTestDraft("no-such-lead", "agent-1"))
	assert.Error(t, err)
}

func TestDraftRepo_ListByAgentAndLead(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	leads := NewSQLiteLeadRepo(db)
	l1 := testutil.NewTestLead("Bali")
	l2 := testutil.NewTestLead("Paris")
	require.NoError(t, leads.Create(ctx, l1))
	require.NoError(t, leads.Create(ctx, l2))

	repo := NewSQLiteDraftRepo(db)
	require.NoError(t, repo.Create(ctx, newTestDraft(l1.ID, "agent-1")))
	require.NoError(t, repo.Create(ctx, newTestDraft(l2.ID, "agent-1")))
	require.NoError(t, repo.Create(ctx, newTestDraft(l2.ID, "agent-2")))

	mine, err := repo.ListByAgent(ctx, "agent-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	forLead, err := repo.ListByLead(ctx, l2.ID)
	require.NoError(t, err)
	assert.Len(t, forLead, 2)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
