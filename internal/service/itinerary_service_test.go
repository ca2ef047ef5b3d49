package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/alexanderramin/tourdesk/internal/testutil"
	"github.com/alexanderramin/tourdesk/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItineraryService_StartRequiresOwnedLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.purchasedLead(t, testutil.TestAgent)

	_, err := f.itinerary.Start(ctx, testutil.OtherAgent, lead.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = f.itinerary.Start(ctx, testutil.TestOperator, lead.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	it, err := f.itinerary.Start(ctx, testutil.TestAgent, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPackageSelection, it.State.Step)
	require.NotNil(t, it.State.Lead)
	assert.Equal(t, lead.ID, it.State.Lead.ID)
	assert.True(t, it.State.Budget.Total.Equal(lead.Budget))
	assert.Equal(t, "Bali trip for Test Customer", it.Draft.Title)
	assert.False(t, it.Validation.IsValid)
}

func TestItineraryService_FullWizardToFinalize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.TestAgent
	lead := f.purchasedLead(t, agent, testutil.WithBudget("2000"), testutil.WithDuration(5))
	temple := f.publishedPackage(t, "Temple", "150")
	transfer := f.publishedPackage(t, "Transfer", "80")

	it, err := f.itinerary.Start(ctx, agent, lead.ID)
	require.NoError(t, err)
	id := it.Draft.ID

	_, err = f.itinerary.Apply(ctx, agent, id, wizard.NextStep{})
	assert.ErrorIs(t, err, wizard.ErrStepBlocked, "cannot leave package selection empty-handed")

	_, err = f.itinerary.AddPackage(ctx, agent, id, temple.ID)
	require.NoError(t, err)
	it, err = f.itinerary.AddPackage(ctx, agent, id, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, "230", it.State.Budget.Used.String())
	assert.Equal(t, "1770", it.State.Budget.Remaining.String())

	it, err = f.itinerary.Apply(ctx, agent, id, wizard.NextStep{})
	require.NoError(t, err)
	assert.Equal(t, domain.StepDayPlanning, it.State.Step)
	require.Len(t, it.State.Days, 5)
	assert.Equal(t, "2026-03-02", it.State.Days[0].Date.Format("2006-01-02"))
	assert.Equal(t, "Bali", it.State.Days[0].Location)

	sel := it.State.SelectedPackages[0].ID
	it, err = f.itinerary.Apply(ctx, agent, id, wizard.AssignPackageToDay{
		SelectionID: sel, DayID: it.State.Days[0].ID, TimeSlot: "09:00-13:00",
	})
	require.NoError(t, err)
	assert.True(t, it.Validation.DaysValid)

	_, err = f.itinerary.Apply(ctx, agent, id, wizard.NextStep{})
	require.NoError(t, err)
	it, err = f.itinerary.Apply(ctx, agent, id, wizard.SetDetails{Title: "Bali escape", Notes: "honeymoon"})
	require.NoError(t, err)
	assert.Equal(t, "Bali escape", it.Draft.Title)

	_, err = f.itinerary.Finalize(ctx, agent, id)
	require.ErrorIs(t, err, ErrIncomplete, "must reach review first")

	_, err = f.itinerary.Apply(ctx, agent, id, wizard.NextStep{})
	require.NoError(t, err)
	it, err = f.itinerary.Finalize(ctx, agent, id)
	require.NoError(t, err)
	assert.True(t, it.Draft.IsFinalized())
	require.NotNil(t, it.Draft.FinalizedAt)

	_, err = f.itinerary.Apply(ctx, agent, id, wizard.PreviousStep{})
	assert.ErrorIs(t, err, ErrFinalized)
	_, err = f.itinerary.Finalize(ctx, agent, id)
	assert.ErrorIs(t, err, ErrFinalized)

	reloaded, err := f.itinerary.Get(ctx, agent, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepReview, reloaded.State.Step)
	assert.Equal(t, "honeymoon", reloaded.State.Notes)
	assert.Len(t, reloaded.State.SelectedPackages, 2)
	assert.Len(t, reloaded.State.Days[0].Activities, 1)
	assert.True(t, reloaded.Validation.IsValid)
}

func TestItineraryService_FinalizeRefusesInvalidDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.purchasedLead(t, testutil.TestAgent)

	it, err := f.itinerary.Start(ctx, testutil.TestAgent, lead.ID)
	require.NoError(t, err)
	_, err = f.itinerary.Apply(ctx, testutil.TestAgent, it.Draft.ID, wizard.GoToStep{Step: domain.StepReview})
	require.NoError(t, err)

	_, err = f.itinerary.Finalize(ctx, testutil.TestAgent, it.Draft.ID)
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "package")
}

func TestItineraryService_FailedActionLeavesDraftUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.purchasedLead(t, testutil.TestAgent)
	pkg := f.publishedPackage(t, "Temple", "150")

	it, err := f.itinerary.Start(ctx, testutil.TestAgent, lead.ID)
	require.NoError(t, err)
	_, err = f.itinerary.AddPackage(ctx, testutil.TestAgent, it.Draft.ID, pkg.ID)
	require.NoError(t, err)
	before := f.changeOps(t, repository.TableDrafts)

	_, err = f.itinerary.AddPackage(ctx, testutil.TestAgent, it.Draft.ID, pkg.ID)
	assert.ErrorIs(t, err, wizard.ErrAlreadySelected)
	_, err = f.itinerary.AddPackage(ctx, testutil.TestAgent, it.Draft.ID, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Equal(t, before, f.changeOps(t, repository.TableDrafts))
	got, err := f.itinerary.Get(ctx, testutil.TestAgent, it.Draft.ID)
	require.NoError(t, err)
	assert.Len(t, got.State.SelectedPackages, 1)
}

func TestItineraryService_InactivePackageCannotBeAdded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.purchasedLead(t, testutil.TestAgent)
	pkg := f.publishedPackage(t, "Temple", "150")
	require.NoError(t, f.packages.Deactivate(ctx, testutil.TestOperator, pkg.ID))

	it, err := f.itinerary.Start(ctx, testutil.TestAgent, lead.ID)
	require.NoError(t, err)
	_, err = f.itinerary.AddPackage(ctx, testutil.TestAgent, it.Draft.ID, pkg.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestItineraryService_DraftsArePrivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.purchasedLead(t, testutil.TestAgent)
	it, err := f.itinerary.Start(ctx, testutil.TestAgent, lead.ID)
	require.NoError(t, err)

	_, err = f.itinerary.Get(ctx, testutil.OtherAgent, it.Draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, err = f.itinerary.Apply(ctx, testutil.OtherAgent, it.Draft.ID, wizard.Reset{})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	mine, err := f.itinerary.List(ctx, testutil.TestAgent)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := f.itinerary.List(ctx, testutil.OtherAgent)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestItineraryService_ObservesActionName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.purchasedLead(t, testutil.TestAgent)
	it, err := f.itinerary.Start(ctx, testutil.TestAgent, lead.ID)
	require.NoError(t, err)

	_, err = f.itinerary.Apply(ctx, testutil.TestAgent, it.Draft.ID, wizard.PreviousStep{})
	require.NoError(t, err)

	ev := f.observer.last()
	assert.Equal(t, "apply-itinerary-action", ev.Name)
	assert.Equal(t, wizard.ActionName(wizard.PreviousStep{}), ev.Fields["action"])
	assert.True(t, ev.Success)
}
