package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/alexanderramin/tourdesk/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageService_CreateStampsOperator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pkg := testutil.NewTestPackage("Snorkel", testutil.WithOperator("someone-else"))
	require.NoError(t, f.packages.Create(ctx, testutil.TestOperator, pkg))
	assert.Equal(t, testutil.TestOperator.UserID, pkg.OperatorID, "operators publish under their own id")

	onBehalf := testutil.NewTestPackage("Dive", testutil.WithOperator("op-9"))
	require.NoError(t, f.packages.Create(ctx, testutil.TestAdmin, onBehalf))
	assert.Equal(t, "op-9", onBehalf.OperatorID)

	assert.Len(t, f.changeOps(t, repository.TablePackages), 2)
}

func TestPackageService_CreateRejectsAgentsAndBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.packages.Create(ctx, testutil.TestAgent, testutil.NewTestPackage("X"))
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	bad := testutil.NewTestPackage(" ", testutil.WithPackageType("SUBMARINE"), testutil.WithDestinations())
	bad.Pricing.AdultPrice = decimal.NewFromInt(-1)
	err = f.packages.Create(ctx, testutil.TestOperator, bad)
	require.ErrorIs(t, err, ErrInvalidInput)
	for _, want := range []string{"title", "SUBMARINE", "negative", "destination"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestPackageService_SearchAppliesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publishedPackage(t, "Cheap", "50")
	f.publishedPackage(t, "Mid", "150")
	f.publishedPackage(t, "Pricey", "900")
	paris := testutil.NewTestPackage("Louvre", testutil.WithDestinations("Paris"))
	require.NoError(t, f.packages.Create(ctx, testutil.TestOperator, paris))

	filters := domain.DefaultFilters()
	filters.SortBy = domain.SortPrice
	filters.SortDir = domain.SortAsc
	ceiling := decimal.NewFromInt(200)
	filters.PriceMax = &ceiling

	got, err := f.packages.Search(ctx, testutil.TestAgent, "bali", filters)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Cheap", got[0].Title)
	assert.Equal(t, "Mid", got[1].Title)

	all, err := f.packages.Search(ctx, testutil.TestAgent, "", domain.ItineraryCreationFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestPackageService_Deactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkg := f.publishedPackage(t, "Temple", "100")

	rival := domain.Principal{UserID: "operator-2", Role: domain.RoleTourOperator}
	err := f.packages.Deactivate(ctx, rival, pkg.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	require.NoError(t, f.packages.Deactivate(ctx, testutil.TestOperator, pkg.ID))
	require.NoError(t, f.packages.Deactivate(ctx, testutil.TestOperator, pkg.ID), "deactivating twice is a no-op")

	found, err := f.packages.Search(ctx, testutil.TestAgent, "", domain.ItineraryCreationFilters{})
	require.NoError(t, err)
	assert.Empty(t, found)

	own, err := f.packages.ListOwn(ctx, testutil.TestOperator)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, domain.PackageStatusInactive, own[0].Status)

	assert.Equal(t, []domain.ChangeOp{domain.ChangeInsert, domain.ChangeUpdate}, f.changeOps(t, repository.TablePackages))
}
