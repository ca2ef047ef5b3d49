package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePackageRepo(db)
	ctx := context.Background()

	pkg := testutil.NewTestPackage("Temple Tour",
		testutil.WithAdultPrice("149.99"),
		testutil.WithDestinations("Bali", "Ubud"),
		testutil.WithPackageDuration(1, 2),
	)
	require.NoError(t, repo.Create(ctx, pkg))

	fetched, err := repo.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Temple Tour", fetched.Title)
	assert.Equal(t, "149.99", fetched.Pricing.AdultPrice.String())
	assert.Equal(t, "USD", fetched.Pricing.Currency)
	assert.Equal(t, []string{"Bali", "Ubud"}, fetched.Destinations)
	assert.Equal(t, domain.PackageDuration{Days: 1, Hours: 2}, fetched.Duration)
	assert.Equal(t, domain.PackageActivity, fetched.Type)
}

func TestPackageRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePackageRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPackageRepo_List_Filters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePackageRepo(db)
	ctx := context.Background()

	a := testutil.NewTestPackage("A", testutil.WithDestinations("Bali"))
	b := testutil.NewTestPackage("B", testutil.WithDestinations("Paris"), testutil.WithOperator("op-2"))
	c := testutil.NewTestPackage("C", testutil.WithDestinations("bali"), testutil.WithPackageStatus(domain.PackageStatusInactive))
	for _, p := range []*domain.EnhancedPackage{a, b, c} {
		require.NoError(t, repo.Create(ctx, p))
	}

	active, err := repo.List(ctx, PackageFilter{})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	withInactive, err := repo.List(ctx, PackageFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, withInactive, 3)

	bali, err := repo.List(ctx, PackageFilter{Destination: "BALI", IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, bali, 2)

	byOp, err := repo.List(ctx, PackageFilter{OperatorID: "op-2"})
	require.NoError(t, err)
	require.Len(t, byOp, 1)
	assert.Equal(t, b.ID, byOp[0].ID)
	assert.Equal(t, []string{"Paris"}, byOp[0].Destinations)
}

func TestPackageRepo_Update_RewritesDestinations(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePackageRepo(db)
	ctx := context.Background()

	pkg := testutil.NewTestPackage("Cruise", testutil.WithDestinations("Athens", "Santorini"))
	require.NoError(t, repo.Create(ctx, pkg))

	pkg.Destinations = []string{"Mykonos"}
	pkg.Status = domain.PackageStatusInactive
	require.NoError(t, repo.Update(ctx, pkg))

	fetched, err := repo.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mykonos"}, fetched.Destinations)
	assert.Equal(t, domain.PackageStatusInactive, fetched.Status)
}

func TestPackageRepo_DuplicateDestinationsCollapse(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePackageRepo(db)
	ctx := context.Background()

	pkg := testutil.NewTestPackage("Dup", testutil.WithDestinations("Bali", "bali", ""))
	require.NoError(t, repo.Create(ctx, pkg))

	fetched, err := repo.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bali"}, fetched.Destinations)
}
