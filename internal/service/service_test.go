package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/alexanderramin/tourdesk/internal/testutil"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

// fixture wires every service over one in-memory database.
type fixture struct {
	db        *sql.DB
	uow       db.UnitOfWork
	leads     LeadService
	packages  PackageService
	itinerary ItineraryService
	imports   ImportService
	observer  *recordingObserver
	changes   *repository.SQLiteChangeLogRepo
}

var fixtureNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	obs := &recordingObserver{}
	cfg := DefaultItineraryConfig()
	cfg.Now = func() time.Time { return fixtureNow }
	return &fixture{
		db:        database,
		uow:       uow,
		leads:     NewLeadService(repository.NewSQLiteLeadRepo(database), uow, obs),
		packages:  NewPackageService(repository.NewSQLitePackageRepo(database), uow, obs),
		itinerary: NewItineraryService(repository.NewSQLiteDraftRepo(database), uow, cfg, obs),
		imports:   NewImportService(uow, obs),
		observer:  obs,
		changes:   repository.NewSQLiteChangeLogRepo(database),
	}
}

// purchasedLead stores a lead already bought by agent.
func (f *fixture) purchasedLead(t *testing.T, agent domain.Principal, opts ...testutil.LeadOption) *domain.Lead {
	t.Helper()
	ctx := context.Background()
	lead := testutil.NewTestLead("Bali", opts...)
	require.NoError(t, f.leads.Create(ctx, testutil.TestAdmin, lead))
	bought, err := f.leads.Purchase(ctx, agent, lead.ID)
	require.NoError(t, err)
	return bought
}

func (f *fixture) publishedPackage(t *testing.T, title, price string) *domain.EnhancedPackage {
	t.Helper()
	pkg := testutil.NewTestPackage(title, testutil.WithAdultPrice(price))
	require.NoError(t, f.packages.Create(context.Background(), testutil.TestOperator, pkg))
	return pkg
}

func (f *fixture) changeOps(t *testing.T, table string) []domain.ChangeOp {
	t.Helper()
	events, err := f.changes.Since(context.Background(), table, 0, 1000)
	require.NoError(t, err)
	ops := make([]domain.ChangeOp, len(events))
	for i, ev := range events {
		ops[i] = ev.Op
	}
	return ops
}
