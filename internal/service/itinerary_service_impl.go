package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tourdesk/internal/budget"
	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/alexanderramin/tourdesk/internal/wizard"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItineraryConfig tunes the wizard machines the service builds.
type ItineraryConfig struct {
	Now          func() time.Time
	NewID        func() string
	StepGate     bool
	WarningRatio decimal.Decimal
}

func DefaultItineraryConfig() ItineraryConfig {
	return ItineraryConfig{
		Now:          func() time.Time { return time.Now().UTC() },
		NewID:        func() string { return uuid.New().String() },
		StepGate:     true,
		WarningRatio: budget.DefaultWarningRatio,
	}
}

type itineraryService struct {
	drafts   repository.DraftRepo
	uow      db.UnitOfWork
	cfg      ItineraryConfig
	observer UseCaseObserver
}

func NewItineraryService(drafts repository.DraftRepo, uow db.UnitOfWork, cfg ItineraryConfig, observers ...UseCaseObserver) ItineraryService {
	def := DefaultItineraryConfig()
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = def.NewID
	}
	if cfg.WarningRatio.IsZero() {
		cfg.WarningRatio = def.WarningRatio
	}
	return &itineraryService{drafts: drafts, uow: uow, cfg: cfg, observer: useCaseObserverOrNoop(observers)}
}

func (s *itineraryService) machine(state *wizard.State) *wizard.Machine {
	opts := []wizard.Option{
		wizard.WithClock(s.cfg.Now),
		wizard.WithIDGenerator(s.cfg.NewID),
		wizard.WithWarningRatio(s.cfg.WarningRatio),
	}
	if !s.cfg.StepGate {
		opts = append(opts, wizard.WithoutStepGate())
	}
	if state != nil {
		opts = append(opts, wizard.WithState(*state))
	}
	return wizard.NewMachine(opts...)
}

func (s *itineraryService) view(d *domain.ItineraryDraft, st wizard.State) *Itinerary {
	return &Itinerary{Draft: d, State: st, Validation: wizard.Validate(st, s.cfg.WarningRatio)}
}

func (s *itineraryService) Start(ctx context.Context, p domain.Principal, leadID string) (it *Itinerary, err error) {
	defer observe(ctx, s.observer, "start-itinerary", time.Now().UTC(), map[string]any{"lead": leadID}, &err)

	if err = p.Require(domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		lead, err := repository.NewSQLiteLeadRepo(tx).GetByID(ctx, leadID)
		if err != nil {
			return err
		}
		if !p.IsAdmin() && !lead.OwnedBy(p.UserID) {
			return fmt.Errorf("lead %s is not purchased by %s: %w", leadID, p.UserID, domain.ErrNotAuthorized)
		}

		m := s.machine(nil)
		if err := m.SetLead(*lead); err != nil {
			return err
		}
		st := m.State()
		data, err := wizard.MarshalState(st)
		if err != nil {
			return err
		}
		now := s.cfg.Now().UTC()
		d := &domain.ItineraryDraft{
			ID:        uuid.New().String(),
			LeadID:    lead.ID,
			AgentID:   p.UserID,
			Title:     fmt.Sprintf("%s trip for %s", lead.Destination, lead.CustomerName),
			Status:    domain.DraftOpen,
			Step:      st.Step,
			State:     data,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repository.NewSQLiteDraftRepo(tx).Create(ctx, d); err != nil {
			return err
		}
		it = s.view(d, st)
		return repository.NewSQLiteChangeLogRepo(tx).Append(ctx, repository.TableDrafts, domain.ChangeInsert, d.ID)
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// loadOwned reads a draft and checks the principal may see it.
func loadOwned(ctx context.Context, drafts repository.DraftRepo, p domain.Principal, draftID string) (*domain.ItineraryDraft, wizard.State, error) {
	d, err := drafts.GetByID(ctx, draftID)
	if err != nil {
		return nil, wizard.State{}, err
	}
	if !p.IsAdmin() && d.AgentID != p.UserID {
		return nil, wizard.State{}, fmt.Errorf("itinerary %s belongs to another agent: %w", draftID, domain.ErrNotAuthorized)
	}
	st, err := wizard.UnmarshalState(d.State)
	if err != nil {
		return nil, wizard.State{}, fmt.Errorf("itinerary %s: %w", draftID, err)
	}
	return d, st, nil
}

func (s *itineraryService) Get(ctx context.Context, p domain.Principal, draftID string) (*Itinerary, error) {
	if err := p.Require(domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	d, st, err := loadOwned(ctx, s.drafts, p, draftID)
	if err != nil {
		return nil, err
	}
	return s.view(d, st), nil
}

func (s *itineraryService) List(ctx context.Context, p domain.Principal) ([]*domain.ItineraryDraft, error) {
	if err := p.Require(domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	return s.drafts.ListByAgent(ctx, p.UserID)
}

func (s *itineraryService) Apply(ctx context.Context, p domain.Principal, draftID string, a wizard.Action) (*Itinerary, error) {
	return s.apply(ctx, p, draftID, func(context.Context, db.DBTX) (wizard.Action, error) { return a, nil })
}

func (s *itineraryService) AddPackage(ctx context.Context, p domain.Principal, draftID, packageID string) (*Itinerary, error) {
	return s.apply(ctx, p, draftID, func(ctx context.Context, tx db.DBTX) (wizard.Action, error) {
		pkg, err := repository.NewSQLitePackageRepo(tx).GetByID(ctx, packageID)
		if err != nil {
			return nil, err
		}
		if pkg.Status != domain.PackageStatusActive {
			return nil, fmt.Errorf("%w: package %s is no longer offered", ErrInvalidInput, packageID)
		}
		return wizard.AddPackage{Package: *pkg}, nil
	})
}

// apply loads the draft, dispatches the action built by resolve and saves
// the new state, all in one transaction.
func (s *itineraryService) apply(ctx context.Context, p domain.Principal, draftID string, resolve func(context.Context, db.DBTX) (wizard.Action, error)) (it *Itinerary, err error) {
	fields := map[string]any{"itinerary": draftID}
	defer observe(ctx, s.observer, "apply-itinerary-action", time.Now().UTC(), fields, &err)

	if err = p.Require(domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDrafts := repository.NewSQLiteDraftRepo(tx)
		d, st, err := loadOwned(ctx, txDrafts, p, draftID)
		if err != nil {
			return err
		}
		if d.IsFinalized() {
			return fmt.Errorf("itinerary %s: %w", draftID, ErrFinalized)
		}

		a, err := resolve(ctx, tx)
		if err != nil {
			return err
		}
		fields["action"] = wizard.ActionName(a)

		m := s.machine(&st)
		if err := m.Dispatch(a); err != nil {
			return err
		}
		next := m.State()
		data, err := wizard.MarshalState(next)
		if err != nil {
			return err
		}
		d.State = data
		d.Step = next.Step
		if next.Title != "" {
			d.Title = next.Title
		}
		d.UpdatedAt = s.cfg.Now().UTC()
		if err := txDrafts.Update(ctx, d); err != nil {
			return err
		}
		it = s.view(d, next)
		return repository.NewSQLiteChangeLogRepo(tx).Append(ctx, repository.TableDrafts, domain.ChangeUpdate, d.ID)
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Finalize locks a valid itinerary that has reached the review step.
func (s *itineraryService) Finalize(ctx context.Context, p domain.Principal, draftID string) (it *Itinerary, err error) {
	defer observe(ctx, s.observer, "finalize-itinerary", time.Now().UTC(), map[string]any{"itinerary": draftID}, &err)

	if err = p.Require(domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDrafts := repository.NewSQLiteDraftRepo(tx)
		d, st, err := loadOwned(ctx, txDrafts, p, draftID)
		if err != nil {
			return err
		}
		if d.IsFinalized() {
			return fmt.Errorf("itinerary %s: %w", draftID, ErrFinalized)
		}
		v := wizard.Validate(st, s.cfg.WarningRatio)
		if !v.IsValid {
			msgs := make([]string, len(v.Errors))
			for i, is := range v.Errors {
				msgs[i] = is.Message
			}
			return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(msgs, "; "))
		}
		if st.Step != domain.StepReview {
			return fmt.Errorf("%w: wizard is at %s, not %s", ErrIncomplete, st.Step, domain.StepReview)
		}

		now := s.cfg.Now().UTC()
		d.Status = domain.DraftFinalized
		d.FinalizedAt = &now
		d.UpdatedAt = now
		if err := txDrafts.Update(ctx, d); err != nil {
			return err
		}
		it = s.view(d, st)
		return repository.NewSQLiteChangeLogRepo(tx).Append(ctx, repository.TableDrafts, domain.ChangeUpdate, d.ID)
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}
