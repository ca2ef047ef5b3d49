package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/google/uuid"
)

type leadService struct {
	leads    repository.LeadRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewLeadService(leads repository.LeadRepo, uow db.UnitOfWork, observers ...UseCaseObserver) LeadService {
	return &leadService{leads: leads, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create publishes a lead on the marketplace. Only admins add leads.
func (s *leadService) Create(ctx context.Context, p domain.Principal, l *domain.Lead) (err error) {
	defer observe(ctx, s.observer, "create-lead", time.Now().UTC(), map[string]any{"destination": l.Destination}, &err)

	if err = p.Require(); err != nil {
		return err
	}
	if err = validateLead(l); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Status == "" {
		l.Status = domain.LeadAvailable
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteLeadRepo(tx).Create(ctx, l); err != nil {
			return err
		}
		return repository.NewSQLiteChangeLogRepo(tx).Append(ctx, repository.TableLeads, domain.ChangeInsert, l.ID)
	})
}

func validateLead(l *domain.Lead) error {
	var problems []string
	if strings.TrimSpace(l.CustomerName) == "" {
		problems = append(problems, "customer name is required")
	}
	if strings.TrimSpace(l.Destination) == "" {
		problems = append(problems, "destination is required")
	}
	if l.Budget.IsNegative() {
		problems = append(problems, "budget must not be negative")
	}
	if l.Price.IsNegative() {
		problems = append(problems, "price must not be negative")
	}
	if l.Adults < 0 || l.Children < 0 {
		problems = append(problems, "traveler counts must not be negative")
	}
	if l.Duration < 0 {
		problems = append(problems, "duration must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// GetByID shows agents leads that are for sale or that they bought.
func (s *leadService) GetByID(ctx context.Context, p domain.Principal, id string) (*domain.Lead, error) {
	if err := p.Require(domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	l, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && l.Status != domain.LeadAvailable && !l.OwnedBy(p.UserID) {
		return nil, fmt.Errorf("lead %s belongs to another agent: %w", id, domain.ErrNotAuthorized)
	}
	return l, nil
}

func (s *leadService) List(ctx context.Context, p domain.Principal, f repository.LeadFilter) ([]*domain.Lead, error) {
	if err := p.Require(); err != nil {
		return nil, err
	}
	return s.leads.List(ctx, f)
}

func (s *leadService) Market(ctx context.Context, p domain.Principal, destination string) ([]*domain.Lead, error) {
	if err := p.Require(domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	return s.leads.List(ctx, repository.LeadFilter{Status: domain.LeadAvailable, Destination: destination})
}

func (s *leadService) Mine(ctx context.Context, p domain.Principal) ([]*domain.Lead, error) {
	if err := p.Require(domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	return s.leads.List(ctx, repository.LeadFilter{Status: domain.LeadPurchased, AgentID: p.UserID})
}

func (s *leadService) Purchase(ctx context.Context, p domain.Principal, id string) (lead *domain.Lead, err error) {
	defer observe(ctx, s.observer, "purchase-lead", time.Now().UTC(), map[string]any{"lead": id, "agent": p.UserID}, &err)

	if err = p.Require(domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLeads := repository.NewSQLiteLeadRepo(tx)
		l, err := txLeads.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := l.Purchase(p.UserID, time.Now().UTC()); err != nil {
			return fmt.Errorf("purchasing lead %s: %w", id, err)
		}
		if err := txLeads.Update(ctx, l); err != nil {
			return err
		}
		lead = l
		return repository.NewSQLiteChangeLogRepo(tx).Append(ctx, repository.TableLeads, domain.ChangeUpdate, l.ID)
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}
