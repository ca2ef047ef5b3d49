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

type packageService struct {
	packages repository.PackageRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPackageService(packages repository.PackageRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PackageService {
	return &packageService{packages: packages, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create publishes a package under the operator's own id. Admins may
// publish on behalf of another operator by setting OperatorID.
func (s *packageService) Create(ctx context.Context, p domain.Principal, pkg *domain.EnhancedPackage) (err error) {
	defer observe(ctx, s.observer, "create-package", time.Now().UTC(), map[string]any{"title": pkg.Title}, &err)

	if err = p.Require(domain.RoleTourOperator); err != nil {
		return err
	}
	if !p.IsAdmin() || pkg.OperatorID == "" {
		pkg.OperatorID = p.UserID
	}
	if err = validatePackage(pkg); err != nil {
		return err
	}
	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	if pkg.Status == "" {
		pkg.Status = domain.PackageStatusActive
	}
	if pkg.Pricing.Currency == "" {
		pkg.Pricing.Currency = "USD"
	}
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLitePackageRepo(tx).Create(ctx, pkg); err != nil {
			return err
		}
		return repository.NewSQLiteChangeLogRepo(tx).Append(ctx, repository.TablePackages, domain.ChangeInsert, pkg.ID)
	})
}

func validatePackage(pkg *domain.EnhancedPackage) error {
	var problems []string
	if strings.TrimSpace(pkg.Title) == "" {
		problems = append(problems, "title is required")
	}
	if !domain.ValidPackageTypes[pkg.Type] {
		problems = append(problems, fmt.Sprintf("unknown package type %q", pkg.Type))
	}
	if pkg.Pricing.AdultPrice.IsNegative() || pkg.Pricing.ChildPrice.IsNegative() {
		problems = append(problems, "prices must not be negative")
	}
	if pkg.Duration.Days < 0 || pkg.Duration.Hours < 0 {
		problems = append(problems, "duration must not be negative")
	}
	if len(pkg.Destinations) == 0 {
		problems = append(problems, "at least one destination is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func (s *packageService) GetByID(ctx context.Context, p domain.Principal, id string) (*domain.EnhancedPackage, error) {
	if err := p.Require(domain.RoleTourOperator, domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	return s.packages.GetByID(ctx, id)
}

func (s *packageService) Search(ctx context.Context, p domain.Principal, destination string, f domain.ItineraryCreationFilters) ([]*domain.EnhancedPackage, error) {
	if err := p.Require(domain.RoleTourOperator, domain.RoleTravelAgent); err != nil {
		return nil, err
	}
	pkgs, err := s.packages.List(ctx, repository.PackageFilter{Destination: destination})
	if err != nil {
		return nil, err
	}
	return f.Apply(pkgs), nil
}

func (s *packageService) ListOwn(ctx context.Context, p domain.Principal) ([]*domain.EnhancedPackage, error) {
	if err := p.Require(domain.RoleTourOperator); err != nil {
		return nil, err
	}
	return s.packages.List(ctx, repository.PackageFilter{OperatorID: p.UserID, IncludeInactive: true})
}

func (s *packageService) Deactivate(ctx context.Context, p domain.Principal, id string) (err error) {
	defer observe(ctx, s.observer, "deactivate-package", time.Now().UTC(), map[string]any{"package": id}, &err)

	if err = p.Require(domain.RoleTourOperator); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPackages := repository.NewSQLitePackageRepo(tx)
		pkg, err := txPackages.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsAdmin() && pkg.OperatorID != p.UserID {
			return fmt.Errorf("package %s belongs to another operator: %w", id, domain.ErrNotAuthorized)
		}
		if pkg.Status == domain.PackageStatusInactive {
			return nil
		}
		pkg.Status = domain.PackageStatusInactive
		pkg.UpdatedAt = time.Now().UTC()
		if err := txPackages.Update(ctx, pkg); err != nil {
			return err
		}
		return repository.NewSQLiteChangeLogRepo(tx).Append(ctx, repository.TablePackages, domain.ChangeUpdate, pkg.ID)
	})
}
