package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/importer"
	"github.com/alexanderramin/tourdesk/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportCatalog(ctx context.Context, p domain.Principal, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadCatalog(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog file: %w", err)
	}
	return s.importSchema(ctx, p, schema)
}

func (s *importService) ImportCatalogFromSchema(ctx context.Context, p domain.Principal, schema *importer.CatalogSchema) (*ImportResult, error) {
	return s.importSchema(ctx, p, schema)
}

// importSchema writes every package and lead in one transaction; a single
// failure leaves the catalog untouched. Packages need an operator, leads an
// admin.
func (s *importService) importSchema(ctx context.Context, p domain.Principal, schema *importer.CatalogSchema) (result *ImportResult, err error) {
	fields := map[string]any{"packages": len(schema.Packages), "leads": len(schema.Leads)}
	defer observe(ctx, s.observer, "import-catalog", time.Now().UTC(), fields, &err)

	if len(schema.Packages) > 0 {
		if err = p.Require(domain.RoleTourOperator); err != nil {
			return nil, err
		}
	}
	if len(schema.Leads) > 0 {
		if err = p.Require(); err != nil {
			return nil, fmt.Errorf("importing leads: %w", err)
		}
	}
	if errs := importer.ValidateCatalog(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	if schema.Operator != nil && schema.Operator.ID != "" && schema.Operator.ID != p.UserID && !p.IsAdmin() {
		return nil, fmt.Errorf("publishing as operator %s: %w", schema.Operator.ID, domain.ErrNotAuthorized)
	}

	cat, err := importer.Convert(schema, p.UserID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("converting catalog: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		packages := repository.NewSQLitePackageRepo(tx)
		leads := repository.NewSQLiteLeadRepo(tx)
		changes := repository.NewSQLiteChangeLogRepo(tx)

		for _, pkg := range cat.Packages {
			if err := packages.Create(ctx, pkg); err != nil {
				return fmt.Errorf("creating package %q: %w", pkg.Title, err)
			}
			if err := changes.Append(ctx, repository.TablePackages, domain.ChangeInsert, pkg.ID); err != nil {
				return err
			}
		}
		for _, l := range cat.Leads {
			if err := leads.Create(ctx, l); err != nil {
				return fmt.Errorf("creating lead for %q: %w", l.CustomerName, err)
			}
			if err := changes.Append(ctx, repository.TableLeads, domain.ChangeInsert, l.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ImportResult{Packages: cat.Packages, Leads: cat.Leads}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("catalog validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
