package service

import (
	"context"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/importer"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/alexanderramin/tourdesk/internal/wizard"
)

// Every method takes the acting principal; role checks wrap
// domain.ErrNotAuthorized.

type LeadService interface {
	Create(ctx context.Context, p domain.Principal, l *domain.Lead) error
	GetByID(ctx context.Context, p domain.Principal, id string) (*domain.Lead, error)
	List(ctx context.Context, p domain.Principal, f repository.LeadFilter) ([]*domain.Lead, error)
	// Market lists leads still for sale, optionally narrowed by destination.
	Market(ctx context.Context, p domain.Principal, destination string) ([]*domain.Lead, error)
	// Mine lists leads purchased by the principal.
	Mine(ctx context.Context, p domain.Principal) ([]*domain.Lead, error)
	Purchase(ctx context.Context, p domain.Principal, id string) (*domain.Lead, error)
}

type PackageService interface {
	Create(ctx context.Context, p domain.Principal, pkg *domain.EnhancedPackage) error
	GetByID(ctx context.Context, p domain.Principal, id string) (*domain.EnhancedPackage, error)
	// Search returns active packages serving destination (any when empty)
	// that pass f, in f's sort order.
	Search(ctx context.Context, p domain.Principal, destination string, f domain.ItineraryCreationFilters) ([]*domain.EnhancedPackage, error)
	// ListOwn returns the operator's packages, inactive ones included.
	ListOwn(ctx context.Context, p domain.Principal) ([]*domain.EnhancedPackage, error)
	Deactivate(ctx context.Context, p domain.Principal, id string) error
}

// Itinerary is a draft together with its decoded wizard state.
type Itinerary struct {
	Draft      *domain.ItineraryDraft
	State      wizard.State
	Validation wizard.Validation
}

type ItineraryService interface {
	// Start opens a draft for a lead the principal purchased.
	Start(ctx context.Context, p domain.Principal, leadID string) (*Itinerary, error)
	Get(ctx context.Context, p domain.Principal, draftID string) (*Itinerary, error)
	List(ctx context.Context, p domain.Principal) ([]*domain.ItineraryDraft, error)
	// Apply dispatches one action and saves the resulting state.
	Apply(ctx context.Context, p domain.Principal, draftID string, a wizard.Action) (*Itinerary, error)
	// AddPackage resolves an active package by id and selects it.
	AddPackage(ctx context.Context, p domain.Principal, draftID, packageID string) (*Itinerary, error)
	Finalize(ctx context.Context, p domain.Principal, draftID string) (*Itinerary, error)
}

// ImportResult summarises a catalog import.
type ImportResult struct {
	Packages []*domain.EnhancedPackage
	Leads    []*domain.Lead
}

type ImportService interface {
	ImportCatalog(ctx context.Context, p domain.Principal, filePath string) (*ImportResult, error)
	ImportCatalogFromSchema(ctx context.Context, p domain.Principal, schema *importer.CatalogSchema) (*ImportResult, error)
}
