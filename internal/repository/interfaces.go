package repository

import (
	"context"

	"github.com/alexanderramin/tourdesk/internal/domain"
)

// LeadFilter narrows LeadRepo.List. Zero values match everything.
type LeadFilter struct {
	Status      domain.LeadStatus
	AgentID     string
	Destination string
}

// PackageFilter narrows PackageRepo.List before in-memory filtering.
type PackageFilter struct {
	OperatorID      string
	Destination     string
	IncludeInactive bool
}

type LeadRepo interface {
	Create(ctx context.Context, l *domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, f LeadFilter) ([]*domain.Lead, error)
	Update(ctx context.Context, l *domain.Lead) error
}

type PackageRepo interface {
	Create(ctx context.Context, p *domain.EnhancedPackage) error
	GetByID(ctx context.Context, id string) (*domain.EnhancedPackage, error)
	List(ctx context.Context, f PackageFilter) ([]*domain.EnhancedPackage, error)
	Update(ctx context.Context, p *domain.EnhancedPackage) error
}

type DraftRepo interface {
	Create(ctx context.Context, d *domain.ItineraryDraft) error
	GetByID(ctx context.Context, id string) (*domain.ItineraryDraft, error)
	ListByAgent(ctx context.Context, agentID string) ([]*domain.ItineraryDraft, error)
	ListByLead(ctx context.Context, leadID string) ([]*domain.ItineraryDraft, error)
	Update(ctx context.Context, d *domain.ItineraryDraft) error
}

type ChangeLogRepo interface {
	Append(ctx context.Context, table string, op domain.ChangeOp, recordID string) error
	// Since returns events with seq greater than afterSeq, oldest first.
	// An empty table matches every table.
	Since(ctx context.Context, table string, afterSeq int64, limit int) ([]domain.ChangeEvent, error)
	Head(ctx context.Context) (int64, error)
}
