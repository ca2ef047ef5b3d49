package testutil

import (
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lead options
type LeadOption func(*domain.Lead)

func WithBudget(amount string) LeadOption {
	return func(l *domain.Lead) {
		l.Budget = decimal.RequireFromString(amount)
	}
}

func WithDuration(days int) LeadOption {
	return func(l *domain.Lead) {
		l.Duration = days
	}
}

func WithTravelers(adults, children int) LeadOption {
	return func(l *domain.Lead) {
		l.Adults = adults
		l.Children = children
	}
}

func WithStartDate(d time.Time) LeadOption {
	return func(l *domain.Lead) {
		l.StartDate = &d
	}
}

// WithPurchasedBy marks the lead as already bought by agentID.
func WithPurchasedBy(agentID string) LeadOption {
	return func(l *domain.Lead) {
		now := time.Now().UTC()
		l.Status = domain.LeadPurchased
		l.AgentID = agentID
		l.PurchasedAt = &now
	}
}

func WithLeadStatus(s domain.LeadStatus) LeadOption {
	return func(l *domain.Lead) {
		l.Status = s
	}
}

func NewTestLead(destination string, opts ...LeadOption) *domain.Lead {
	now := time.Now().UTC()
	l := &domain.Lead{
		ID:            uuid.New().String(),
		CustomerName:  "Test Customer",
		CustomerEmail: "customer@example.com",
		Destination:   destination,
		Budget:        decimal.NewFromInt(2000),
		TripType:      "leisure",
		Adults:        2,
		Duration:      5,
		Price:         decimal.NewFromInt(25),
		Status:        domain.LeadAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Package options
type PackageOption func(*domain.EnhancedPackage)

func WithAdultPrice(amount string) PackageOption {
	return func(p *domain.EnhancedPackage) {
		p.Pricing.AdultPrice = decimal.RequireFromString(amount)
	}
}

func WithPackageType(t domain.PackageType) PackageOption {
	return func(p *domain.EnhancedPackage) {
		p.Type = t
	}
}

func WithDestinations(dests ...string) PackageOption {
	return func(p *domain.EnhancedPackage) {
		p.Destinations = dests
	}
}

func WithOperator(id string) PackageOption {
	return func(p *domain.EnhancedPackage) {
		p.OperatorID = id
	}
}

func WithRating(r float64) PackageOption {
	return func(p *domain.EnhancedPackage) {
		p.Rating = r
	}
}

func WithPackageDuration(days, hours int) PackageOption {
	return func(p *domain.EnhancedPackage) {
		p.Duration = domain.PackageDuration{Days: days, Hours: hours}
	}
}

func WithPackageStatus(s domain.PackageStatus) PackageOption {
	return func(p *domain.EnhancedPackage) {
		p.Status = s
	}
}

func NewTestPackage(title string, opts ...PackageOption) *domain.EnhancedPackage {
	now := time.Now().UTC()
	p := &domain.EnhancedPackage{
		ID:          uuid.New().String(),
		Title:       title,
		Description: title + " description",
		Type:        domain.PackageActivity,
		Pricing: domain.Pricing{
			AdultPrice: decimal.NewFromInt(100),
			ChildPrice: decimal.NewFromInt(50),
			Currency:   "USD",
		},
		Duration:     domain.PackageDuration{Hours: 4},
		Destinations: []string{"Bali"},
		OperatorID:   "operator-1",
		OperatorName: "Island Tours",
		Rating:       4.5,
		ReviewCount:  10,
		Status:       domain.PackageStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Principals used across service and CLI tests.
var (
	TestAdmin    = domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
	TestOperator = domain.Principal{UserID: "operator-1", Role: domain.RoleTourOperator}
	TestAgent    = domain.Principal{UserID: "agent-1", Role: domain.RoleTravelAgent}
	OtherAgent   = domain.Principal{UserID: "agent-2", Role: domain.RoleTravelAgent}
)
