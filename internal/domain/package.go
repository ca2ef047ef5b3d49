package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Pricing struct {
	AdultPrice decimal.Decimal
	ChildPrice decimal.Decimal
	Currency   string
}

type PackageDuration struct {
	Days  int
	Hours int
}

// TotalHours flattens the duration to hours.
func (d PackageDuration) TotalHours() float64 {
	return float64(d.Days*24 + d.Hours)
}

// EnhancedPackage is a sellable offering published by a tour operator.
type EnhancedPackage struct {
	ID                  string
	Title               string
	Description         string
	Type                PackageType
	Pricing             Pricing
	Duration            PackageDuration
	Destinations        []string
	OperatorID          string
	OperatorName        string
	Rating              float64
	ReviewCount         int
	RecommendationScore float64
	Status              PackageStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ServesDestination reports whether any destination matches dest, ignoring case.
func (p *EnhancedPackage) ServesDestination(dest string) bool {
	for _, d := range p.Destinations {
		if strings.EqualFold(d, dest) {
			return true
		}
	}
	return false
}

// PartyPrice prices the package for a group of adults and children.
func (p *EnhancedPackage) PartyPrice(adults, children int) decimal.Decimal {
	a := p.Pricing.AdultPrice.Mul(decimal.NewFromInt(int64(adults)))
	c := p.Pricing.ChildPrice.Mul(decimal.NewFromInt(int64(children)))
	return a.Add(c)
}
