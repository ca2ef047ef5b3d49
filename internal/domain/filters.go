package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ItineraryCreationFilters is the transient package query state of the wizard.
// Zero values mean "no constraint".
type ItineraryCreationFilters struct {
	Search          string
	Types           map[PackageType]bool
	PriceMin        *decimal.Decimal
	PriceMax        *decimal.Decimal
	DurationMinDays *int
	DurationMaxDays *int
	Destinations    map[string]bool
	MinRating       float64
	SortBy          SortKey
	SortDir         SortDirection
}

// DefaultFilters sorts by recommendation score, best first.
func DefaultFilters() ItineraryCreationFilters {
	return ItineraryCreationFilters{SortBy: SortRecommended, SortDir: SortDesc}
}

// Matches reports whether pkg satisfies every constraint.
func (f ItineraryCreationFilters) Matches(pkg *EnhancedPackage) bool {
	if q := strings.TrimSpace(strings.ToLower(f.Search)); q != "" {
		hay := strings.ToLower(pkg.Title + " " + pkg.Description + " " + strings.Join(pkg.Destinations, " "))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if len(f.Types) > 0 && !f.Types[pkg.Type] {
		return false
	}
	price := pkg.Pricing.AdultPrice
	if f.PriceMin != nil && price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && price.GreaterThan(*f.PriceMax) {
		return false
	}
	if f.DurationMinDays != nil && pkg.Duration.Days < *f.DurationMinDays {
		return false
	}
	if f.DurationMaxDays != nil && pkg.Duration.Days > *f.DurationMaxDays {
		return false
	}
	if len(f.Destinations) > 0 {
		found := false
		for dest := range f.Destinations {
			if pkg.ServesDestination(dest) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinRating > 0 && pkg.Rating < f.MinRating {
		return false
	}
	return true
}

// Apply filters and sorts pkgs, returning a new slice. Input order is kept
// when SortBy is empty.
func (f ItineraryCreationFilters) Apply(pkgs []*EnhancedPackage) []*EnhancedPackage {
	out := make([]*EnhancedPackage, 0, len(pkgs))
	for _, p := range pkgs {
		if f.Matches(p) {
			out = append(out, p)
		}
	}

	if f.SortBy == "" {
		return out
	}
	less := f.lessFunc()
	sort.SliceStable(out, func(i, j int) bool {
		if f.SortDir == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func (f ItineraryCreationFilters) lessFunc() func(a, b *EnhancedPackage) bool {
	switch f.SortBy {
	case SortPrice:
		return func(a, b *EnhancedPackage) bool { return a.Pricing.AdultPrice.LessThan(b.Pricing.AdultPrice) }
	case SortRating:
		return func(a, b *EnhancedPackage) bool { return a.Rating < b.Rating }
	case SortDuration:
		return func(a, b *EnhancedPackage) bool { return a.Duration.TotalHours() < b.Duration.TotalHours() }
	case SortTitle:
		return func(a, b *EnhancedPackage) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default:
		return func(a, b *EnhancedPackage) bool { return a.RecommendationScore < b.RecommendationScore }
	}
}
