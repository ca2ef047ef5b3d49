package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog is a converted catalog ready for persistence.
type Catalog struct {
	Packages []*domain.EnhancedPackage
	Leads    []*domain.Lead
}

// Convert turns a validated schema into domain objects. Packages without an
// operator section are published under operatorID. Call ValidateCatalog
// first; Convert assumes the schema is valid.
func Convert(schema *CatalogSchema, operatorID string, now time.Time) (*Catalog, error) {
	now = now.UTC()
	opID, opName := operatorID, ""
	if schema.Operator != nil {
		opID = domain.CoalesceStr(schema.Operator.ID, operatorID)
		opName = schema.Operator.Name
	}

	cat := &Catalog{
		Packages: make([]*domain.EnhancedPackage, 0, len(schema.Packages)),
		Leads:    make([]*domain.Lead, 0, len(schema.Leads)),
	}

	for i, p := range schema.Packages {
		adult, err := decimal.NewFromString(p.AdultPrice)
		if err != nil {
			return nil, fmt.Errorf("packages[%d]: parsing adult_price: %w", i, err)
		}
		child := decimal.Zero
		if p.ChildPrice != "" {
			if child, err = decimal.NewFromString(p.ChildPrice); err != nil {
				return nil, fmt.Errorf("packages[%d]: parsing child_price: %w", i, err)
			}
		}
		currency := domain.CoalesceStr(p.Currency, "USD")
		pkg := &domain.EnhancedPackage{
			ID:           uuid.New().String(),
			Title:        p.Title,
			Description:  p.Description,
			Type:         domain.PackageType(p.Type),
			Pricing:      domain.Pricing{AdultPrice: adult, ChildPrice: child, Currency: currency},
			Destinations: append([]string(nil), p.Destinations...),
			OperatorID:   opID,
			OperatorName: opName,
			Status:       domain.PackageStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if p.Duration != nil {
			pkg.Duration = domain.PackageDuration{Days: p.Duration.Days, Hours: p.Duration.Hours}
		}
		pkg.Rating = domain.Float64FromPtrWithDefault(0, p.Rating)
		pkg.ReviewCount = domain.IntFromPtrWithDefault(0, p.ReviewCount)
		pkg.RecommendationScore = domain.Float64FromPtrWithDefault(0, p.RecommendationScore)
		cat.Packages = append(cat.Packages, pkg)
	}

	for i, l := range schema.Leads {
		budget, err := decimal.NewFromString(l.Budget)
		if err != nil {
			return nil, fmt.Errorf("leads[%d]: parsing budget: %w", i, err)
		}
		price := decimal.Zero
		if l.Price != "" {
			if price, err = decimal.NewFromString(l.Price); err != nil {
				return nil, fmt.Errorf("leads[%d]: parsing price: %w", i, err)
			}
		}
		adults := domain.IntFromPtrWithDefault(1, l.Adults)
		cat.Leads = append(cat.Leads, &domain.Lead{
			ID:            uuid.New().String(),
			CustomerName:  l.CustomerName,
			CustomerEmail: l.CustomerEmail,
			Destination:   l.Destination,
			Budget:        budget,
			TripType:      l.TripType,
			Adults:        adults,
			Children:      l.Children,
			StartDate:     parseOptionalDate(l.StartDate),
			EndDate:       parseOptionalDate(l.EndDate),
			Duration:      l.DurationDays,
			Preferences:   l.Preferences,
			Requirements:  l.Requirements,
			Price:         price,
			Status:        domain.LeadAvailable,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return cat, nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
