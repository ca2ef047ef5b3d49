package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SelectedPackage is a cart line derived from a chosen EnhancedPackage.
// ID identifies the line and is distinct from PackageID.
type SelectedPackage struct {
	ID         string
	PackageID  string
	Title      string
	Type       PackageType
	UnitPrice  decimal.Decimal
	Quantity   int
	TotalPrice decimal.Decimal
	Duration   PackageDuration
}

// NewSelectedPackage creates a single-quantity line for pkg.
func NewSelectedPackage(id string, pkg EnhancedPackage) SelectedPackage {
	sp := SelectedPackage{
		ID:        id,
		PackageID: pkg.ID,
		Title:     pkg.Title,
		Type:      pkg.Type,
		UnitPrice: pkg.Pricing.AdultPrice,
		Quantity:  1,
		Duration:  pkg.Duration,
	}
	sp.TotalPrice = sp.UnitPrice
	return sp
}

// SetQuantity updates the quantity and the derived total price.
// Quantities below one are rejected; callers remove the line instead.
func (s *SelectedPackage) SetQuantity(qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", qty)
	}
	s.Quantity = qty
	s.TotalPrice = s.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	return nil
}
