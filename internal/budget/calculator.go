// Package budget derives spending figures for a package selection against a
// lead's stated budget.
package budget

import (
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultWarningRatio is the usage ratio above which spending is flagged.
var DefaultWarningRatio = decimal.RequireFromString("0.8")

// Tracker holds derived budget figures. Used always equals Total minus
// Remaining, and OverBudget holds exactly when Used exceeds Total.
type Tracker struct {
	Total            decimal.Decimal
	Used             decimal.Decimal
	Remaining        decimal.Decimal
	OverBudget       bool
	OverBudgetAmount decimal.Decimal
	PackageCosts     map[string]decimal.Decimal
	DailyCosts       map[string]decimal.Decimal
}

// Calculate computes the tracker for the given selection and day plan.
// PackageCosts is keyed by selection id, DailyCosts by day id.
func Calculate(leadBudget decimal.Decimal, selected []domain.SelectedPackage, days []domain.ItineraryDay) Tracker {
	t := Tracker{
		Total:        leadBudget,
		Used:         decimal.Zero,
		PackageCosts: make(map[string]decimal.Decimal, len(selected)),
		DailyCosts:   make(map[string]decimal.Decimal, len(days)),
	}

	for _, sp := range selected {
		t.Used = t.Used.Add(sp.TotalPrice)
		t.PackageCosts[sp.ID] = sp.TotalPrice
	}
	for i := range days {
		t.DailyCosts[days[i].ID] = days[i].Cost()
	}

	t.Remaining = t.Total.Sub(t.Used)
	t.OverBudget = t.Used.GreaterThan(t.Total)
	t.OverBudgetAmount = decimal.Max(decimal.Zero, t.Used.Sub(t.Total))
	return t
}

// UsageRatio returns Used/Total. A zero budget yields 0 when nothing is
// spent and 1 otherwise.
func (t Tracker) UsageRatio() decimal.Decimal {
	if t.Total.IsZero() {
		if t.Used.IsPositive() {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}
	return t.Used.Div(t.Total)
}

// NearLimit reports usage above ratio without exceeding the budget.
func (t Tracker) NearLimit(ratio decimal.Decimal) bool {
	return !t.OverBudget && t.UsageRatio().GreaterThan(ratio)
}
