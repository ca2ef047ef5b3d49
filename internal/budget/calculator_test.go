package budget

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, price int64, qty int) domain.SelectedPackage {
	sp := domain.NewSelectedPackage(id, domain.EnhancedPackage{
		ID:      "pkg-" + id,
		Title:   id,
		Pricing: domain.Pricing{AdultPrice: decimal.NewFromInt(price)},
	})
	if qty > 1 {
		_ = sp.SetQuantity(qty)
	}
	return sp
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDec(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %d, got %s", msg, want, got)
}

func TestCalculate_WithinBudget(t *testing.T) {
	tr := Calculate(dec(2000), []domain.SelectedPackage{line("a", 150, 1), line("b", 80, 1)}, nil)

	assertDec(t, 230, tr.Used, "used")
	assertDec(t, 1770, tr.Remaining, "remaining")
	assert.False(t, tr.OverBudget)
	assertDec(t, 0, tr.OverBudgetAmount, "over amount")
	assertDec(t, 150, tr.PackageCosts["a"], "package a")
	assertDec(t, 80, tr.PackageCosts["b"], "package b")
}

func TestCalculate_OverBudget(t *testing.T) {
	tr := Calculate(dec(2000), []domain.SelectedPackage{line("big", 2500, 1)}, nil)

	assertDec(t, 2500, tr.Used, "used")
	assertDec(t, -500, tr.Remaining, "remaining")
	assert.True(t, tr.OverBudget)
	assertDec(t, 500, tr.OverBudgetAmount, "over amount")
}

func TestCalculate_ExactlyAtBudgetIsNotOver(t *testing.T) {
	tr := Calculate(dec(500), []domain.SelectedPackage{line("a", 250, 2)}, nil)
	assert.False(t, tr.OverBudget)
	assertDec(t, 0, tr.Remaining, "remaining")
	assertDec(t, 1, tr.UsageRatio(), "ratio")
}

func TestCalculate_DailyCosts(t *testing.T) {
	days := []domain.ItineraryDay{
		{ID: "d1", Activities: []domain.ItineraryDayActivity{{ID: "x", Cost: dec(40)}, {ID: "y", Cost: dec(60)}}},
		{ID: "d2"},
	}
	tr := Calculate(dec(1000), nil, days)
	assertDec(t, 100, tr.DailyCosts["d1"], "day 1")
	assertDec(t, 0, tr.DailyCosts["d2"], "day 2")
	assertDec(t, 0, tr.Used, "daily costs do not count as package spend")
}

func TestTracker_NearLimit(t *testing.T) {
	near := Calculate(dec(1000), []domain.SelectedPackage{line("a", 850, 1)}, nil)
	assert.True(t, near.NearLimit(DefaultWarningRatio))

	under := Calculate(dec(1000), []domain.SelectedPackage{line("a", 800, 1)}, nil)
	assert.False(t, under.NearLimit(DefaultWarningRatio), "exactly at the warning ratio is not a warning")

	over := Calculate(dec(1000), []domain.SelectedPackage{line("a", 1200, 1)}, nil)
	assert.False(t, over.NearLimit(DefaultWarningRatio), "over budget is an error, not a warning")
}

func TestTracker_UsageRatioZeroBudget(t *testing.T) {
	assert.True(t, Calculate(dec(0), nil, nil).UsageRatio().IsZero())
	assertDec(t, 1, Calculate(dec(0), []domain.SelectedPackage{line("a", 10, 1)}, nil).UsageRatio(), "ratio")
}

func TestCalculate_InvariantsHoldForRandomSelections(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		total := dec(rng.Int63n(5000))
		n := rng.Intn(6)
		selected := make([]domain.SelectedPackage, 0, n)
		sum := decimal.Zero
		for j := 0; j < n; j++ {
			sp := line(fmt.Sprintf("l%d", j), rng.Int63n(1500)+1, rng.Intn(4)+1)
			require.True(t, sp.UnitPrice.Mul(dec(int64(sp.Quantity))).Equal(sp.TotalPrice))
			sum = sum.Add(sp.TotalPrice)
			selected = append(selected, sp)
		}

		tr := Calculate(total, selected, nil)
		require.True(t, sum.Equal(tr.Used), "iteration %d", i)
		require.True(t, tr.Used.Equal(tr.Total.Sub(tr.Remaining)), "iteration %d", i)
		require.Equal(t, tr.Used.GreaterThan(tr.Total), tr.OverBudget, "iteration %d", i)
		require.False(t, tr.OverBudgetAmount.IsNegative(), "iteration %d", i)
	}
}
