package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/budget"
	"github.com/shopspring/decimal"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// renderBar renders a bar like [████░░░░] 45% in the given style. pct is
// clamped to [0, 1] for drawing but printed as given.
func renderBar(pct float64, width int, style func(...string) string) string {
	if width < 2 {
		width = 2
	}
	drawn := pct
	if drawn < 0 {
		drawn = 0
	}
	if drawn > 1 {
		drawn = 1
	}

	filled := int(drawn * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", style(bar), pct*100)
}

// RenderBudgetBar shows how much of the lead budget is spent: green while
// below warnRatio, yellow above it, red once over budget.
func RenderBudgetBar(t budget.Tracker, warnRatio decimal.Decimal, width int) string {
	ratio, _ := t.UsageRatio().Float64()
	style := StyleGreen.Render
	switch {
	case t.OverBudget:
		style = StyleRed.Render
	case t.NearLimit(warnRatio):
		style = StyleYellow.Render
	}
	return renderBar(ratio, width, style)
}

// BudgetSummary renders "used / total, remaining" with an over-budget note.
func BudgetSummary(t budget.Tracker, currency string) string {
	s := fmt.Sprintf("%s / %s used, %s left",
		Money(t.Used, currency), Money(t.Total, currency), Money(t.Remaining, currency))
	if t.OverBudget {
		s += "  " + StyleRed.Render("over by "+Money(t.OverBudgetAmount, currency))
	}
	return s
}
