package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly distance between t and now,
// such as "In 3d" or "2w ago".
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// HumanDate formats a calendar date like "Mon, Mar 2 2026".
func HumanDate(t time.Time) string {
	return t.Format("Mon, Jan 2 2006")
}

// TravelWindow describes a lead's preferred dates and length.
func TravelWindow(l *domain.Lead) string {
	var parts []string
	switch {
	case l.StartDate != nil && l.EndDate != nil:
		parts = append(parts, fmt.Sprintf("%s → %s", l.StartDate.Format("Jan 2"), l.EndDate.Format("Jan 2 2006")))
	case l.StartDate != nil:
		parts = append(parts, "from "+l.StartDate.Format("Jan 2 2006"))
	}
	if n := l.TripDays(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d days", n))
	}
	if len(parts) == 0 {
		return Dim("flexible")
	}
	return strings.Join(parts, ", ")
}

// Party describes the travellers, e.g. "2 adults, 1 child".
func Party(adults, children int) string {
	s := plural(adults, "adult", "adults")
	if children > 0 {
		s += ", " + plural(children, "child", "children")
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Money formats an amount with two decimals and an optional currency code.
func Money(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(2)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// FormatDuration renders a package duration like "2d 4h".
func FormatDuration(d domain.PackageDuration) string {
	switch {
	case d.Days > 0 && d.Hours > 0:
		return fmt.Sprintf("%dd %dh", d.Days, d.Hours)
	case d.Days > 0:
		return fmt.Sprintf("%dd", d.Days)
	case d.Hours > 0:
		return fmt.Sprintf("%dh", d.Hours)
	default:
		return "--"
	}
}

// Rating renders a 0-5 score as "★ 4.5 (120)".
func Rating(score float64, reviews int) string {
	if score <= 0 {
		return Dim("unrated")
	}
	s := StyleYellow.Render(fmt.Sprintf("★ %.1f", score))
	if reviews > 0 {
		s += Dim(fmt.Sprintf(" (%d)", reviews))
	}
	return s
}

// StepTrail renders the wizard steps with the current one highlighted,
// e.g. "✔ Packages › ● Days › Details › Review".
func StepTrail(current domain.WizardStep) string {
	labels := map[domain.WizardStep]string{
		domain.StepPackageSelection: "Packages",
		domain.StepDayPlanning:      "Days",
		domain.StepDetails:          "Details",
		domain.StepReview:           "Review",
	}
	cur := current.Index()
	parts := make([]string, len(domain.WizardSteps))
	for i, step := range domain.WizardSteps {
		switch {
		case i < cur:
			parts[i] = StyleGreen.Render("✔ " + labels[step])
		case i == cur:
			parts[i] = StyleHeader.Render("● " + labels[step])
		default:
			parts[i] = Dim(labels[step])
		}
	}
	return strings.Join(parts, Dim(" › "))
}
