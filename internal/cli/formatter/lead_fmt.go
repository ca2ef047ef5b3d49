package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
)

// FormatLeadList renders leads as a table inside a box titled title.
func FormatLeadList(title string, leads []*domain.Lead, now time.Time) string {
	headers := []string{"ID", "CUSTOMER", "DESTINATION", "BUDGET", "PARTY", "WHEN", "PRICE", "STATUS"}
	rows := make([][]string, 0, len(leads))
	for _, l := range leads {
		when := Dim("--")
		if l.StartDate != nil {
			when = RelativeDateFrom(*l.StartDate, now)
		}
		rows = append(rows, []string{
			TruncID(l.ID),
			Bold(l.CustomerName),
			l.Destination,
			Money(l.Budget, ""),
			Party(l.Adults, l.Children),
			when,
			Money(l.Price, ""),
			LeadStatusPill(l.Status),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatLeadDetail renders one lead. Contact details are shown only when
// showContact is set, i.e. to the purchasing agent or an admin.
func FormatLeadDetail(l *domain.Lead, showContact bool) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(l.CustomerName) + "  " + LeadStatusPill(l.Status) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-12s", label)), value))
	}
	field("ID", TruncID(l.ID))
	field("DESTINATION", l.Destination)
	field("BUDGET", Money(l.Budget, ""))
	field("PARTY", Party(l.Adults, l.Children))
	field("DATES", TravelWindow(l))
	if l.TripType != "" {
		field("TRIP TYPE", TypeBadge(l.TripType))
	}
	field("LEAD PRICE", Money(l.Price, ""))
	if showContact && l.CustomerEmail != "" {
		field("EMAIL", l.CustomerEmail)
	}
	if l.Preferences != "" {
		field("PREFERENCES", l.Preferences)
	}
	if l.Requirements != "" {
		field("NEEDS", l.Requirements)
	}
	if l.PurchasedAt != nil {
		field("PURCHASED", fmt.Sprintf("%s by %s", l.PurchasedAt.Format("Jan 2 2006 15:04"), l.AgentID))
	}
	return RenderBox("Lead", strings.TrimRight(b.String(), "\n"))
}
