package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/domain"
)

func FormatPackageList(title string, pkgs []*domain.EnhancedPackage) string {
	headers := []string{"ID", "TITLE", "TYPE", "ADULT", "CHILD", "DURATION", "DESTINATIONS", "RATING", "STATUS"}
	rows := make([][]string, 0, len(pkgs))
	for _, p := range pkgs {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Title),
			TypeBadge(string(p.Type)),
			Money(p.Pricing.AdultPrice, p.Pricing.Currency),
			Money(p.Pricing.ChildPrice, p.Pricing.Currency),
			FormatDuration(p.Duration),
			strings.Join(p.Destinations, ", "),
			Rating(p.Rating, p.ReviewCount),
			PackageStatusPill(p.Status),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}

func FormatPackageDetail(p *domain.EnhancedPackage) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Title) + "  " + TypeBadge(string(p.Type)) + "  " + PackageStatusPill(p.Status) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-12s", label)), value))
	}
	field("ID", TruncID(p.ID))
	field("ADULT", Money(p.Pricing.AdultPrice, p.Pricing.Currency))
	field("CHILD", Money(p.Pricing.ChildPrice, p.Pricing.Currency))
	field("DURATION", FormatDuration(p.Duration))
	field("WHERE", strings.Join(p.Destinations, ", "))
	operator := p.OperatorID
	if p.OperatorName != "" {
		operator = p.OperatorName + Dim(" ("+p.OperatorID+")")
	}
	field("OPERATOR", operator)
	field("RATING", Rating(p.Rating, p.ReviewCount))
	return RenderBox("Package", strings.TrimRight(b.String(), "\n"))
}
