package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/wizard"
	"github.com/shopspring/decimal"
)

// ItineraryView bundles what the itinerary screens need.
type ItineraryView struct {
	Draft      *domain.ItineraryDraft
	State      wizard.State
	Validation wizard.Validation
	WarnRatio  decimal.Decimal
}

// FormatItinerary renders the whole draft: header, budget, cart, day plan
// and validation findings.
func FormatItinerary(v ItineraryView) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(v.Draft.Title) + "  " + DraftStatusPill(v.Draft.Status) + "\n")
	b.WriteString(TruncID(v.Draft.ID) + "\n")
	b.WriteString(StepTrail(v.State.Step) + "\n\n")

	if l := v.State.Lead; l != nil {
		b.WriteString(fmt.Sprintf("%s  %s, %s, %s\n", StyleDim.Render("LEAD  "),
			l.CustomerName, l.Destination, Party(l.Adults, l.Children)))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("BUDGET"), RenderBudgetBar(v.State.Budget, v.WarnRatio, 20)))
	b.WriteString(fmt.Sprintf("%s  %s\n\n", StyleDim.Render("      "), BudgetSummary(v.State.Budget, "")))

	b.WriteString(FormatSelection(v.State.SelectedPackages) + "\n")
	if len(v.State.Days) > 0 {
		b.WriteString("\n" + FormatDays(v.State.Days, v.State.Budget.DailyCosts))
	}
	if v.State.Notes != "" {
		b.WriteString("\n" + Header("Notes") + "\n" + v.State.Notes + "\n")
	}
	if out := FormatValidation(v.Validation); out != "" {
		b.WriteString("\n" + out)
	}
	return RenderBox("Itinerary", strings.TrimRight(b.String(), "\n"))
}

// FormatSelection renders the cart; lines are numbered from 1.
func FormatSelection(lines []domain.SelectedPackage) string {
	headers := []string{"#", "PACKAGE", "TYPE", "QTY", "UNIT", "TOTAL", "LINE"}
	rows := make([][]string, 0, len(lines))
	for i, sp := range lines {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Bold(sp.Title),
			TypeBadge(string(sp.Type)),
			fmt.Sprintf("%d", sp.Quantity),
			Money(sp.UnitPrice, ""),
			Money(sp.TotalPrice, ""),
			TruncID(sp.ID),
		})
	}
	return Header("Packages") + "\n" + RenderTable(headers, rows)
}

// FormatDays renders the day plan. Activities are numbered from 1 within
// their day.
func FormatDays(days []domain.ItineraryDay, costs map[string]decimal.Decimal) string {
	var b strings.Builder
	b.WriteString(Header("Day plan") + "\n")
	for _, d := range days {
		cost := costs[d.ID]
		b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
			StyleHeader.Render(fmt.Sprintf("Day %d", d.DayNumber)),
			HumanDate(d.Date),
			StyleBlue.Render(d.Location),
			Dim(Money(cost, "")),
		))
		var extras []string
		if d.Accommodation != "" {
			extras = append(extras, "stay: "+d.Accommodation)
		}
		if d.Transportation != "" {
			extras = append(extras, "transport: "+d.Transportation)
		}
		if d.Notes != "" {
			extras = append(extras, d.Notes)
		}
		if len(extras) > 0 {
			b.WriteString("  " + Dim(strings.Join(extras, " · ")) + "\n")
		}
		if len(d.Activities) == 0 {
			b.WriteString("  " + Dim("nothing planned") + "\n")
			continue
		}
		for i, a := range d.Activities {
			slot := a.TimeSlot
			if slot == "" {
				slot = "--"
			}
			b.WriteString(fmt.Sprintf("  %d. %-11s %s  %s  %s  %s\n",
				i+1, slot, Bold(a.Title), TypeBadge(string(a.Type)), Money(a.Cost, ""), TruncID(a.ID)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatValidation lists errors then warnings, or a ready line when clean.
func FormatValidation(v wizard.Validation) string {
	if len(v.Errors) == 0 && len(v.Warnings) == 0 {
		return StyleGreen.Render("✔ Ready to finalize")
	}
	var b strings.Builder
	for _, e := range v.Errors {
		b.WriteString(StyleRed.Render("✖ "+e.Message) + "\n")
	}
	for _, w := range v.Warnings {
		b.WriteString(StyleYellow.Render("! "+w.Message) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatDraftList(drafts []*domain.ItineraryDraft) string {
	headers := []string{"ID", "TITLE", "STEP", "STATUS", "UPDATED"}
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, []string{
			TruncID(d.ID),
			Bold(d.Title),
			string(d.Step),
			DraftStatusPill(d.Status),
			d.UpdatedAt.Format("Jan 2 15:04"),
		})
	}
	return RenderBox("Itineraries", RenderTable(headers, rows))
}
