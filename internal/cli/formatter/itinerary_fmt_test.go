package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/wizard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView(t *testing.T) ItineraryView {
	t.Helper()
	seq := 0
	m := wizard.NewMachine(
		wizard.WithClock(func() time.Time { return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) }),
		wizard.WithIDGenerator(func() string { seq++; return "id-" + string(rune('a'+seq)) }),
	)
	require.NoError(t, m.SetLead(domain.Lead{
		ID: "lead-1", CustomerName: "Ana Costa", Destination: "Bali",
		Budget: decimal.NewFromInt(2000), Duration: 2, Adults: 2,
	}))
	sel, err := m.AddPackage(domain.EnhancedPackage{
		ID: "pkg-1", Title: "Temple Tour", Type: domain.PackageActivity,
		Pricing:  domain.Pricing{AdultPrice: decimal.NewFromInt(150)},
		Duration: domain.PackageDuration{Hours: 4},
	})
	require.NoError(t, err)
	require.NoError(t, m.NextStep())
	day1, _ := m.State().DayByNumber(1)
	_, err = m.AssignPackageToDay(sel, day1.ID, "09:00-13:00")
	require.NoError(t, err)

	return ItineraryView{
		Draft:      &domain.ItineraryDraft{ID: "draft-123456789", Title: "Bali trip for Ana Costa", Status: domain.DraftOpen},
		State:      m.State(),
		Validation: m.Validation(),
		WarnRatio:  budget80,
	}
}

var budget80 = decimal.RequireFromString("0.8")

func TestFormatItinerary(t *testing.T) {
	out := FormatItinerary(sampleView(t))

	assert.Contains(t, out, "Bali trip for Ana Costa")
	assert.Contains(t, out, "● Days")
	assert.Contains(t, out, "Ana Costa, Bali, 2 adults")
	assert.Contains(t, out, "150.00 / 2000.00 used, 1850.00 left")
	assert.Contains(t, out, "Temple Tour")
	assert.Contains(t, out, "Day 1")
	assert.Contains(t, out, "Mon, Mar 2 2026")
	assert.Contains(t, out, "09:00-13:00")
	assert.Contains(t, out, "Day 2")
	assert.Contains(t, out, "nothing planned")
	assert.Contains(t, out, "! ", "empty second day is a warning")
}

func TestFormatValidation(t *testing.T) {
	assert.Contains(t, FormatValidation(wizard.Validation{IsValid: true}), "Ready to finalize")

	v := wizard.Validation{
		Errors:   []wizard.Issue{{Message: "select at least one package"}},
		Warnings: []wizard.Issue{{Message: "day 2 has no activities"}},
	}
	out := FormatValidation(v)
	assert.Contains(t, out, "✖ select at least one package")
	assert.Contains(t, out, "! day 2 has no activities")
}

func TestFormatDraftList(t *testing.T) {
	out := FormatDraftList([]*domain.ItineraryDraft{{
		ID: "d1", Title: "Lisbon weekend", Step: domain.StepReview, Status: domain.DraftFinalized,
		UpdatedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}})
	assert.Contains(t, out, "Lisbon weekend")
	assert.Contains(t, out, "REVIEW")
	assert.Contains(t, out, "Finalized")
	assert.Contains(t, out, "Mar 2 09:30")
}

func TestFormatLeadDetail_HidesContactUnlessAllowed(t *testing.T) {
	l := &domain.Lead{
		ID: "l1", CustomerName: "Ana", CustomerEmail: "ana@example.com", Destination: "Bali",
		Budget: decimal.NewFromInt(2000), Adults: 2, Status: domain.LeadAvailable,
	}
	assert.NotContains(t, FormatLeadDetail(l, false), "ana@example.com")
	assert.Contains(t, FormatLeadDetail(l, true), "ana@example.com")
}

func TestFormatChangeEvent(t *testing.T) {
	out := FormatChangeEvent(domain.ChangeEvent{
		Seq: 7, Table: "leads", Op: domain.ChangeUpdate, RecordID: "lead-9",
		CreatedAt: time.Date(2026, 3, 2, 9, 0, 5, 0, time.UTC),
	})
	assert.Contains(t, out, "09:00:05")
	assert.Contains(t, out, "#7")
	assert.Contains(t, out, "UPDATE")
	assert.Contains(t, out, "leads")
	assert.Contains(t, out, "lead-9")
}
