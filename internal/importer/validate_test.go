package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string     { return &s }
func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func validMinimalCatalog() *CatalogSchema {
	return &CatalogSchema{
		Packages: []PackageImport{{
			Ref:          "temple",
			Title:        "Temple Tour",
			Type:         "ACTIVITY",
			AdultPrice:   "150",
			Destinations: []string{"Bali"},
		}},
		Leads: []LeadImport{{
			Ref:          "smith",
			CustomerName: "Jo Smith",
			Destination:  "Bali",
			Budget:       "2000",
			DurationDays: 5,
		}},
	}
}

func joined(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

func TestValidateCatalog_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateCatalog(validMinimalCatalog()))
}

func TestValidateCatalog_Empty(t *testing.T) {
	errs := ValidateCatalog(&CatalogSchema{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no packages")
}

func TestValidateCatalog_CollectsAllPackageErrors(t *testing.T) {
	c := validMinimalCatalog()
	c.Packages[0] = PackageImport{
		Title:       " ",
		Type:        "SPACESHIP",
		AdultPrice:  "-5",
		ChildPrice:  "cheap",
		Duration:    &DurationImport{Days: -1},
		Rating:      ptrFloat(7),
		ReviewCount: ptrInt(-2),
	}

	errs := ValidateCatalog(c)
	msg := joined(errs)
	assert.Len(t, errs, 8)
	for _, want := range []string{"title is required", "SPACESHIP", "adult_price must not be negative",
		"invalid amount \"cheap\"", "destinations", "duration", "rating", "review_count"} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateCatalog_LeadErrors(t *testing.T) {
	c := validMinimalCatalog()
	c.Leads[0].Budget = ""
	c.Leads[0].StartDate = ptrStr("2026-07-10")
	c.Leads[0].EndDate = ptrStr("2026-07-01")
	c.Leads[0].Adults = ptrInt(-1)

	msg := joined(ValidateCatalog(c))
	assert.Contains(t, msg, "leads[0].budget is required")
	assert.Contains(t, msg, "before start_date")
	assert.Contains(t, msg, "adults must not be negative")
}

func TestValidateCatalog_InvalidDate(t *testing.T) {
	c := validMinimalCatalog()
	c.Leads[0].StartDate = ptrStr("10/07/2026")

	msg := joined(ValidateCatalog(c))
	assert.Contains(t, msg, "expected YYYY-MM-DD")
}

func TestValidateCatalog_DuplicateRef(t *testing.T) {
	c := validMinimalCatalog()
	c.Leads[0].Ref = "temple"

	msg := joined(ValidateCatalog(c))
	assert.Contains(t, msg, `duplicate ref "temple"`)
}

func TestParseCatalog_RejectsUnknownFields(t *testing.T) {
	_, err := ParseCatalog([]byte("packages:\n  - title: x\n    colour: red\n"))
	assert.Error(t, err)
}
