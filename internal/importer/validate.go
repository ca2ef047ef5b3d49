package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ValidateCatalog checks the whole catalog and returns every error found.
func ValidateCatalog(schema *CatalogSchema) []error {
	var errs []error
	if len(schema.Packages) == 0 && len(schema.Leads) == 0 {
		errs = append(errs, fmt.Errorf("catalog has no packages and no leads"))
	}
	refs := make(map[string]bool)
	for i := range schema.Packages {
		errs = append(errs, validatePackage(i, &schema.Packages[i], refs)...)
	}
	for i := range schema.Leads {
		errs = append(errs, validateLead(i, &schema.Leads[i], refs)...)
	}
	return errs
}

func validateRef(prefix, ref string, refs map[string]bool) []error {
	if ref == "" {
		return nil
	}
	if refs[ref] {
		return []error{fmt.Errorf("%s.ref: duplicate ref %q", prefix, ref)}
	}
	refs[ref] = true
	return nil
}

func validatePackage(i int, p *PackageImport, refs map[string]bool) []error {
	prefix := fmt.Sprintf("packages[%d]", i)
	errs := validateRef(prefix, p.Ref, refs)

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if !domain.ValidPackageTypes[domain.PackageType(p.Type)] {
		errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, p.Type))
	}
	errs = append(errs, validateAmount(prefix+".adult_price", p.AdultPrice, true)...)
	errs = append(errs, validateAmount(prefix+".child_price", p.ChildPrice, false)...)
	if len(p.Destinations) == 0 {
		errs = append(errs, fmt.Errorf("%s.destinations: at least one destination is required", prefix))
	}
	if p.Duration != nil && (p.Duration.Days < 0 || p.Duration.Hours < 0) {
		errs = append(errs, fmt.Errorf("%s.duration must not be negative", prefix))
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		errs = append(errs, fmt.Errorf("%s.rating must be between 0 and 5, got %v", prefix, *p.Rating))
	}
	if p.ReviewCount != nil && *p.ReviewCount < 0 {
		errs = append(errs, fmt.Errorf("%s.review_count must not be negative", prefix))
	}
	return errs
}

func validateLead(i int, l *LeadImport, refs map[string]bool) []error {
	prefix := fmt.Sprintf("leads[%d]", i)
	errs := validateRef(prefix, l.Ref, refs)

	if strings.TrimSpace(l.CustomerName) == "" {
		errs = append(errs, fmt.Errorf("%s.customer_name is required", prefix))
	}
	if strings.TrimSpace(l.Destination) == "" {
		errs = append(errs, fmt.Errorf("%s.destination is required", prefix))
	}
	errs = append(errs, validateAmount(prefix+".budget", l.Budget, true)...)
	errs = append(errs, validateAmount(prefix+".price", l.Price, false)...)
	if l.Adults != nil && *l.Adults < 0 {
		errs = append(errs, fmt.Errorf("%s.adults must not be negative", prefix))
	}
	if l.Children < 0 {
		errs = append(errs, fmt.Errorf("%s.children must not be negative", prefix))
	}
	if l.DurationDays < 0 {
		errs = append(errs, fmt.Errorf("%s.duration_days must not be negative", prefix))
	}

	start, startErrs := validateOptionalDate(prefix+".start_date", l.StartDate)
	end, endErrs := validateOptionalDate(prefix+".end_date", l.EndDate)
	errs = append(errs, startErrs...)
	errs = append(errs, endErrs...)
	if start != nil && end != nil && end.Before(*start) {
		errs = append(errs, fmt.Errorf("%s.end_date %q is before start_date %q", prefix, *l.EndDate, *l.StartDate))
	}
	return errs
}

func validateAmount(field, s string, required bool) []error {
	if s == "" {
		if required {
			return []error{fmt.Errorf("%s is required", field)}
		}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return []error{fmt.Errorf("%s: invalid amount %q", field, s)}
	}
	if d.IsNegative() {
		return []error{fmt.Errorf("%s must not be negative, got %s", field, s)}
	}
	return nil
}

func validateOptionalDate(field string, s *string) (*time.Time, []error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return &t, nil
}
