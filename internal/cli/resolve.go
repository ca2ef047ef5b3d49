package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/alexanderramin/tourdesk/internal/wizard"
)

// matchPrefix resolves input against ids: an exact id wins, otherwise a
// unique prefix.
func matchPrefix(kind, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q: %w", kind, input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

// visibleLeads is every lead the principal may look up.
func visibleLeads(ctx context.Context, app *App) ([]*domain.Lead, error) {
	p := app.Principal
	if p.IsAdmin() {
		return app.Leads.List(ctx, p, repository.LeadFilter{})
	}
	market, err := app.Leads.Market(ctx, p, "")
	if err != nil {
		return nil, err
	}
	mine, err := app.Leads.Mine(ctx, p)
	if err != nil {
		return nil, err
	}
	return append(market, mine...), nil
}

func resolveLeadID(ctx context.Context, app *App, input string) (string, error) {
	leads, err := visibleLeads(ctx, app)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
	}
	return matchPrefix("lead", input, ids)
}

func resolvePackageID(ctx context.Context, app *App, input string) (string, error) {
	p := app.Principal
	var pkgs []*domain.EnhancedPackage
	var err error
	if p.Role == domain.RoleTourOperator {
		pkgs, err = app.Packages.ListOwn(ctx, p)
	} else {
		pkgs, err = app.Packages.Search(ctx, p, "", domain.ItineraryCreationFilters{})
	}
	if err != nil {
		return "", err
	}
	ids := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		ids[i] = pkg.ID
	}
	return matchPrefix("package", input, ids)
}

func resolveDraftID(ctx context.Context, app *App, input string) (string, error) {
	drafts, err := app.Itineraries.List(ctx, app.Principal)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(drafts))
	for i, d := range drafts {
		ids[i] = d.ID
	}
	return matchPrefix("itinerary", input, ids)
}

// resolveLine accepts a 1-based cart line number, a selection id prefix or
// a package id prefix.
func resolveLine(st wizard.State, input string) (string, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(st.SelectedPackages) {
			return "", fmt.Errorf("package line %d out of range (1-%d): %w", n, len(st.SelectedPackages), wizard.ErrUnknownSelection)
		}
		return st.SelectedPackages[n-1].ID, nil
	}
	ids := make([]string, len(st.SelectedPackages))
	for i, sp := range st.SelectedPackages {
		ids[i] = sp.ID
	}
	id, err := matchPrefix("package line", input, ids)
	if err == nil {
		return id, nil
	}
	if sp, ok := st.SelectionForPackage(input); ok {
		return sp.ID, nil
	}
	return "", err
}

// resolveDay accepts a day number or a day id prefix.
func resolveDay(st wizard.State, input string) (domain.ItineraryDay, error) {
	if n, err := strconv.Atoi(input); err == nil {
		d, ok := st.DayByNumber(n)
		if !ok {
			return domain.ItineraryDay{}, fmt.Errorf("day %d: %w", n, wizard.ErrUnknownDay)
		}
		return d, nil
	}
	ids := make([]string, len(st.Days))
	for i, d := range st.Days {
		ids[i] = d.ID
	}
	id, err := matchPrefix("day", input, ids)
	if err != nil {
		return domain.ItineraryDay{}, err
	}
	d, _ := st.Day(id)
	return d, nil
}

// resolveActivity accepts a 1-based position within day or an activity id
// prefix.
func resolveActivity(day domain.ItineraryDay, input string) (string, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(day.Activities) {
			return "", fmt.Errorf("activity %d on day %d: %w", n, day.DayNumber, wizard.ErrUnknownActivity)
		}
		return day.Activities[n-1].ID, nil
	}
	ids := make([]string, len(day.Activities))
	for i, a := range day.Activities {
		ids[i] = a.ID
	}
	return matchPrefix("activity", input, ids)
}
