// Package wizard implements the itinerary-creation state machine: a reducer
// over an immutable State value and a Machine facade exposing one method per
// action.
package wizard

import (
	"errors"

	"github.com/alexanderramin/tourdesk/internal/budget"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrStepBlocked      = errors.New("step has blocking validation errors")
	ErrInvalidStep      = errors.New("invalid wizard step")
	ErrNoLead           = errors.New("no lead bound to wizard")
	ErrAlreadySelected  = errors.New("package already selected")
	ErrAlreadyAssigned  = errors.New("package already assigned to day")
	ErrUnknownSelection = errors.New("unknown package selection")
	ErrUnknownDay       = errors.New("unknown itinerary day")
	ErrUnknownActivity  = errors.New("unknown activity")
	ErrInvalidActivity  = errors.New("invalid activity")
	ErrUnknownAction    = errors.New("unknown wizard action")
)

// State is the full wizard state. Reduce never mutates a State in place;
// every transition returns a fresh value sharing no mutable storage with
// its predecessor.
type State struct {
	Step             domain.WizardStep
	Lead             *domain.Lead
	SelectedPackages []domain.SelectedPackage
	// SelectedPackageIDs holds underlying package ids, not selection ids.
	SelectedPackageIDs map[string]bool
	Days               []domain.ItineraryDay
	Filters            domain.ItineraryCreationFilters
	Title              string
	Notes              string
	Budget             budget.Tracker
}

// InitialState returns the state of a fresh wizard session.
func InitialState() State {
	s := State{
		Step:               domain.StepPackageSelection,
		SelectedPackageIDs: map[string]bool{},
		Filters:            domain.DefaultFilters(),
	}
	s.Budget = budget.Calculate(s.leadBudget(), nil, nil)
	return s
}

// IsSelected reports whether the underlying package is in the selection.
func (s State) IsSelected(packageID string) bool {
	return s.SelectedPackageIDs[packageID]
}

// Selection returns the cart line with the given selection id.
func (s State) Selection(selectionID string) (domain.SelectedPackage, bool) {
	for _, sp := range s.SelectedPackages {
		if sp.ID == selectionID {
			return sp, true
		}
	}
	return domain.SelectedPackage{}, false
}

// SelectionForPackage returns the cart line created from the given package.
func (s State) SelectionForPackage(packageID string) (domain.SelectedPackage, bool) {
	for _, sp := range s.SelectedPackages {
		if sp.PackageID == packageID {
			return sp, true
		}
	}
	return domain.SelectedPackage{}, false
}

// Day returns the day with the given id.
func (s State) Day(dayID string) (domain.ItineraryDay, bool) {
	if i := s.dayIndex(dayID); i >= 0 {
		return s.Days[i], true
	}
	return domain.ItineraryDay{}, false
}

// DayByNumber returns the day with the given 1-based number.
func (s State) DayByNumber(n int) (domain.ItineraryDay, bool) {
	for _, d := range s.Days {
		if d.DayNumber == n {
			return d, true
		}
	}
	return domain.ItineraryDay{}, false
}

// hasActivity reports whether any day holds an activity with the given id.
func (s State) hasActivity(id string) bool {
	for i := range s.Days {
		if s.Days[i].ActivityIndex(id) >= 0 {
			return true
		}
	}
	return false
}

func (s State) dayIndex(dayID string) int {
	for i, d := range s.Days {
		if d.ID == dayID {
			return i
		}
	}
	return -1
}

func (s State) leadBudget() decimal.Decimal {
	if s.Lead == nil {
		return decimal.Zero
	}
	return s.Lead.Budget
}

// clone returns a deep copy of the mutable parts of s.
func (s State) clone() State {
	out := s
	out.SelectedPackages = append([]domain.SelectedPackage(nil), s.SelectedPackages...)
	out.SelectedPackageIDs = make(map[string]bool, len(s.SelectedPackageIDs))
	for k, v := range s.SelectedPackageIDs {
		out.SelectedPackageIDs[k] = v
	}
	out.Days = make([]domain.ItineraryDay, len(s.Days))
	for i, d := range s.Days {
		d.Activities = append([]domain.ItineraryDayActivity(nil), d.Activities...)
		out.Days[i] = d
	}
	if s.Lead != nil {
		lead := *s.Lead
		out.Lead = &lead
	}
	return out
}
