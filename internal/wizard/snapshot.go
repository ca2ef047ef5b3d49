package wizard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/tourdesk/internal/budget"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// snapshotVersion is bumped when the persisted layout changes incompatibly.
const snapshotVersion = 1

// snapshot is the persisted form of a State. Filters are transient and the
// budget is derived, so neither is stored.
type snapshot struct {
	Version  int                 `json:"version"`
	Step     domain.WizardStep   `json:"step"`
	Lead     *leadSnapshot       `json:"lead,omitempty"`
	Packages []selectionSnapshot `json:"packages"`
	Days     []daySnapshot       `json:"days"`
	Title    string              `json:"title,omitempty"`
	Notes    string              `json:"notes,omitempty"`
}

type leadSnapshot struct {
	ID          string          `json:"id"`
	Destination string          `json:"destination"`
	Budget      decimal.Decimal `json:"budget"`
	Duration    int             `json:"duration"`
	Adults      int             `json:"adults"`
	Children    int             `json:"children"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Customer    string          `json:"customer,omitempty"`
	TripType    string          `json:"trip_type,omitempty"`
}

type selectionSnapshot struct {
	ID         string             `json:"id"`
	PackageID  string             `json:"package_id"`
	Title      string             `json:"title"`
	Type       domain.PackageType `json:"type"`
	UnitPrice  decimal.Decimal    `json:"unit_price"`
	Quantity   int                `json:"quantity"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	Days       int                `json:"duration_days"`
	Hours      int                `json:"duration_hours"`
}

type daySnapshot struct {
	ID             string             `json:"id"`
	DayNumber      int                `json:"day_number"`
	Date           string             `json:"date"`
	Location       string             `json:"location"`
	Accommodation  string             `json:"accommodation,omitempty"`
	Transportation string             `json:"transportation,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	Activities     []activitySnapshot `json:"activities"`
}

type activitySnapshot struct {
	ID            string              `json:"id"`
	Type          domain.ActivityType `json:"type"`
	Title         string              `json:"title"`
	PackageID     string              `json:"package_id,omitempty"`
	SelectionID   string              `json:"selection_id,omitempty"`
	TimeSlot      string              `json:"time_slot,omitempty"`
	DurationHours float64             `json:"duration_hours"`
	Cost          decimal.Decimal     `json:"cost"`
	OrderIndex    int                 `json:"order_index"`
	Location      string              `json:"location,omitempty"`
	Notes         string              `json:"notes,omitempty"`
}

const dateLayout = "2006-01-02"

// MarshalState encodes s for storage.
func MarshalState(s State) ([]byte, error) {
	snap := snapshot{
		Version:  snapshotVersion,
		Step:     s.Step,
		Packages: make([]selectionSnapshot, 0, len(s.SelectedPackages)),
		Days:     make([]daySnapshot, 0, len(s.Days)),
		Title:    s.Title,
		Notes:    s.Notes,
	}
	if l := s.Lead; l != nil {
		snap.Lead = &leadSnapshot{
			ID: l.ID, Destination: l.Destination, Budget: l.Budget, Duration: l.Duration,
			Adults: l.Adults, Children: l.Children, StartDate: l.StartDate, EndDate: l.EndDate,
			Customer: l.CustomerName, TripType: l.TripType,
		}
	}
	for _, sp := range s.SelectedPackages {
		snap.Packages = append(snap.Packages, selectionSnapshot{
			ID: sp.ID, PackageID: sp.PackageID, Title: sp.Title, Type: sp.Type,
			UnitPrice: sp.UnitPrice, Quantity: sp.Quantity, TotalPrice: sp.TotalPrice,
			Days: sp.Duration.Days, Hours: sp.Duration.Hours,
		})
	}
	for _, d := range s.Days {
		ds := daySnapshot{
			ID: d.ID, DayNumber: d.DayNumber, Date: d.Date.Format(dateLayout), Location: d.Location,
			Accommodation: d.Accommodation, Transportation: d.Transportation, Notes: d.Notes,
			Activities: make([]activitySnapshot, 0, len(d.Activities)),
		}
		for _, a := range d.Activities {
			ds.Activities = append(ds.Activities, activitySnapshot{
				ID: a.ID, Type: a.Type, Title: a.Title, PackageID: a.PackageID, SelectionID: a.SelectionID,
				TimeSlot: a.TimeSlot, DurationHours: a.DurationHours, Cost: a.Cost, OrderIndex: a.OrderIndex,
				Location: a.Location, Notes: a.Notes,
			})
		}
		snap.Days = append(snap.Days, ds)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding wizard state: %w", err)
	}
	return data, nil
}

// UnmarshalState decodes a stored state, re-deriving the selection set and
// the budget, and restoring default filters.
func UnmarshalState(data []byte) (State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return State{}, fmt.Errorf("decoding wizard state: %w", err)
	}
	if snap.Version != snapshotVersion {
		return State{}, fmt.Errorf("unsupported wizard state version %d", snap.Version)
	}
	if snap.Step.Index() < 0 {
		return State{}, fmt.Errorf("%w: %q", ErrInvalidStep, snap.Step)
	}

	s := InitialState()
	s.Step = snap.Step
	s.Title = snap.Title
	s.Notes = snap.Notes
	if l := snap.Lead; l != nil {
		s.Lead = &domain.Lead{
			ID: l.ID, Destination: l.Destination, Budget: l.Budget, Duration: l.Duration,
			Adults: l.Adults, Children: l.Children, StartDate: l.StartDate, EndDate: l.EndDate,
			CustomerName: l.Customer, TripType: l.TripType,
		}
	}
	for _, p := range snap.Packages {
		sp := domain.SelectedPackage{
			ID: p.ID, PackageID: p.PackageID, Title: p.Title, Type: p.Type,
			UnitPrice: p.UnitPrice, Duration: domain.PackageDuration{Days: p.Days, Hours: p.Hours},
		}
		if err := sp.SetQuantity(p.Quantity); err != nil {
			return State{}, fmt.Errorf("selection %s: %w", p.ID, err)
		}
		s.SelectedPackages = append(s.SelectedPackages, sp)
		s.SelectedPackageIDs[sp.PackageID] = true
	}
	for _, ds := range snap.Days {
		date, err := time.Parse(dateLayout, ds.Date)
		if err != nil {
			return State{}, fmt.Errorf("day %d date: %w", ds.DayNumber, err)
		}
		d := domain.ItineraryDay{
			ID: ds.ID, DayNumber: ds.DayNumber, Date: date, Location: ds.Location,
			Accommodation: ds.Accommodation, Transportation: ds.Transportation, Notes: ds.Notes,
			Activities: make([]domain.ItineraryDayActivity, 0, len(ds.Activities)),
		}
		for _, a := range ds.Activities {
			d.Activities = append(d.Activities, domain.ItineraryDayActivity{
				ID: a.ID, Type: a.Type, Title: a.Title, PackageID: a.PackageID, SelectionID: a.SelectionID,
				TimeSlot: a.TimeSlot, DurationHours: a.DurationHours, Cost: a.Cost, OrderIndex: a.OrderIndex,
				Location: a.Location, Notes: a.Notes,
			})
		}
		domain.RenumberActivities(d.Activities)
		s.Days = append(s.Days, d)
	}

	s.Budget = budget.Calculate(s.leadBudget(), s.SelectedPackages, s.Days)
	return s, nil
}
