package wizard

import "github.com/alexanderramin/tourdesk/internal/domain"

// Action is a wizard transition request. The set of implementations is
// closed; Reduce handles each one explicitly.
type Action interface {
	actionName() string
}

type SetLead struct{ Lead domain.Lead }

type AddPackage struct{ Package domain.EnhancedPackage }

// RemovePackage removes a cart line by selection id. Unknown ids are ignored.
type RemovePackage struct{ SelectionID string }

// UpdatePackageQuantity sets a line's quantity; values below one remove the line.
type UpdatePackageQuantity struct {
	SelectionID string
	Quantity    int
}

type NextStep struct{}

type PreviousStep struct{}

// GoToStep jumps to Step without consulting validation.
type GoToStep struct{ Step domain.WizardStep }

type GenerateDays struct{}

type AssignPackageToDay struct {
	SelectionID string
	DayID       string
	TimeSlot    string
}

type AddActivity struct {
	DayID    string
	Activity domain.ItineraryDayActivity
}

type RemoveActivity struct {
	DayID      string
	ActivityID string
}

type ReorderActivities struct {
	DayID    string
	SourceID string
	TargetID string
}

// MoveActivity moves an activity to another day at Position; a negative or
// out-of-range position appends.
type MoveActivity struct {
	FromDayID  string
	ActivityID string
	ToDayID    string
	Position   int
}

// UpdateDay overwrites the non-nil fields of a day.
type UpdateDay struct {
	DayID          string
	Location       *string
	Accommodation  *string
	Transportation *string
	Notes          *string
}

type SetFilters struct {
	Filters domain.ItineraryCreationFilters
}

type SetDetails struct {
	Title string
	Notes string
}

// Reset clears the session while keeping the bound lead.
type Reset struct{}

func (SetLead) actionName() string               { return "set_lead" }
func (AddPackage) actionName() string            { return "add_package" }
func (RemovePackage) actionName() string         { return "remove_package" }
func (UpdatePackageQuantity) actionName() string { return "update_package_quantity" }
func (NextStep) actionName() string              { return "next_step" }
func (PreviousStep) actionName() string          { return "previous_step" }
func (GoToStep) actionName() string              { return "go_to_step" }
func (GenerateDays) actionName() string          { return "generate_days" }
func (AssignPackageToDay) actionName() string    { return "assign_package_to_day" }
func (AddActivity) actionName() string           { return "add_activity" }
func (RemoveActivity) actionName() string        { return "remove_activity" }
func (ReorderActivities) actionName() string     { return "reorder_activities" }
func (MoveActivity) actionName() string          { return "move_activity" }
func (UpdateDay) actionName() string             { return "update_day" }
func (SetFilters) actionName() string            { return "set_filters" }
func (SetDetails) actionName() string            { return "set_details" }
func (Reset) actionName() string                 { return "reset" }

// ActionName returns the stable identifier of a, used in logs.
func ActionName(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}
