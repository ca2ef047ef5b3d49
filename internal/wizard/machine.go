package wizard

import (
	"sync"
	"time"

	"github.com/alexanderramin/tourdesk/internal/budget"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// Machine owns a wizard State and exposes one method per action. It is safe
// for concurrent use.
type Machine struct {
	mu        sync.Mutex
	state     State
	env       Env
	warnRatio decimal.Decimal
}

type Option func(*Machine)

// WithClock overrides the clock used to date generated days.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.env.Now = now }
}

// WithIDGenerator overrides the id source for selections, days and activities.
func WithIDGenerator(newID func() string) Option {
	return func(m *Machine) { m.env.NewID = newID }
}

// WithoutStepGate lets NextStep advance regardless of validation.
func WithoutStepGate() Option {
	return func(m *Machine) { m.env.StepGate = false }
}

// WithWarningRatio sets the budget usage ratio that triggers a warning.
func WithWarningRatio(r decimal.Decimal) Option {
	return func(m *Machine) { m.warnRatio = r }
}

// WithState starts the machine from a restored state.
func WithState(s State) Option {
	return func(m *Machine) { m.state = s.clone() }
}

// NewMachine creates a machine at the first step.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		state:     InitialState(),
		env:       DefaultEnv(),
		warnRatio: budget.DefaultWarningRatio,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state.Budget = budget.Calculate(m.state.leadBudget(), m.state.SelectedPackages, m.state.Days)
	return m
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Dispatch applies a. The state is left untouched when a fails.
func (m *Machine) Dispatch(a Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := Reduce(m.state, a, m.env)
	if err != nil {
		return err
	}
	m.state = next
	return nil
}

// Validation derives the validation of the current state.
func (m *Machine) Validation() Validation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Validate(m.state, m.warnRatio)
}

// Budget returns the current budget tracker.
func (m *Machine) Budget() budget.Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Budget
}

func (m *Machine) Step() domain.WizardStep {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Step
}

func (m *Machine) IsSelected(packageID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsSelected(packageID)
}

func (m *Machine) SetLead(lead domain.Lead) error {
	return m.Dispatch(SetLead{Lead: lead})
}

// AddPackage selects pkg and returns the new selection id.
func (m *Machine) AddPackage(pkg domain.EnhancedPackage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := Reduce(m.state, AddPackage{Package: pkg}, m.env)
	if err != nil {
		return "", err
	}
	m.state = next
	sp, _ := next.SelectionForPackage(pkg.ID)
	return sp.ID, nil
}

func (m *Machine) RemovePackage(selectionID string) error {
	return m.Dispatch(RemovePackage{SelectionID: selectionID})
}

func (m *Machine) UpdatePackageQuantity(selectionID string, qty int) error {
	return m.Dispatch(UpdatePackageQuantity{SelectionID: selectionID, Quantity: qty})
}

func (m *Machine) NextStep() error {
	return m.Dispatch(NextStep{})
}

func (m *Machine) PreviousStep() error {
	return m.Dispatch(PreviousStep{})
}

func (m *Machine) GoToStep(step domain.WizardStep) error {
	return m.Dispatch(GoToStep{Step: step})
}

func (m *Machine) GenerateDays() error {
	return m.Dispatch(GenerateDays{})
}

// AssignPackageToDay places a selected package on a day and returns the new
// activity id.
func (m *Machine) AssignPackageToDay(selectionID, dayID, timeSlot string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := Reduce(m.state, AssignPackageToDay{SelectionID: selectionID, DayID: dayID, TimeSlot: timeSlot}, m.env)
	if err != nil {
		return "", err
	}
	m.state = next
	day, _ := next.Day(dayID)
	return day.Activities[day.ActivityIndexBySelection(selectionID)].ID, nil
}

// AddActivity appends a custom activity to a day and returns its id.
func (m *Machine) AddActivity(dayID string, a domain.ItineraryDayActivity) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := Reduce(m.state, AddActivity{DayID: dayID, Activity: a}, m.env)
	if err != nil {
		return "", err
	}
	m.state = next
	day, _ := next.Day(dayID)
	return day.Activities[len(day.Activities)-1].ID, nil
}

func (m *Machine) RemoveActivity(dayID, activityID string) error {
	return m.Dispatch(RemoveActivity{DayID: dayID, ActivityID: activityID})
}

func (m *Machine) ReorderActivities(dayID, sourceID, targetID string) error {
	return m.Dispatch(ReorderActivities{DayID: dayID, SourceID: sourceID, TargetID: targetID})
}

func (m *Machine) MoveActivity(fromDayID, activityID, toDayID string, position int) error {
	return m.Dispatch(MoveActivity{FromDayID: fromDayID, ActivityID: activityID, ToDayID: toDayID, Position: position})
}

func (m *Machine) UpdateDay(u UpdateDay) error {
	return m.Dispatch(u)
}

func (m *Machine) SetFilters(f domain.ItineraryCreationFilters) error {
	return m.Dispatch(SetFilters{Filters: f})
}

func (m *Machine) SetDetails(title, notes string) error {
	return m.Dispatch(SetDetails{Title: title, Notes: notes})
}

func (m *Machine) Reset() error {
	return m.Dispatch(Reset{})
}
