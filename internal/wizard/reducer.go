package wizard

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/tourdesk/internal/budget"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/google/uuid"
)

// Env supplies the non-deterministic inputs of the reducer.
type Env struct {
	Now   func() time.Time
	NewID func() string
	// StepGate refuses NextStep while the current step has blocking errors.
	StepGate bool
}

// DefaultEnv uses the wall clock, random UUIDs and an enforced step gate.
func DefaultEnv() Env {
	return Env{
		Now:      time.Now,
		NewID:    func() string { return uuid.New().String() },
		StepGate: true,
	}
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) newID() string {
	if e.NewID == nil {
		return uuid.New().String()
	}
	return e.NewID()
}

// Reduce applies a to s and returns the resulting state. On error the input
// state is returned unchanged. The budget tracker is recomputed on every
// successful transition.
func Reduce(s State, a Action, env Env) (State, error) {
	next := s.clone()

	var err error
	switch act := a.(type) {
	case SetLead:
		next = reduceSetLead(next, act)
	case AddPackage:
		next, err = reduceAddPackage(next, act, env)
	case RemovePackage:
		next = reduceRemovePackage(next, act.SelectionID)
	case UpdatePackageQuantity:
		next, err = reduceUpdateQuantity(next, act)
	case NextStep:
		next, err = reduceNextStep(next, env)
	case PreviousStep:
		if i := next.Step.Index(); i > 0 {
			next.Step = domain.WizardSteps[i-1]
		}
	case GoToStep:
		next, err = reduceGoToStep(next, act.Step, env)
	case GenerateDays:
		next = generateDays(next, env)
	case AssignPackageToDay:
		next, err = reduceAssign(next, act, env)
	case AddActivity:
		next, err = reduceAddActivity(next, act, env)
	case RemoveActivity:
		next, err = reduceRemoveActivity(next, act)
	case ReorderActivities:
		next, err = reduceReorder(next, act)
	case MoveActivity:
		next, err = reduceMove(next, act)
	case UpdateDay:
		next, err = reduceUpdateDay(next, act)
	case SetFilters:
		next.Filters = copyFilters(act.Filters)
	case SetDetails:
		next.Title = act.Title
		next.Notes = act.Notes
	case Reset:
		lead := next.Lead
		next = InitialState()
		next.Lead = lead
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	if err != nil {
		return s, err
	}

	next.Budget = budget.Calculate(next.leadBudget(), next.SelectedPackages, next.Days)
	return next, nil
}

func reduceSetLead(s State, act SetLead) State {
	lead := act.Lead
	if s.Lead != nil && s.Lead.ID != lead.ID {
		s.Days = nil
	}
	s.Lead = &lead
	return s
}

func reduceAddPackage(s State, act AddPackage, env Env) (State, error) {
	if s.SelectedPackageIDs[act.Package.ID] {
		return s, fmt.Errorf("%w: %s", ErrAlreadySelected, act.Package.ID)
	}
	sp := domain.NewSelectedPackage(env.newID(), act.Package)
	s.SelectedPackages = append(s.SelectedPackages, sp)
	s.SelectedPackageIDs[act.Package.ID] = true
	return s, nil
}

// reduceRemovePackage drops the line and every PACKAGE activity placed from it.
func reduceRemovePackage(s State, selectionID string) State {
	idx := -1
	for i, sp := range s.SelectedPackages {
		if sp.ID == selectionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}

	removed := s.SelectedPackages[idx]
	s.SelectedPackages = append(s.SelectedPackages[:idx], s.SelectedPackages[idx+1:]...)
	delete(s.SelectedPackageIDs, removed.PackageID)

	for i := range s.Days {
		kept := s.Days[i].Activities[:0]
		for _, a := range s.Days[i].Activities {
			if a.SelectionID != selectionID {
				kept = append(kept, a)
			}
		}
		domain.RenumberActivities(kept)
		s.Days[i].Activities = kept
	}
	return s
}

func reduceUpdateQuantity(s State, act UpdatePackageQuantity) (State, error) {
	if act.Quantity < 1 {
		return reduceRemovePackage(s, act.SelectionID), nil
	}
	for i := range s.SelectedPackages {
		if s.SelectedPackages[i].ID != act.SelectionID {
			continue
		}
		if err := s.SelectedPackages[i].SetQuantity(act.Quantity); err != nil {
			return s, err
		}
		syncPackageActivityCosts(&s, s.SelectedPackages[i])
		return s, nil
	}
	return s, nil
}

// syncPackageActivityCosts keeps placed PACKAGE activities priced at the
// line total.
func syncPackageActivityCosts(s *State, sp domain.SelectedPackage) {
	for i := range s.Days {
		for j := range s.Days[i].Activities {
			if s.Days[i].Activities[j].SelectionID == sp.ID {
				s.Days[i].Activities[j].Cost = sp.TotalPrice
			}
		}
	}
}

func reduceNextStep(s State, env Env) (State, error) {
	i := s.Step.Index()
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrInvalidStep, s.Step)
	}
	if i == len(domain.WizardSteps)-1 {
		return s, nil
	}
	if env.StepGate {
		if blocking := Validate(s, budget.DefaultWarningRatio).BlockingFor(s.Step); len(blocking) > 0 {
			return s, fmt.Errorf("%w: %s", ErrStepBlocked, blocking[0].Message)
		}
	}
	return enterStep(s, domain.WizardSteps[i+1], env), nil
}

func reduceGoToStep(s State, step domain.WizardStep, env Env) (State, error) {
	if step.Index() < 0 {
		return s, fmt.Errorf("%w: %q", ErrInvalidStep, step)
	}
	return enterStep(s, step, env), nil
}

// enterStep moves to step, lazily generating days when planning begins.
func enterStep(s State, step domain.WizardStep, env Env) State {
	s.Step = step
	if step.Index() >= domain.StepDayPlanning.Index() {
		s = generateDays(s, env)
	}
	return s
}

// generateDays creates one day per trip day when none exist yet. Days start
// at the lead's preferred start date, or today when none was given.
func generateDays(s State, env Env) State {
	if s.Lead == nil || len(s.Days) > 0 {
		return s
	}
	n := s.Lead.TripDays()
	if n <= 0 {
		return s
	}

	start := env.now()
	if s.Lead.StartDate != nil {
		start = *s.Lead.StartDate
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	days := make([]domain.ItineraryDay, n)
	for i := range days {
		days[i] = domain.ItineraryDay{
			ID:         env.newID(),
			DayNumber:  i + 1,
			Date:       start.AddDate(0, 0, i),
			Location:   s.Lead.Destination,
			Activities: []domain.ItineraryDayActivity{},
		}
	}
	s.Days = days
	return s
}

func reduceAssign(s State, act AssignPackageToDay, env Env) (State, error) {
	sp, ok := s.Selection(act.SelectionID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownSelection, act.SelectionID)
	}
	di := s.dayIndex(act.DayID)
	if di < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownDay, act.DayID)
	}
	for _, a := range s.Days[di].Activities {
		if a.SelectionID == sp.ID {
			return s, fmt.Errorf("%w: %s on day %d", ErrAlreadyAssigned, sp.Title, s.Days[di].DayNumber)
		}
	}
	if err := domain.ValidateTimeSlot(act.TimeSlot); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidActivity, err)
	}

	activity := domain.ItineraryDayActivity{
		ID:            env.newID(),
		Type:          domain.ActivityPackage,
		Title:         sp.Title,
		PackageID:     sp.PackageID,
		SelectionID:   sp.ID,
		TimeSlot:      act.TimeSlot,
		DurationHours: math.Min(sp.Duration.TotalHours(), 24),
		Cost:          sp.TotalPrice,
		Location:      s.Days[di].Location,
	}
	s.Days[di].Activities = domain.InsertActivity(s.Days[di].Activities, activity, -1)
	return s, nil
}

func reduceAddActivity(s State, act AddActivity, env Env) (State, error) {
	di := s.dayIndex(act.DayID)
	if di < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownDay, act.DayID)
	}
	a := act.Activity
	if a.Type == "" {
		a.Type = domain.ActivityCustom
	}
	if !domain.ValidActivityTypes[a.Type] {
		return s, fmt.Errorf("%w: type %q", ErrInvalidActivity, a.Type)
	}
	if a.Type == domain.ActivityPackage {
		return s, fmt.Errorf("%w: package activities are placed by assigning a selected package", ErrInvalidActivity)
	}
	if a.Title == "" {
		return s, fmt.Errorf("%w: title is required", ErrInvalidActivity)
	}
	if a.Cost.IsNegative() {
		return s, fmt.Errorf("%w: cost must not be negative", ErrInvalidActivity)
	}
	if a.DurationHours < 0 {
		return s, fmt.Errorf("%w: duration must not be negative", ErrInvalidActivity)
	}
	if err := domain.ValidateTimeSlot(a.TimeSlot); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidActivity, err)
	}
	if a.ID == "" {
		a.ID = env.newID()
	} else if s.hasActivity(a.ID) {
		return s, fmt.Errorf("%w: id %s is already in use", ErrInvalidActivity, a.ID)
	}
	if a.Location == "" {
		a.Location = s.Days[di].Location
	}
	s.Days[di].Activities = domain.InsertActivity(s.Days[di].Activities, a, -1)
	return s, nil
}

func reduceRemoveActivity(s State, act RemoveActivity) (State, error) {
	di := s.dayIndex(act.DayID)
	if di < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownDay, act.DayID)
	}
	list, ok := domain.RemoveActivity(s.Days[di].Activities, act.ActivityID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownActivity, act.ActivityID)
	}
	s.Days[di].Activities = list
	return s, nil
}

func reduceReorder(s State, act ReorderActivities) (State, error) {
	di := s.dayIndex(act.DayID)
	if di < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownDay, act.DayID)
	}
	s.Days[di].Activities = domain.ReorderActivities(s.Days[di].Activities, act.SourceID, act.TargetID)
	return s, nil
}

func reduceMove(s State, act MoveActivity) (State, error) {
	from := s.dayIndex(act.FromDayID)
	if from < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownDay, act.FromDayID)
	}
	to := s.dayIndex(act.ToDayID)
	if to < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownDay, act.ToDayID)
	}
	idx := s.Days[from].ActivityIndex(act.ActivityID)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownActivity, act.ActivityID)
	}
	moving := s.Days[from].Activities[idx]
	if from != to && moving.SelectionID != "" && s.Days[to].ActivityIndexBySelection(moving.SelectionID) >= 0 {
		return s, fmt.Errorf("%w: %s on day %d", ErrAlreadyAssigned, moving.Title, s.Days[to].DayNumber)
	}

	remaining, _ := domain.RemoveActivity(s.Days[from].Activities, act.ActivityID)
	s.Days[from].Activities = remaining
	s.Days[to].Activities = domain.InsertActivity(s.Days[to].Activities, moving, act.Position)
	return s, nil
}

func reduceUpdateDay(s State, act UpdateDay) (State, error) {
	di := s.dayIndex(act.DayID)
	if di < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownDay, act.DayID)
	}
	d := &s.Days[di]
	if act.Location != nil {
		d.Location = *act.Location
	}
	if act.Accommodation != nil {
		d.Accommodation = *act.Accommodation
	}
	if act.Transportation != nil {
		d.Transportation = *act.Transportation
	}
	if act.Notes != nil {
		d.Notes = *act.Notes
	}
	return s, nil
}

func copyFilters(f domain.ItineraryCreationFilters) domain.ItineraryCreationFilters {
	out := f
	if f.Types != nil {
		out.Types = make(map[domain.PackageType]bool, len(f.Types))
		for k, v := range f.Types {
			out.Types[k] = v
		}
	}
	if f.Destinations != nil {
		out.Destinations = make(map[string]bool, len(f.Destinations))
		for k, v := range f.Destinations {
			out.Destinations[k] = v
		}
	}
	return out
}
