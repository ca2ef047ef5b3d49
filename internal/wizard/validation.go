package wizard

import (
	"fmt"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/shopspring/decimal"
)

type IssueCode string

const (
	IssueNoPackages        IssueCode = "no_packages"
	IssueOverBudget        IssueCode = "over_budget"
	IssueNoActivities      IssueCode = "no_activities"
	IssueNearBudget        IssueCode = "near_budget"
	IssueEmptyDay          IssueCode = "empty_day"
	IssueUnassignedPackage IssueCode = "unassigned_package"
)

// Issue is a validation finding attributed to the step that owns it.
type Issue struct {
	Step    domain.WizardStep
	Code    IssueCode
	Message string
}

// Validation is the derived validity of a wizard state.
type Validation struct {
	PackagesValid bool
	DaysValid     bool
	BudgetValid   bool
	IsValid       bool
	Errors        []Issue
	Warnings      []Issue
}

// BlockingFor returns the errors that prevent leaving step: those owned by
// step or any earlier step.
func (v Validation) BlockingFor(step domain.WizardStep) []Issue {
	limit := step.Index()
	var out []Issue
	for _, e := range v.Errors {
		if e.Step.Index() <= limit {
			out = append(out, e)
		}
	}
	return out
}

// Validate computes the validation of s. Usage above warnRatio of the budget
// is a warning; exceeding the budget is an error.
func Validate(s State, warnRatio decimal.Decimal) Validation {
	v := Validation{
		PackagesValid: len(s.SelectedPackages) > 0,
		BudgetValid:   !s.Budget.OverBudget,
	}
	for i := range s.Days {
		if s.Days[i].HasActivities() {
			v.DaysValid = true
			break
		}
	}

	if !v.PackagesValid {
		v.Errors = append(v.Errors, Issue{
			Step:    domain.StepPackageSelection,
			Code:    IssueNoPackages,
			Message: "select at least one package",
		})
	}
	if !v.BudgetValid {
		v.Errors = append(v.Errors, Issue{
			Step:    domain.StepPackageSelection,
			Code:    IssueOverBudget,
			Message: fmt.Sprintf("selection exceeds budget by %s", s.Budget.OverBudgetAmount.StringFixed(2)),
		})
	} else if s.Budget.NearLimit(warnRatio) {
		pct := s.Budget.UsageRatio().Mul(decimal.NewFromInt(100)).StringFixed(0)
		v.Warnings = append(v.Warnings, Issue{
			Step:    domain.StepPackageSelection,
			Code:    IssueNearBudget,
			Message: fmt.Sprintf("selection uses %s%% of budget", pct),
		})
	}
	if !v.DaysValid {
		v.Errors = append(v.Errors, Issue{
			Step:    domain.StepDayPlanning,
			Code:    IssueNoActivities,
			Message: "plan at least one activity",
		})
	} else {
		for _, d := range s.Days {
			if !d.HasActivities() {
				v.Warnings = append(v.Warnings, Issue{
					Step:    domain.StepDayPlanning,
					Code:    IssueEmptyDay,
					Message: fmt.Sprintf("day %d has no activities", d.DayNumber),
				})
			}
		}
	}

	for _, sp := range s.SelectedPackages {
		if !isAssigned(s.Days, sp.ID) {
			v.Warnings = append(v.Warnings, Issue{
				Step:    domain.StepDayPlanning,
				Code:    IssueUnassignedPackage,
				Message: fmt.Sprintf("%s is not assigned to any day", sp.Title),
			})
		}
	}

	v.IsValid = v.PackagesValid && v.DaysValid && v.BudgetValid && len(v.Errors) == 0
	return v
}

func isAssigned(days []domain.ItineraryDay, selectionID string) bool {
	for i := range days {
		if days[i].ActivityIndexBySelection(selectionID) >= 0 {
			return true
		}
	}
	return false
}
