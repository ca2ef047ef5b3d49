package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/tourdesk/internal/cli/formatter"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// tourdeskHuhTheme returns a huh theme using the formatter palette.
func tourdeskHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateRequired(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

// validateAmount accepts empty or a non-negative decimal amount.
func validateAmount(s string) error {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return fmt.Errorf("enter an amount like 1250 or 99.50")
	}
	return nil
}

// leadInput is the raw text of a new lead, shared by flags and the form.
type leadInput struct {
	Customer, Email, Destination, Budget, TripType string
	Adults, Children, Days                         string
	Start, End, Preferences, Requirements, Price   string
}

func leadForm(in *leadInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Customer name").Value(&in.Customer).Validate(validateRequired),
			huh.NewInput().Title("Customer email").Value(&in.Email),
			huh.NewInput().Title("Destination").Value(&in.Destination).Validate(validateRequired),
			huh.NewInput().Title("Budget").Placeholder("2000").Value(&in.Budget).Validate(func(s string) error {
				if err := validateRequired(s); err != nil {
					return err
				}
				return validateAmount(s)
			}),
		),
		huh.NewGroup(
			huh.NewInput().Title("Adults").Placeholder("1").Value(&in.Adults).Validate(validateNonNegativeInt),
			huh.NewInput().Title("Children").Placeholder("0").Value(&in.Children).Validate(validateNonNegativeInt),
			huh.NewInput().Title("Start date (YYYY-MM-DD, blank for flexible)").Value(&in.Start).Validate(validateOptionalDate),
			huh.NewInput().Title("End date (YYYY-MM-DD)").Value(&in.End).Validate(validateOptionalDate),
			huh.NewInput().Title("Trip length in days").Value(&in.Days).Validate(validateNonNegativeInt),
		),
		huh.NewGroup(
			huh.NewInput().Title("Trip type").Placeholder("honeymoon, family, adventure…").Value(&in.TripType),
			huh.NewText().Title("Preferences").Value(&in.Preferences),
			huh.NewText().Title("Special requirements").Value(&in.Requirements),
			huh.NewInput().Title("Lead price").Placeholder("25").Value(&in.Price).Validate(validateAmount),
		),
	).WithTheme(tourdeskHuhTheme()).WithShowHelp(false)
}

func (in *leadInput) toLead(id string, now time.Time) (*domain.Lead, error) {
	l := &domain.Lead{
		ID:            id,
		CustomerName:  in.Customer,
		CustomerEmail: in.Email,
		Destination:   in.Destination,
		TripType:      in.TripType,
		Preferences:   in.Preferences,
		Requirements:  in.Requirements,
		Adults:        1,
		Status:        domain.LeadAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var err error
	if l.Budget, err = parseAmount("budget", in.Budget); err != nil {
		return nil, err
	}
	if l.Price, err = parseAmount("price", in.Price); err != nil {
		return nil, err
	}
	if in.Adults != "" {
		if l.Adults, err = strconv.Atoi(in.Adults); err != nil {
			return nil, fmt.Errorf("invalid adults %q: %w", in.Adults, err)
		}
	}
	if in.Children != "" {
		if l.Children, err = strconv.Atoi(in.Children); err != nil {
			return nil, fmt.Errorf("invalid children %q: %w", in.Children, err)
		}
	}
	if in.Days != "" {
		if l.Duration, err = strconv.Atoi(in.Days); err != nil {
			return nil, fmt.Errorf("invalid days %q: %w", in.Days, err)
		}
	}
	if l.StartDate, err = parseOptionalDate("start", in.Start); err != nil {
		return nil, err
	}
	if l.EndDate, err = parseOptionalDate("end", in.End); err != nil {
		return nil, err
	}
	return l, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return d, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q: %w", field, s, err)
	}
	return &t, nil
}

// packageInput is the raw text of a new package.
type packageInput struct {
	Title, Description, Type string
	AdultPrice, ChildPrice   string
	Currency, Days, Hours    string
	Destinations             []string
	Rating                   float64
	OperatorName             string
}

func packageForm(in *packageInput, dest *string) *huh.Form {
	types := make([]huh.Option[string], 0, len(domain.ValidPackageTypes))
	for _, t := range []domain.PackageType{
		domain.PackageActivity, domain.PackageTransfers, domain.PackageLandPackage, domain.PackageHotel,
		domain.PackageCruise, domain.PackageFlight, domain.PackageCombo, domain.PackageCustom,
	} {
		types = append(types, huh.NewOption(formatter.TypeBadge(string(t)), string(t)))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&in.Title).Validate(validateRequired),
			huh.NewText().Title("Description").Value(&in.Description),
			huh.NewSelect[string]().Title("Type").Options(types...).Value(&in.Type),
		),
		huh.NewGroup(
			huh.NewInput().Title("Adult price").Value(&in.AdultPrice).Validate(func(s string) error {
				if err := validateRequired(s); err != nil {
					return err
				}
				return validateAmount(s)
			}),
			huh.NewInput().Title("Child price").Value(&in.ChildPrice).Validate(validateAmount),
			huh.NewInput().Title("Currency").Placeholder("USD").Value(&in.Currency),
			huh.NewInput().Title("Days").Value(&in.Days).Validate(validateNonNegativeInt),
			huh.NewInput().Title("Hours").Value(&in.Hours).Validate(validateNonNegativeInt),
			huh.NewInput().Title("Destination").Value(dest).Validate(validateRequired),
		),
	).WithTheme(tourdeskHuhTheme()).WithShowHelp(false)
}

func (in *packageInput) toPackage(id string, now time.Time) (*domain.EnhancedPackage, error) {
	p := &domain.EnhancedPackage{
		ID:           id,
		Title:        in.Title,
		Description:  in.Description,
		Type:         domain.PackageType(in.Type),
		Destinations: in.Destinations,
		OperatorName: in.OperatorName,
		Rating:       in.Rating,
		Status:       domain.PackageStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var err error
	if p.Pricing.AdultPrice, err = parseAmount("adult price", in.AdultPrice); err != nil {
		return nil, err
	}
	if p.Pricing.ChildPrice, err = parseAmount("child price", in.ChildPrice); err != nil {
		return nil, err
	}
	p.Pricing.Currency = in.Currency
	if p.Pricing.Currency == "" {
		p.Pricing.Currency = "USD"
	}
	if in.Days != "" {
		if p.Duration.Days, err = strconv.Atoi(in.Days); err != nil {
			return nil, fmt.Errorf("invalid days %q: %w", in.Days, err)
		}
	}
	if in.Hours != "" {
		if p.Duration.Hours, err = strconv.Atoi(in.Hours); err != nil {
			return nil, fmt.Errorf("invalid hours %q: %w", in.Hours, err)
		}
	}
	return p, nil
}
