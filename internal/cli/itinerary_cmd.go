package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/cli/formatter"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/service"
	"github.com/alexanderramin/tourdesk/internal/wizard"
	"github.com/spf13/cobra"
)

func newItineraryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "itinerary",
		Aliases: []string{"it"},
		Short:   "Assemble itineraries step by step",
		Long: `Assemble an itinerary for a purchased lead in four steps:
packages, days, details and review.

Cart lines, days and activities can be named by number as shown in
"itinerary show" (line 1, day 2, activity 3) or by id prefix.`,
	}

	cmd.AddCommand(
		newItineraryStartCmd(app),
		newItineraryListCmd(app),
		newItineraryShowCmd(app),
		newItineraryPackagesCmd(app),
		newItineraryAddPackageCmd(app),
		newItineraryRemovePackageCmd(app),
		newItineraryQuantityCmd(app),
		newItineraryNextCmd(app),
		newItineraryBackCmd(app),
		newItineraryGotoCmd(app),
		newItineraryDaysCmd(app),
		newItineraryAssignCmd(app),
		newItineraryActivityCmd(app),
		newItineraryRemoveActivityCmd(app),
		newItineraryReorderCmd(app),
		newItineraryMoveCmd(app),
		newItineraryDayCmd(app),
		newItineraryDetailsCmd(app),
		newItineraryResetCmd(app),
		newItineraryValidateCmd(app),
		newItineraryFinalizeCmd(app),
	)

	return cmd
}

func (a *App) itineraryView(it *service.Itinerary) formatter.ItineraryView {
	return formatter.ItineraryView{Draft: it.Draft, State: it.State, Validation: it.Validation, WarnRatio: a.WarnRatio}
}

// printProgress prints a one-line confirmation followed by where the wizard
// stands and what blocks the current step.
func printProgress(w io.Writer, it *service.Itinerary, msg string) {
	fmt.Fprintln(w, msg)
	fmt.Fprintln(w, formatter.StepTrail(it.State.Step))
	fmt.Fprintln(w, formatter.BudgetSummary(it.State.Budget, ""))
	for _, issue := range it.Validation.BlockingFor(it.State.Step) {
		fmt.Fprintln(w, formatter.StyleRed.Render("✖ "+issue.Message))
	}
}

// loadItinerary resolves a draft reference and loads it.
func loadItinerary(cmd *cobra.Command, app *App, ref string) (*service.Itinerary, error) {
	id, err := resolveDraftID(cmd.Context(), app, ref)
	if err != nil {
		return nil, err
	}
	return app.Itineraries.Get(cmd.Context(), app.Principal, id)
}

// applyAction loads the draft, builds an action from its current state and
// saves the result.
func applyAction(cmd *cobra.Command, app *App, ref string, build func(st wizard.State) (wizard.Action, string, error)) error {
	it, err := loadItinerary(cmd, app, ref)
	if err != nil {
		return err
	}
	a, msg, err := build(it.State)
	if err != nil {
		return err
	}
	next, err := app.Itineraries.Apply(cmd.Context(), app.Principal, it.Draft.ID, a)
	if err != nil {
		return err
	}
	printProgress(cmd.OutOrStdout(), next, msg)
	return nil
}

func newItineraryStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start <lead-id>",
		Short: "Open an itinerary for a lead you purchased",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leadID, err := resolveLeadID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			it, err := app.Itineraries.Start(cmd.Context(), app.Principal, leadID)
			if err != nil {
				return err
			}
			printProgress(cmd.OutOrStdout(), it, fmt.Sprintf("Started itinerary %s: %s", shortID(it.Draft.ID), it.Draft.Title))
			return nil
		},
	}
}

func newItineraryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your itineraries",
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := app.Itineraries.List(cmd.Context(), app.Principal)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDraftList(drafts))
			return nil
		},
	}
}

func newItineraryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <itinerary-id>",
		Short: "Show an itinerary with its budget, packages and day plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := loadItinerary(cmd, app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItinerary(app.itineraryView(it)))
			return nil
		},
	}
}

func newItineraryPackagesCmd(app *App) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "packages <itinerary-id>",
		Short: "Browse packages for the itinerary's destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := loadItinerary(cmd, app, args[0])
			if err != nil {
				return err
			}
			filters, err := ff.build()
			if err != nil {
				return err
			}
			var dest string
			if it.State.Lead != nil {
				dest = it.State.Lead.Destination
			}
			pkgs, err := app.Packages.Search(cmd.Context(), app.Principal, dest, filters)
			if err != nil {
				return err
			}
			var open []*domain.EnhancedPackage
			for _, p := range pkgs {
				if !it.State.IsSelected(p.ID) {
					open = append(open, p)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPackageList("Packages for "+dest, open))
			if n := len(pkgs) - len(open); n > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf("%d already selected", n)))
			}
			return nil
		},
	}
	ff.register(cmd)

	return cmd
}

func newItineraryAddPackageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add-package <itinerary-id> <package-id>",
		Short: "Add a package to the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			draftID, err := resolveDraftID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			pkgID, err := resolvePackageID(cmd.Context(), app, args[1])
			if err != nil {
				return err
			}
			it, err := app.Itineraries.AddPackage(cmd.Context(), app.Principal, draftID, pkgID)
			if err != nil {
				return err
			}
			sp, _ := it.State.SelectionForPackage(pkgID)
			printProgress(cmd.OutOrStdout(), it, fmt.Sprintf("Added %s as line %d", sp.Title, len(it.State.SelectedPackages)))
			return nil
		},
	}
}

func newItineraryRemovePackageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-package <itinerary-id> <line>",
		Short: "Remove a cart line and any activities placed from it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				line, err := resolveLine(st, args[1])
				if err != nil {
					return nil, "", err
				}
				sp, _ := st.Selection(line)
				return wizard.RemovePackage{SelectionID: line}, "Removed " + sp.Title, nil
			})
		},
	}
}

func newItineraryQuantityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quantity <itinerary-id> <line> <n>",
		Short: "Set a cart line's quantity; 0 removes the line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[2], err)
			}
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				line, err := resolveLine(st, args[1])
				if err != nil {
					return nil, "", err
				}
				sp, _ := st.Selection(line)
				msg := fmt.Sprintf("%s × %d", sp.Title, qty)
				if qty < 1 {
					msg = "Removed " + sp.Title
				}
				return wizard.UpdatePackageQuantity{SelectionID: line, Quantity: qty}, msg, nil
			})
		},
	}
}

func newItineraryNextCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next <itinerary-id>",
		Short: "Advance to the next step when the current one is complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(wizard.State) (wizard.Action, string, error) {
				return wizard.NextStep{}, "Moved forward", nil
			})
		},
	}
}

func newItineraryBackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "back <itinerary-id>",
		Short: "Return to the previous step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(wizard.State) (wizard.Action, string, error) {
				return wizard.PreviousStep{}, "Moved back", nil
			})
		},
	}
}

// parseStep accepts a step name or its short alias.
func parseStep(s string) (domain.WizardStep, error) {
	switch strings.ToLower(s) {
	case "packages", "package_selection":
		return domain.StepPackageSelection, nil
	case "days", "day_planning":
		return domain.StepDayPlanning, nil
	case "details":
		return domain.StepDetails, nil
	case "review":
		return domain.StepReview, nil
	}
	return "", fmt.Errorf("%w: %q (use packages, days, details or review)", wizard.ErrInvalidStep, s)
}

func newItineraryGotoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "goto <itinerary-id> <packages|days|details|review>",
		Short: "Jump to any step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := parseStep(args[1])
			if err != nil {
				return err
			}
			return applyAction(cmd, app, args[0], func(wizard.State) (wizard.Action, string, error) {
				return wizard.GoToStep{Step: step}, "Jumped to " + string(step), nil
			})
		},
	}
}

func newItineraryDaysCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "days <itinerary-id>",
		Short: "Generate one day per trip day, if none exist yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				msg := "Days generated"
				if len(st.Days) > 0 {
					msg = fmt.Sprintf("Plan already has %d days", len(st.Days))
				}
				return wizard.GenerateDays{}, msg, nil
			})
		},
	}
}

func newItineraryAssignCmd(app *App) *cobra.Command {
	var timeSlot string

	cmd := &cobra.Command{
		Use:   "assign <itinerary-id> <line> <day>",
		Short: "Place a selected package on a day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				line, err := resolveLine(st, args[1])
				if err != nil {
					return nil, "", err
				}
				day, err := resolveDay(st, args[2])
				if err != nil {
					return nil, "", err
				}
				sp, _ := st.Selection(line)
				return wizard.AssignPackageToDay{SelectionID: line, DayID: day.ID, TimeSlot: timeSlot},
					fmt.Sprintf("Placed %s on day %d", sp.Title, day.DayNumber), nil
			})
		},
	}

	cmd.Flags().StringVar(&timeSlot, "time", "", "Time slot, e.g. 09:00-13:00")

	return cmd
}

func newItineraryActivityCmd(app *App) *cobra.Command {
	var title, typ, cost, timeSlot, location, notes string
	var hours float64
	var pick bool

	cmd := &cobra.Command{
		Use:   "activity <itinerary-id> <day>",
		Short: "Add a custom activity (meal, transfer, stay…) to a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("cost", cost)
			if err != nil {
				return err
			}
			if pick {
				loc, err := pickLocation(cmd, app, location)
				if err != nil {
					return err
				}
				location = loc.DisplayName
			}
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				day, err := resolveDay(st, args[1])
				if err != nil {
					return nil, "", err
				}
				a := domain.ItineraryDayActivity{
					Type:          domain.ActivityType(strings.ToUpper(typ)),
					Title:         title,
					TimeSlot:      timeSlot,
					DurationHours: hours,
					Cost:          amount,
					Location:      location,
					Notes:         notes,
				}
				return wizard.AddActivity{DayID: day.ID, Activity: a},
					fmt.Sprintf("Added %s to day %d", title, day.DayNumber), nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "Activity title")
	f.StringVar(&typ, "type", string(domain.ActivityCustom), "Type: TRANSFER, MEAL, ACCOMMODATION or CUSTOM")
	f.StringVar(&cost, "cost", "", "Cost")
	f.StringVar(&timeSlot, "time", "", "Time slot, e.g. 19:00-21:00")
	f.Float64Var(&hours, "hours", 0, "Duration in hours")
	f.StringVar(&location, "location", "", "Location (defaults to the day's location)")
	f.BoolVar(&pick, "pick-location", false, "Choose the location with the interactive place search")
	f.StringVar(&notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newItineraryRemoveActivityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-activity <itinerary-id> <day> <activity>",
		Short: "Remove an activity from a day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				day, err := resolveDay(st, args[1])
				if err != nil {
					return nil, "", err
				}
				act, err := resolveActivity(day, args[2])
				if err != nil {
					return nil, "", err
				}
				return wizard.RemoveActivity{DayID: day.ID, ActivityID: act},
					fmt.Sprintf("Removed activity from day %d", day.DayNumber), nil
			})
		},
	}
}

func newItineraryReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <itinerary-id> <day> <activity> <target-activity>",
		Short: "Move an activity to the position of another on the same day",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				day, err := resolveDay(st, args[1])
				if err != nil {
					return nil, "", err
				}
				src, err := resolveActivity(day, args[2])
				if err != nil {
					return nil, "", err
				}
				dst, err := resolveActivity(day, args[3])
				if err != nil {
					return nil, "", err
				}
				return wizard.ReorderActivities{DayID: day.ID, SourceID: src, TargetID: dst},
					fmt.Sprintf("Reordered day %d", day.DayNumber), nil
			})
		},
	}
}

func newItineraryMoveCmd(app *App) *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "move <itinerary-id> <from-day> <activity> <to-day>",
		Short: "Move an activity to another day",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				from, err := resolveDay(st, args[1])
				if err != nil {
					return nil, "", err
				}
				act, err := resolveActivity(from, args[2])
				if err != nil {
					return nil, "", err
				}
				to, err := resolveDay(st, args[3])
				if err != nil {
					return nil, "", err
				}
				return wizard.MoveActivity{FromDayID: from.ID, ActivityID: act, ToDayID: to.ID, Position: position - 1},
					fmt.Sprintf("Moved activity from day %d to day %d", from.DayNumber, to.DayNumber), nil
			})
		},
	}

	cmd.Flags().IntVar(&position, "position", 0, "1-based position on the target day (default: last)")

	return cmd
}

func newItineraryDayCmd(app *App) *cobra.Command {
	var location, stay, transport, notes string
	var pick bool

	cmd := &cobra.Command{
		Use:   "day <itinerary-id> <day>",
		Short: "Edit a day's location, accommodation, transport or notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if pick {
				loc, err := pickLocation(cmd, app, location)
				if err != nil {
					return err
				}
				location = loc.DisplayName
			}
			u := wizard.UpdateDay{}
			if f.Changed("location") || pick {
				u.Location = &location
			}
			if f.Changed("stay") {
				u.Accommodation = &stay
			}
			if f.Changed("transport") {
				u.Transportation = &transport
			}
			if f.Changed("notes") {
				u.Notes = &notes
			}
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				day, err := resolveDay(st, args[1])
				if err != nil {
					return nil, "", err
				}
				u.DayID = day.ID
				return u, fmt.Sprintf("Updated day %d", day.DayNumber), nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&location, "location", "", "Location")
	f.BoolVar(&pick, "pick-location", false, "Choose the location with the interactive place search")
	f.StringVar(&stay, "stay", "", "Accommodation")
	f.StringVar(&transport, "transport", "", "Transportation")
	f.StringVar(&notes, "notes", "", "Notes")

	return cmd
}

func newItineraryDetailsCmd(app *App) *cobra.Command {
	var title, notes string

	cmd := &cobra.Command{
		Use:   "details <itinerary-id>",
		Short: "Set the itinerary title and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(st wizard.State) (wizard.Action, string, error) {
				a := wizard.SetDetails{Title: st.Title, Notes: st.Notes}
				if cmd.Flags().Changed("title") {
					a.Title = title
				}
				if cmd.Flags().Changed("notes") {
					a.Notes = notes
				}
				return a, "Details saved", nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Itinerary title")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the customer")

	return cmd
}

func newItineraryResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <itinerary-id>",
		Short: "Clear packages, days and details, keeping the lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAction(cmd, app, args[0], func(wizard.State) (wizard.Action, string, error) {
				return wizard.Reset{}, "Itinerary cleared", nil
			})
		},
	}
}

func newItineraryValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <itinerary-id>",
		Short: "Check whether the itinerary can be finalized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := loadItinerary(cmd, app, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.RenderBudgetBar(it.State.Budget, app.WarnRatio, 20))
			fmt.Fprintln(out, formatter.FormatValidation(it.Validation))
			return nil
		},
	}
}

func newItineraryFinalizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <itinerary-id>",
		Short: "Lock a complete itinerary that has reached review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draftID, err := resolveDraftID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			it, err := app.Itineraries.Finalize(cmd.Context(), app.Principal, draftID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Finalized %s: %d package(s), %d day(s), total %s\n",
				it.Draft.Title, len(it.State.SelectedPackages), len(it.State.Days), formatter.Money(it.State.Budget.Used, ""))
			return nil
		},
	}
}
