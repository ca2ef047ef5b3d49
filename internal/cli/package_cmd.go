package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/cli/formatter"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPackageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Publish and search operator packages",
	}

	cmd.AddCommand(
		newPackageAddCmd(app),
		newPackageListCmd(app),
		newPackageSearchCmd(app),
		newPackageShowCmd(app),
		newPackageDeactivateCmd(app),
	)

	return cmd
}

func newPackageAddCmd(app *App) *cobra.Command {
	var in packageInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Publish a package (tour operator)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Title == "" && app.interactive() {
				var dest string
				if err := packageForm(&in, &dest).Run(); err != nil {
					return err
				}
				in.Destinations = append(in.Destinations, dest)
			}
			if in.Title == "" || in.AdultPrice == "" || len(in.Destinations) == 0 {
				return fmt.Errorf("--title, --adult-price and --destination are required")
			}
			in.Type = strings.ToUpper(in.Type)

			pkg, err := in.toPackage(uuid.New().String(), app.now())
			if err != nil {
				return err
			}
			if err := app.Packages.Create(cmd.Context(), app.Principal, pkg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published package %s: %s (%s)\n",
				shortID(pkg.ID), pkg.Title, formatter.Money(pkg.Pricing.AdultPrice, pkg.Pricing.Currency))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "Package title")
	f.StringVar(&in.Description, "description", "", "Description")
	f.StringVar(&in.Type, "type", string(domain.PackageActivity), "Type: ACTIVITY, TRANSFERS, LAND_PACKAGE, HOTEL, CRUISE, FLIGHT, COMBO or CUSTOM")
	f.StringVar(&in.AdultPrice, "adult-price", "", "Price per adult")
	f.StringVar(&in.ChildPrice, "child-price", "", "Price per child")
	f.StringVar(&in.Currency, "currency", "USD", "Currency code")
	f.StringVar(&in.Days, "days", "", "Duration in days")
	f.StringVar(&in.Hours, "hours", "", "Duration in hours")
	f.StringSliceVar(&in.Destinations, "destination", nil, "Destination served (repeatable)")
	f.Float64Var(&in.Rating, "rating", 0, "Initial rating 0-5")
	f.StringVar(&in.OperatorName, "operator-name", "", "Operator display name")

	return cmd
}

func newPackageListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your packages, inactive ones included (tour operator)",
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs, err := app.Packages.ListOwn(cmd.Context(), app.Principal)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPackageList("My packages", pkgs))
			return nil
		},
	}
}

// filterFlags holds the package filter flags shared by search commands.
type filterFlags struct {
	query              string
	types              []string
	minPrice, maxPrice string
	minDays, maxDays   int
	minRating          float64
	sortBy, sortDir    string
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&ff.query, "query", "q", "", "Text to match in title, description or destinations")
	f.StringSliceVar(&ff.types, "type", nil, "Package types to include (repeatable)")
	f.StringVar(&ff.minPrice, "min-price", "", "Minimum adult price")
	f.StringVar(&ff.maxPrice, "max-price", "", "Maximum adult price")
	f.IntVar(&ff.minDays, "min-days", -1, "Minimum duration in days")
	f.IntVar(&ff.maxDays, "max-days", -1, "Maximum duration in days")
	f.Float64Var(&ff.minRating, "min-rating", 0, "Minimum rating")
	f.StringVar(&ff.sortBy, "sort", string(domain.SortRecommended), "Sort by: recommended, price, rating, duration or title")
	f.StringVar(&ff.sortDir, "dir", "", "Sort direction: asc or desc (default desc for recommended and rating)")
}

func (ff *filterFlags) build() (domain.ItineraryCreationFilters, error) {
	out := domain.ItineraryCreationFilters{
		Search:    ff.query,
		MinRating: ff.minRating,
		SortBy:    domain.SortKey(ff.sortBy),
		SortDir:   domain.SortDirection(ff.sortDir),
	}
	switch out.SortBy {
	case domain.SortRecommended, domain.SortPrice, domain.SortRating, domain.SortDuration, domain.SortTitle:
	default:
		return out, fmt.Errorf("unknown sort %q", ff.sortBy)
	}
	switch out.SortDir {
	case "":
		out.SortDir = domain.SortAsc
		if out.SortBy == domain.SortRecommended || out.SortBy == domain.SortRating {
			out.SortDir = domain.SortDesc
		}
	case domain.SortAsc, domain.SortDesc:
	default:
		return out, fmt.Errorf("unknown sort direction %q", ff.sortDir)
	}

	if len(ff.types) > 0 {
		out.Types = make(map[domain.PackageType]bool, len(ff.types))
		for _, t := range ff.types {
			pt := domain.PackageType(strings.ToUpper(t))
			if !domain.ValidPackageTypes[pt] {
				return out, fmt.Errorf("unknown package type %q", t)
			}
			out.Types[pt] = true
		}
	}
	for _, b := range []struct {
		raw string
		dst **decimal.Decimal
	}{{ff.minPrice, &out.PriceMin}, {ff.maxPrice, &out.PriceMax}} {
		if b.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(b.raw)
		if err != nil {
			return out, fmt.Errorf("invalid price %q: %w", b.raw, err)
		}
		*b.dst = &d
	}
	if ff.minDays >= 0 {
		n := ff.minDays
		out.DurationMinDays = &n
	}
	if ff.maxDays >= 0 {
		n := ff.maxDays
		out.DurationMaxDays = &n
	}
	return out, nil
}

func newPackageSearchCmd(app *App) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "search [destination]",
		Short: "Search active packages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := ff.build()
			if err != nil {
				return err
			}
			var dest string
			if len(args) == 1 {
				dest = args[0]
			}
			pkgs, err := app.Packages.Search(cmd.Context(), app.Principal, dest, filters)
			if err != nil {
				return err
			}
			title := "Packages"
			if dest != "" {
				title = "Packages in " + dest
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPackageList(title, pkgs))
			return nil
		},
	}
	ff.register(cmd)

	return cmd
}

func newPackageShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <package-id>",
		Short: "Show one package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePackageID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			pkg, err := app.Packages.GetByID(cmd.Context(), app.Principal, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPackageDetail(pkg))
			return nil
		},
	}
}

func newPackageDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <package-id>",
		Short: "Stop offering a package (tour operator)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePackageID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Packages.Deactivate(cmd.Context(), app.Principal, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated package %s\n", shortID(id))
			return nil
		},
	}
}
