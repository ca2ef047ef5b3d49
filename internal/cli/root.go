package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tourdesk/internal/changefeed"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/geocode"
	"github.com/alexanderramin/tourdesk/internal/locsearch"
	"github.com/alexanderramin/tourdesk/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// App holds the services and session settings used by CLI commands.
type App struct {
	Leads       service.LeadService
	Packages    service.PackageService
	Itineraries service.ItineraryService
	Imports     service.ImportService
	Geocoder    geocode.Geocoder
	Feed        *changefeed.Feed

	// Principal is the acting user. --user and --role override it.
	Principal domain.Principal
	WarnRatio decimal.Decimal
	Search    []locsearch.Option
	Now       func() time.Time

	// IsInteractive reports whether stdin is a terminal; forms and the
	// location picker are only offered when it returns true.
	IsInteractive func() bool

	// Bootstrap, when set, runs once flags are parsed and before any
	// command, to load configuration and wire the fields above.
	Bootstrap func(cmd *cobra.Command) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "tourdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tourdesk",
		Short:         "Build travel itineraries from marketplace leads and operator packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Bootstrap != nil {
				if err := app.Bootstrap(cmd); err != nil {
					return err
				}
			}
			return applyPrincipalFlags(cmd, app)
		},
	}

	root.PersistentFlags().String("config", "", "Config file (default ~/.tourdesk/config.yaml)")
	root.PersistentFlags().String("db", "", "SQLite database path")
	root.PersistentFlags().String("user", "", "Acting user id")
	root.PersistentFlags().String("role", "", "Acting role: admin, super_admin, tour_operator or travel_agent")

	root.AddCommand(
		newLeadCmd(app),
		newPackageCmd(app),
		newCatalogCmd(app),
		newItineraryCmd(app),
		newLocationCmd(app),
		newWatchCmd(app),
	)

	return root
}

func applyPrincipalFlags(cmd *cobra.Command, app *App) error {
	flags := cmd.Flags()
	if flags.Changed("user") {
		user, _ := flags.GetString("user")
		app.Principal.UserID = user
	}
	if flags.Changed("role") {
		role, _ := flags.GetString("role")
		if !domain.ValidRoles[domain.Role(role)] {
			return fmt.Errorf("unknown role %q", role)
		}
		app.Principal.Role = domain.Role(role)
	}
	return nil
}

// shortID is the 8-character prefix commands accept in place of a full id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
