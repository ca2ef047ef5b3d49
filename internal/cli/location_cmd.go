package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLocationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Look up places with the geocoding service",
	}
	cmd.AddCommand(newLocationSearchCmd(app), newLocationPickCmd(app))
	return cmd
}

func newLocationSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search places once and print the matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Geocoder == nil {
				return fmt.Errorf("place search is not configured")
			}
			query := strings.Join(args, " ")
			locs, err := app.Geocoder.Search(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("searching %q: %w", query, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLocations(query, locs))
			return nil
		},
	}
}

func newLocationPickCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pick [initial text]",
		Short: "Search places as you type and choose one",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := pickLocation(cmd, app, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n%.5f, %.5f\n",
				formatter.Bold(loc.Name), loc.DisplayName, loc.Lat, loc.Lon)
			return nil
		},
	}
}
