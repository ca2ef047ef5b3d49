package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alexanderramin/tourdesk/internal/cli/formatter"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/spf13/cobra"
)

var watchTables = map[string]string{
	"leads":       repository.TableLeads,
	"packages":    repository.TablePackages,
	"itineraries": repository.TableDrafts,
	"drafts":      repository.TableDrafts,
	"all":         "",
}

func newWatchCmd(app *App) *cobra.Command {
	var duration time.Duration
	var count int

	cmd := &cobra.Command{
		Use:   "watch [leads|packages|itineraries|all]",
		Short: "Print changes to a table as they are committed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Feed == nil {
				return fmt.Errorf("change feed is not configured")
			}
			name := "all"
			if len(args) == 1 {
				name = args[0]
			}
			table, ok := watchTables[name]
			if !ok {
				return fmt.Errorf("unknown table %q (use leads, packages, itineraries or all)", name)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if duration > 0 {
				var cancelTimeout context.CancelFunc
				ctx, cancelTimeout = context.WithTimeout(ctx, duration)
				defer cancelTimeout()
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("watching %s, Ctrl-C to stop", name)))
			seen := 0
			unsubscribe, err := app.Feed.Subscribe(ctx, table, func(ev domain.ChangeEvent) {
				fmt.Fprintln(out, formatter.FormatChangeEvent(ev))
				seen++
				if count > 0 && seen >= count {
					cancel()
				}
			})
			if err != nil {
				return fmt.Errorf("subscribing to %s: %w", name, err)
			}
			defer unsubscribe()

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "for", 0, "Stop after this long (default: until interrupted)")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many events")

	return cmd
}
