package cli

import (
	"fmt"

	"github.com/alexanderramin/tourdesk/internal/cli/formatter"
	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newLeadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Browse, publish and purchase customer leads",
	}

	cmd.AddCommand(
		newLeadAddCmd(app),
		newLeadListCmd(app),
		newLeadMarketCmd(app),
		newLeadMineCmd(app),
		newLeadShowCmd(app),
		newLeadPurchaseCmd(app),
	)

	return cmd
}

func newLeadAddCmd(app *App) *cobra.Command {
	var in leadInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Publish a lead on the marketplace (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Customer == "" && app.interactive() {
				if err := leadForm(&in).Run(); err != nil {
					return err
				}
			}
			if in.Customer == "" || in.Destination == "" || in.Budget == "" {
				return fmt.Errorf("--customer, --destination and --budget are required")
			}

			l, err := in.toLead(uuid.New().String(), app.now())
			if err != nil {
				return err
			}
			if err := app.Leads.Create(cmd.Context(), app.Principal, l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published lead %s for %s (%s, budget %s)\n",
				shortID(l.ID), l.CustomerName, l.Destination, formatter.Money(l.Budget, ""))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Customer, "customer", "", "Customer name")
	f.StringVar(&in.Email, "email", "", "Customer email")
	f.StringVar(&in.Destination, "destination", "", "Destination")
	f.StringVar(&in.Budget, "budget", "", "Total budget")
	f.StringVar(&in.Adults, "adults", "", "Number of adults (default 1)")
	f.StringVar(&in.Children, "children", "", "Number of children")
	f.StringVar(&in.Start, "start", "", "Preferred start date (YYYY-MM-DD)")
	f.StringVar(&in.End, "end", "", "Preferred end date (YYYY-MM-DD)")
	f.StringVar(&in.Days, "days", "", "Trip length in days")
	f.StringVar(&in.TripType, "trip-type", "", "Trip type, e.g. honeymoon")
	f.StringVar(&in.Preferences, "preferences", "", "Customer preferences")
	f.StringVar(&in.Requirements, "requirements", "", "Special requirements")
	f.StringVar(&in.Price, "price", "", "Price an agent pays for the lead")

	return cmd
}

func newLeadListCmd(app *App) *cobra.Command {
	var status, agent, destination string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all leads (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			leads, err := app.Leads.List(cmd.Context(), app.Principal, repository.LeadFilter{
				Status:      domain.LeadStatus(status),
				AgentID:     agent,
				Destination: destination,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLeadList("Leads", leads, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: available, purchased or archived")
	cmd.Flags().StringVar(&agent, "agent", "", "Filter by purchasing agent")
	cmd.Flags().StringVar(&destination, "destination", "", "Filter by destination")

	return cmd
}

func newLeadMarketCmd(app *App) *cobra.Command {
	var destination string

	cmd := &cobra.Command{
		Use:   "market",
		Short: "List leads for sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			leads, err := app.Leads.Market(cmd.Context(), app.Principal, destination)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLeadList("Marketplace", leads, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&destination, "destination", "", "Only leads for this destination")

	return cmd
}

func newLeadMineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List leads you purchased",
		RunE: func(cmd *cobra.Command, args []string) error {
			leads, err := app.Leads.Mine(cmd.Context(), app.Principal)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLeadList("My leads", leads, app.now()))
			return nil
		},
	}
}

func newLeadShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <lead-id>",
		Short: "Show one lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveLeadID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Leads.GetByID(cmd.Context(), app.Principal, id)
			if err != nil {
				return err
			}
			showContact := app.Principal.IsAdmin() || l.OwnedBy(app.Principal.UserID)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLeadDetail(l, showContact))
			return nil
		},
	}
}

func newLeadPurchaseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "purchase <lead-id>",
		Short: "Buy a lead from the marketplace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveLeadID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Leads.Purchase(cmd.Context(), app.Principal, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purchased lead %s: %s, %s for %s\n",
				shortID(l.ID), l.CustomerName, l.Destination, formatter.Money(l.Price, ""))
			fmt.Fprintf(cmd.OutOrStdout(), "Start an itinerary with: tourdesk itinerary start %s\n", shortID(l.ID))
			return nil
		},
	}
}
