package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Bulk-load packages and leads",
	}
	cmd.AddCommand(newCatalogImportCmd(app))
	return cmd
}

func newCatalogImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import packages and leads from a YAML catalog in one transaction",
		Long: `Import a YAML catalog with "packages:" and/or "leads:" lists.

Packages are published under your operator id; leads require an admin.
The file is validated as a whole and nothing is written when any entry
is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Imports.ImportCatalog(cmd.Context(), app.Principal, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d package(s) and %d lead(s) from %s\n", len(res.Packages), len(res.Leads), args[0])
			for _, p := range res.Packages {
				fmt.Fprintf(out, "  package %s  %s\n", shortID(p.ID), p.Title)
			}
			for _, l := range res.Leads {
				fmt.Fprintf(out, "  lead    %s  %s (%s)\n", shortID(l.ID), l.CustomerName, l.Destination)
			}
			return nil
		},
	}
}
