package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "iconsmith",
		Short:         "iconsmith customizes icons for Stream Deck style keys and keeps them in collections",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", "", "Path to the iconsmith YAML configuration")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newCollectionsCmd(app))
	cmd.AddCommand(newIconsCmd(app))
	cmd.AddCommand(newCatalogCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newGradientCmd())
	cmd.AddCommand(newSVGCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
