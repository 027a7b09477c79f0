package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
)

type catalogOptions struct {
	jsonOutput bool
	limit      int
	origin     string
}

func newCatalogCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the glyph catalogs",
	}

	cmd.AddCommand(newCatalogListCmd(app))
	cmd.AddCommand(newCatalogSearchCmd(app))

	return cmd
}

func newCatalogListCmd(app *AppContext) *cobra.Command {
	opts := &catalogOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every glyph of the configured catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "list glyphs"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.catalog.list")
			entries, err := app.Catalog.FetchList(ctx)
			if err != nil {
				logger.Error(ctx, "listing catalog failed", "error", err)
				return newCommandError("list glyphs", "reading the catalogs", err, "Check catalog.local_dir and your network connection, or disable Homarr with ICONSMITH_HOMARR_ENABLED=false.")
			}
			return renderCatalog(cmd.OutOrStdout(), filterCatalog(entries, opts), opts)
		},
	}

	addCatalogFlags(cmd, opts)

	return cmd
}

func newCatalogSearchCmd(app *AppContext) *cobra.Command {
	opts := &catalogOptions{}

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search glyphs by name and keyword, best matches first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "search glyphs"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.catalog.search")
			entries, err := app.Catalog.Search(ctx, args[0])
			if err != nil {
				logger.Error(ctx, "catalog search failed", "term", args[0], "error", err)
				return newCommandError("search glyphs", fmt.Sprintf("searching for %q", args[0]), err, "Check catalog.local_dir and your network connection.")
			}
			logger.Debug(ctx, "catalog search finished", "term", args[0], "results", len(entries))
			return renderCatalog(cmd.OutOrStdout(), filterCatalog(entries, opts), opts)
		},
	}

	addCatalogFlags(cmd, opts)

	return cmd
}

func addCatalogFlags(cmd *cobra.Command, opts *catalogOptions) {
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 50, "Maximum number of glyphs to print (0 for all)")
	cmd.Flags().StringVar(&opts.origin, "origin", "", "Only show glyphs from this catalog")
}

func filterCatalog(entries []icon.CatalogIcon, opts *catalogOptions) []icon.CatalogIcon {
	if opts.origin != "" {
		filtered := entries[:0:0]
		for _, entry := range entries {
			if entry.Origin == icon.Origin(opts.origin) {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}
	if opts.limit > 0 && len(entries) > opts.limit {
		entries = entries[:opts.limit]
	}
	return entries
}

type catalogJSONPayload struct {
	Count  int                `json:"count"`
	Glyphs []icon.CatalogIcon `json:"glyphs"`
}

func renderCatalog(w io.Writer, entries []icon.CatalogIcon, opts *catalogOptions) error {
	if opts.jsonOutput {
		return writeJSON(w, catalogJSONPayload{Count: len(entries), Glyphs: entries})
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No glyphs found.")
		return nil
	}

	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tLABEL\tORIGIN\tTYPE\tKEYWORDS")
	for _, entry := range entries {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			entry.ID,
			entry.Label,
			entry.Origin,
			entry.ContentType,
			valueOrFallback(strings.Join(entry.Keywords, ", "), "-"),
		)
	}
	return writer.Flush()
}
