package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

type collectionsOptions struct {
	jsonOutput bool
	id         string
}

func newCollectionsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection"},
		Short:   "Manage icon collections",
	}

	cmd.AddCommand(newCollectionsListCmd(app))
	cmd.AddCommand(newCollectionsShowCmd(app))
	cmd.AddCommand(newCollectionsCreateCmd(app))
	cmd.AddCommand(newCollectionsRenameCmd(app))
	cmd.AddCommand(newCollectionsDeleteCmd(app))

	return cmd
}

func newCollectionsListCmd(app *AppContext) *cobra.Command {
	opts := &collectionsOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "list collections"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.collections.list")
			list, err := app.Repository.List(ctx)
			if err != nil {
				logger.Error(ctx, "listing collections failed", "error", err)
				return newCommandError("list collections", "reading the collection store", err, "Check the storage settings in your configuration.")
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), collectionsPayload(list))
			}
			return renderCollectionsTable(cmd.OutOrStdout(), list, app.Repository.DefaultID())
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func newCollectionsShowCmd(app *AppContext) *cobra.Command {
	opts := &collectionsOptions{}

	cmd := &cobra.Command{
		Use:   "show <collection-id>",
		Short: "Show the icons of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "show collection"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.collections.show")
			c, err := app.Repository.Get(ctx, args[0])
			if err != nil {
				logger.Error(ctx, "loading collection failed", "collection_id", args[0], "error", err)
				return newCommandError("show collection", fmt.Sprintf("looking up collection %q", args[0]), err, collectionSuggestion(err))
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), collectionJSON(c))
			}
			return renderCollection(cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output collection details as JSON")

	return cmd
}

func newCollectionsCreateCmd(app *AppContext) *cobra.Command {
	opts := &collectionsOptions{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "create collection"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.collections.create")
			created, err := app.Repository.CreateCollection(ctx, icon.Collection{ID: opts.id, Name: args[0], Icons: []icon.UserIcon{}})
			if err != nil {
				logger.Error(ctx, "creating collection failed", "name", args[0], "error", err)
				suggestion := "Provide a non-blank collection name."
				if apperrors.IsAlreadyExists(err) {
					suggestion = "Choose another --id or omit it to generate one."
				}
				return newCommandError("create collection", fmt.Sprintf("creating %q", args[0]), err, suggestion)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created collection %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.id, "id", "", "Collection ID (generated if omitted)")

	return cmd
}

func newCollectionsRenameCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <collection-id> <name>",
		Short: "Rename a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "rename collection"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.collections.rename")
			err := renameCollection(ctx, app, args[0], args[1])
			if err != nil {
				logger.Error(ctx, "renaming collection failed", "collection_id", args[0], "error", err)
				return newCommandError("rename collection", fmt.Sprintf("renaming %q", args[0]), err, collectionSuggestion(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed collection %s to %s\n", args[0], strings.TrimSpace(args[1]))
			return nil
		},
	}
}

func renameCollection(ctx context.Context, app *AppContext, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("name", "collection name must not be blank", nil)
	}
	c, err := app.Repository.Get(ctx, id)
	if err != nil {
		return err
	}
	c.Name = name
	return app.Repository.UpdateCollection(ctx, c)
}

func newCollectionsDeleteCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection-id>",
		Short: "Delete a collection and its icons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "delete collection"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.collections.delete")
			if err := app.Repository.DeleteCollection(ctx, args[0]); err != nil {
				logger.Error(ctx, "deleting collection failed", "collection_id", args[0], "error", err)
				return newCommandError("delete collection", fmt.Sprintf("deleting %q", args[0]), err, collectionSuggestion(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted collection %s\n", args[0])
			return nil
		},
	}
}

func collectionSuggestion(err error) string {
	if apperrors.IsNotFound(err) {
		return "Run 'iconsmith collections list' to view available collections."
	}
	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		return fmt.Sprintf("Fix the %s value and try again.", validation.Field)
	}
	return "Check the storage settings in your configuration."
}

func renderCollectionsTable(w io.Writer, list []icon.Collection, defaultID string) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No collections yet.")
		return nil
	}

	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tICONS\tDEFAULT")

	mark := "*"
	if supportsUnicode(w) {
		mark = "★"
	}
	for _, c := range list {
		isDefault := ""
		if c.ID == defaultID {
			isDefault = mark
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n", c.ID, valueOrFallback(c.Name, "(no name)"), len(c.Icons), isDefault)
	}

	return writer.Flush()
}

func renderCollection(w io.Writer, c icon.Collection) error {
	fmt.Fprintf(w, "Collection: %s\n", c.ID)
	fmt.Fprintf(w, "Name:       %s\n", valueOrFallback(c.Name, "(no name)"))
	fmt.Fprintf(w, "Icons:      %d\n", len(c.Icons))
	if len(c.Icons) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tLABEL\tGLYPH\tORIGIN\tBACKGROUND\tRENDERED")
	for _, u := range c.Icons {
		background := u.BackgroundColor
		if u.UseGradient {
			background = "gradient"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID,
			valueOrFallback(u.Label, "(no label)"),
			valueOrFallback(u.OriginalIconID, "-"),
			valueOrFallback(string(u.Origin), "-"),
			background,
			yesNo(u.PNGData != ""),
		)
	}
	return writer.Flush()
}

type iconJSON struct {
	ID              string      `json:"id"`
	Label           string      `json:"label"`
	LabelVisible    bool        `json:"label_visible"`
	Glyph           string      `json:"glyph"`
	Origin          icon.Origin `json:"origin"`
	GlyphColor      string      `json:"glyph_color"`
	BackgroundColor string      `json:"background_color"`
	UseGradient     bool        `json:"use_gradient"`
	Rendered        bool        `json:"rendered"`
}

type collectionJSONEntry struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Count int        `json:"count"`
	Icons []iconJSON `json:"icons,omitempty"`
}

type collectionsJSONPayload struct {
	Version     string                `json:"version"`
	Count       int                   `json:"count"`
	Collections []collectionJSONEntry `json:"collections"`
}

func collectionsPayload(list []icon.Collection) collectionsJSONPayload {
	payload := collectionsJSONPayload{
		Version:     "1.0",
		Count:       len(list),
		Collections: make([]collectionJSONEntry, len(list)),
	}
	for i, c := range list {
		payload.Collections[i] = collectionJSONEntry{ID: c.ID, Name: c.Name, Count: len(c.Icons)}
	}
	return payload
}

func collectionJSON(c icon.Collection) collectionJSONEntry {
	entry := collectionJSONEntry{
		ID:    c.ID,
		Name:  c.Name,
		Count: len(c.Icons),
		Icons: make([]iconJSON, len(c.Icons)),
	}
	for i, u := range c.Icons {
		entry.Icons[i] = iconJSON{
			ID:              u.ID,
			Label:           u.Label,
			LabelVisible:    u.LabelVisible,
			Glyph:           u.OriginalIconID,
			Origin:          u.Origin,
			GlyphColor:      u.GlyphColor,
			BackgroundColor: u.BackgroundColor,
			UseGradient:     u.UseGradient,
			Rendered:        u.PNGData != "",
		}
	}
	return entry
}

func writeJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func supportsUnicode(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
