package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/iconsmith/internal/app/session"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/catalog"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

type iconAddOptions struct {
	collection      string
	origin          string
	label           string
	hideLabel       bool
	labelColor      string
	labelSize       float64
	glyphColor      string
	backgroundColor string
	scale           float64
	imgX            float64
	imgY            float64
	gradientType    string
	gradientStops   []string
	direction       string
}

func newIconsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "icons",
		Aliases: []string{"icon"},
		Short:   "Customize icons and manage the icons of a collection",
	}

	cmd.AddCommand(newIconsAddCmd(app))
	cmd.AddCommand(newIconsRemoveCmd(app))
	cmd.AddCommand(newIconsLabelCmd(app))

	return cmd
}

func newIconsAddCmd(app *AppContext) *cobra.Command {
	opts := &iconAddOptions{}

	cmd := &cobra.Command{
		Use:   "add <glyph-id>",
		Short: "Customize a catalog glyph and add it to a collection",
		Example: `  iconsmith icons add home --label Home --background "#111827"
  iconsmith icons add plex --origin homarr --collection media --gradient-stop "#e5a00d@0" --gradient-stop black@1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "add icon"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.icons.add")
			logger.Info(ctx, "adding icon", "glyph_id", args[0], "collection_id", opts.collection)

			stored, err := runIconsAdd(ctx, app, cmd, args[0], opts)
			if err != nil {
				logger.Error(ctx, "add icon failed", "glyph_id", args[0], "error", err)
				return newCommandError("add icon", fmt.Sprintf("adding glyph %q", args[0]), err, iconSuggestion(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added icon %s (%s) to collection %s\n", valueOrFallback(stored.Label, args[0]), stored.ID, stored.CollectionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.collection, "collection", "", "Target collection ID (defaults to the default collection)")
	cmd.Flags().StringVar(&opts.origin, "origin", "", "Catalog the glyph comes from: mdi, streamdeck or homarr")
	cmd.Flags().StringVar(&opts.label, "label", "", "Label text drawn under the glyph")
	cmd.Flags().BoolVar(&opts.hideLabel, "hide-label", false, "Do not draw the label")
	cmd.Flags().StringVar(&opts.labelColor, "label-color", icon.DefaultLabelColor, "Label color")
	cmd.Flags().Float64Var(&opts.labelSize, "label-size", icon.DefaultLabelSize, "Label size in pixels")
	cmd.Flags().StringVar(&opts.glyphColor, "glyph-color", icon.DefaultGlyphColor, "Glyph fill color")
	cmd.Flags().StringVar(&opts.backgroundColor, "background", icon.DefaultBackgroundColor, "Solid background color")
	cmd.Flags().Float64Var(&opts.scale, "scale", icon.DefaultIconScale, "Glyph scale relative to the canvas")
	cmd.Flags().Float64Var(&opts.imgX, "img-x", 0, "Horizontal glyph offset in pixels")
	cmd.Flags().Float64Var(&opts.imgY, "img-y", 0, "Vertical glyph offset in pixels")
	cmd.Flags().StringVar(&opts.gradientType, "gradient-type", string(gradient.TypeLinear), "Background gradient type: linear or radial")
	cmd.Flags().StringArrayVar(&opts.gradientStops, "gradient-stop", nil, "Background gradient stop as color@position (repeatable, enables the gradient)")
	cmd.Flags().StringVar(&opts.direction, "direction", "to right", "Linear gradient direction")

	return cmd
}

func runIconsAdd(ctx context.Context, app *AppContext, cmd *cobra.Command, glyphID string, opts *iconAddOptions) (icon.UserIcon, error) {
	entry, err := findGlyph(ctx, app.Catalog, glyphID, icon.Origin(opts.origin))
	if err != nil {
		return icon.UserIcon{}, err
	}

	sess := app.NewSession()
	if err := <-sess.SelectFromCatalog(ctx, entry); err != nil {
		return icon.UserIcon{}, err
	}

	if cmd.Flags().Changed("glyph-color") {
		if err := sess.SetGlyphColor(opts.glyphColor); err != nil {
			return icon.UserIcon{}, err
		}
	}
	if err := sess.UpsertStyles(stylePatch(cmd, opts, entry)); err != nil {
		return icon.UserIcon{}, err
	}
	if len(opts.gradientStops) > 0 {
		if err := applyGradient(sess, opts); err != nil {
			return icon.UserIcon{}, err
		}
	}

	collectionID := opts.collection
	if collectionID == "" {
		active, err := app.Selection.SelectDefault(ctx)
		if err != nil {
			return icon.UserIcon{}, err
		}
		collectionID = active.ID
	}
	return sess.Commit(ctx, collectionID)
}

// findGlyph resolves an exact catalog id, optionally restricted to one origin.
func findGlyph(ctx context.Context, provider *catalog.Aggregate, id string, origin icon.Origin) (icon.CatalogIcon, error) {
	if origin != "" && !origin.Valid() {
		return icon.CatalogIcon{}, apperrors.NewValidationError("origin", fmt.Sprintf("unknown origin %q", origin), nil)
	}
	results, err := provider.Search(ctx, id)
	if err != nil {
		return icon.CatalogIcon{}, err
	}
	for _, entry := range results {
		if entry.ID != id {
			continue
		}
		if origin == "" || entry.Origin == origin {
			return entry, nil
		}
	}
	return icon.CatalogIcon{}, apperrors.NewNotFoundError("glyph", id)
}

func stylePatch(cmd *cobra.Command, opts *iconAddOptions, entry icon.CatalogIcon) icon.StylePatch {
	label := opts.label
	if !cmd.Flags().Changed("label") {
		label = entry.Label
	}
	visible := !opts.hideLabel

	patch := icon.StylePatch{
		Label:        &label,
		LabelVisible: &visible,
	}
	changed := cmd.Flags().Changed
	if changed("label-color") {
		patch.LabelColor = &opts.labelColor
	}
	if changed("label-size") {
		patch.LabelSize = &opts.labelSize
	}
	if changed("background") {
		patch.BackgroundColor = &opts.backgroundColor
	}
	if changed("scale") {
		patch.IconScale = &opts.scale
	}
	if changed("img-x") {
		patch.ImgX = &opts.imgX
	}
	if changed("img-y") {
		patch.ImgY = &opts.imgY
	}
	return patch
}

// applyGradient replaces the default gradient stops with the requested ones
// and switches the background to the gradient.
func applyGradient(sess *session.Session, opts *iconAddOptions) error {
	stops, err := parseStops(opts.gradientStops)
	if err != nil {
		return err
	}
	if err := sess.SetGradientType(gradient.Type(strings.ToLower(opts.gradientType))); err != nil {
		return err
	}

	current, _ := sess.Current()
	if current.Styles.Gradient != nil {
		for range current.Styles.Gradient.Stops {
			if err := sess.RemoveGradientStop(0); err != nil {
				return err
			}
		}
	}
	for _, stop := range stops {
		if err := sess.AddGradientStop(stop.Color, stop.Position); err != nil {
			return err
		}
	}
	if err := sess.SetDirection(opts.direction); err != nil {
		return err
	}
	if _, err := sess.RecalculateCSS(); err != nil {
		return err
	}
	return sess.SetUseGradient(true)
}

func newIconsRemoveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <collection-id> <icon-id>",
		Short: "Remove an icon from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "remove icon"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.icons.remove")
			if err := app.Repository.RemoveIcon(ctx, args[0], args[1]); err != nil {
				logger.Error(ctx, "remove icon failed", "collection_id", args[0], "icon_id", args[1], "error", err)
				return newCommandError("remove icon", fmt.Sprintf("removing %q from %q", args[1], args[0]), err, iconSuggestion(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed icon %s from collection %s\n", args[1], args[0])
			return nil
		},
	}
}

func newIconsLabelCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "label <collection-id> <icon-id> <label>",
		Short: "Change the label of a stored icon and render it again",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "relabel icon"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.icons.label")
			if err := relabelIcon(ctx, app, args[0], args[1], args[2]); err != nil {
				logger.Error(ctx, "relabel icon failed", "collection_id", args[0], "icon_id", args[1], "error", err)
				return newCommandError("relabel icon", fmt.Sprintf("updating %q in %q", args[1], args[0]), err, iconSuggestion(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Relabeled icon %s to %q\n", args[1], args[2])
			return nil
		},
	}
}

func relabelIcon(ctx context.Context, app *AppContext, collectionID, iconID, label string) error {
	stored, found, err := app.Repository.TryGetIcon(ctx, collectionID, iconID)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NewNotFoundError("icon", iconID)
	}

	ci, err := icon.FromUserIcon(stored)
	if err != nil {
		return err
	}
	ci.Styles.Label = label

	png, err := app.Renderer.Rasterize(ctx, ci)
	if err != nil {
		return fmt.Errorf("rasterize icon: %w", err)
	}
	thumb, err := app.Thumbnailer.Thumbnail(ctx, png)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	updated, err := icon.ToUserIcon(ci, thumb, png)
	if err != nil {
		return err
	}
	return app.Repository.UpdateIcon(ctx, collectionID, updated)
}

func iconSuggestion(err error) string {
	switch {
	case apperrors.IsNotFound(err):
		return "Run 'iconsmith catalog search <term>' or 'iconsmith collections show <id>' to find valid IDs."
	case apperrors.IsValidation(err):
		return "Check the flag values; colors accept names, hex and rgb()/hsl() notation."
	case apperrors.IsParse(err):
		return "The glyph markup could not be parsed; pick another glyph."
	case apperrors.IsAlreadyExists(err):
		return "The icon is already stored in that collection."
	default:
		return "Re-run with --verbose for details."
	}
}
