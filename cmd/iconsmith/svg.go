package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/vector"
	"github.com/alexisbeaulieu97/iconsmith/pkg/diff"
)

type svgOptions struct {
	file           string
	preserveNested bool
	origin         string
	color          string
	showDiff       bool
}

func newSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Rewrite SVG markup read from stdin or --file",
	}

	cmd.AddCommand(newSVGFillCmd())
	cmd.AddCommand(newSVGNormalizeCmd())
	cmd.AddCommand(newSVGPrepareCmd())

	return cmd
}

func newSVGFillCmd() *cobra.Command {
	opts := &svgOptions{}

	cmd := &cobra.Command{
		Use:   "fill <color>",
		Short: "Set the fill of the root element and clear nested fills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fillOpts []vector.FillOption
			if opts.preserveNested {
				fillOpts = append(fillOpts, vector.PreserveNestedFills())
			}
			return rewriteSVG(cmd, opts, "fill svg", func(markup string) (string, error) {
				return vector.ApplyFillColor(markup, args[0], fillOpts...)
			})
		},
	}

	addSVGInputFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.preserveNested, "preserve-nested", false, "Keep fill attributes on nested elements")

	return cmd
}

func newSVGNormalizeCmd() *cobra.Command {
	opts := &svgOptions{}

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Drop width and height so the glyph scales with its container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rewriteSVG(cmd, opts, "normalize svg", vector.NormalizeSizing)
		},
	}

	addSVGInputFlags(cmd, opts)

	return cmd
}

func newSVGPrepareCmd() *cobra.Command {
	opts := &svgOptions{}

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Apply the processing used for freshly fetched glyphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			origin := icon.Origin(opts.origin)
			if !origin.Valid() {
				return newCommandError("prepare svg", "validating origin", fmt.Errorf("unknown origin %q", opts.origin), "Use one of mdi, streamdeck or homarr.")
			}
			return rewriteSVG(cmd, opts, "prepare svg", func(markup string) (string, error) {
				return vector.Prepare(markup, origin, opts.color)
			})
		},
	}

	addSVGInputFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.origin, "origin", string(icon.OriginMDI), "Catalog the markup comes from")
	cmd.Flags().StringVar(&opts.color, "color", icon.DefaultGlyphColor, "Glyph fill color")

	return cmd
}

func addSVGInputFlags(cmd *cobra.Command, opts *svgOptions) {
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read markup from this file instead of stdin")
	cmd.Flags().BoolVar(&opts.showDiff, "diff", false, "Print a unified diff of the change instead of the rewritten markup")
}

func rewriteSVG(cmd *cobra.Command, opts *svgOptions, operation string, transform func(string) (string, error)) error {
	markup, err := readMarkup(cmd, opts.file)
	if err != nil {
		return newCommandError(operation, "reading markup", err, "Pipe SVG markup on stdin or pass --file.")
	}
	out, err := transform(markup)
	if err != nil {
		return newCommandError(operation, "rewriting markup", err, "Check that the input is well-formed SVG.")
	}
	if opts.showDiff {
		out = diff.Unified(markup, out, "input", "output")
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func readMarkup(cmd *cobra.Command, path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
