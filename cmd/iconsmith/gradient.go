package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

const swatchWidth = 32

type gradientOptions struct {
	kind      string
	stops     []string
	direction string
	shape     string
	size      string
	position  string
	preview   bool
}

func newGradientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gradient",
		Short: "Work with background gradients",
	}
	cmd.AddCommand(newGradientCSSCmd())
	return cmd
}

func newGradientCSSCmd() *cobra.Command {
	opts := &gradientOptions{}

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Render a gradient as a CSS background-image value",
		Example: `  iconsmith gradient css --stop red@0 --stop blue@100% --direction "to right"
  iconsmith gradient css --type radial --shape circle --stop white --stop black`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildGradient(opts)
			if err != nil {
				return newCommandError("render gradient", "building the gradient", err, "Pass at least two --stop values such as red@0 and blue@1.")
			}
			css, err := engine.CSS()
			if err != nil {
				return newCommandError("render gradient", "rendering CSS", err, "Pass at least two --stop values such as red@0 and blue@1.")
			}
			fmt.Fprintln(cmd.OutOrStdout(), css)
			if opts.preview || supportsUnicode(cmd.OutOrStdout()) {
				fmt.Fprintln(cmd.OutOrStdout(), renderSwatch(engine, swatchWidth))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "type", "t", string(gradient.TypeLinear), "Gradient type: linear or radial")
	cmd.Flags().StringArrayVarP(&opts.stops, "stop", "s", nil, "Color stop as color@position, position in [0,1] or a percentage (repeatable)")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", gradient.DefaultDirection, "Linear direction, e.g. \"to right\" or 45deg")
	cmd.Flags().StringVar(&opts.shape, "shape", gradient.DefaultShape, "Radial shape: circle or ellipse")
	cmd.Flags().StringVar(&opts.size, "size", gradient.DefaultSize, "Radial size keyword")
	cmd.Flags().StringVar(&opts.position, "position", gradient.DefaultPosition, "Radial center, e.g. \"top left\" or \"25% 75%\"")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "Print a color swatch even when stdout is not a terminal")

	return cmd
}

func buildGradient(opts *gradientOptions) (*gradient.Engine, error) {
	kind := gradient.Type(strings.ToLower(strings.TrimSpace(opts.kind)))
	if kind != gradient.TypeLinear && kind != gradient.TypeRadial {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unsupported gradient type %q", opts.kind), nil)
	}
	stops, err := parseStops(opts.stops)
	if err != nil {
		return nil, err
	}

	engine := gradient.New().WithType(kind).WithStops(stops)
	if kind == gradient.TypeLinear {
		return engine.Direction(opts.direction), nil
	}
	return engine.Shape(opts.shape).Size(opts.size).Position(opts.position), nil
}

// parseStops reads color@position values. Stops given without a position are
// spread evenly over [0,1] by their index.
func parseStops(values []string) ([]gradient.Stop, error) {
	stops := make([]gradient.Stop, 0, len(values))
	for i, value := range values {
		color, pos, hasPos := value, "", false
		if at := strings.LastIndex(value, "@"); at >= 0 {
			color, pos, hasPos = value[:at], value[at+1:], true
		}
		color = strings.TrimSpace(color)
		if color == "" {
			return nil, apperrors.NewValidationError("stop", fmt.Sprintf("stop %q has no color", value), nil)
		}

		position := 0.0
		switch {
		case hasPos:
			p, err := parsePosition(pos)
			if err != nil {
				return nil, apperrors.NewValidationError("stop", fmt.Sprintf("stop %q has an invalid position", value), err)
			}
			position = p
		case len(values) > 1:
			position = float64(i) / float64(len(values)-1)
		}
		stops = append(stops, gradient.Stop{Color: color, Position: position})
	}
	return stops, nil
}

func parsePosition(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if pct, ok := strings.CutSuffix(value, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, err
		}
		return v / 100, nil
	}
	return strconv.ParseFloat(value, 64)
}

func renderSwatch(engine *gradient.Engine, width int) string {
	var b strings.Builder
	for i := 0; i < width; i++ {
		c := engine.ColorAt(float64(i) / float64(width-1))
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(gradient.HexColor(c))).Render(" "))
	}
	return b.String()
}
