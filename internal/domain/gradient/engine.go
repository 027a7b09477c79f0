package gradient

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Engine is an immutable builder over a Descriptor. Every method returns a new Engine and leaves
// the receiver untouched, including setters that do not apply to the current type.
type Engine struct {
	state Descriptor
}

// New returns an engine with no type and no stops.
func New() *Engine {
	return &Engine{state: DefaultDescriptor()}
}

// FromDescriptor wraps a copy of d, filling missing parameters with their defaults.
func FromDescriptor(d Descriptor) *Engine {
	return &Engine{state: normalize(d.Clone())}
}

func (e *Engine) clone(mutate func(*Descriptor)) *Engine {
	next := e.state.Clone()
	if mutate != nil {
		mutate(&next)
	}
	return &Engine{state: next}
}

// Linear switches to a linear gradient and resets the radial parameters.
func (e *Engine) Linear() *Engine {
	return e.clone(func(d *Descriptor) {
		d.Type = TypeLinear
		d.Shape = DefaultShape
		d.Size = DefaultSize
		d.Position = DefaultPosition
	})
}

// Radial switches to a radial gradient and resets the linear direction.
func (e *Engine) Radial() *Engine {
	return e.clone(func(d *Descriptor) {
		d.Type = TypeRadial
		d.Direction = DefaultDirection
	})
}

// WithType dispatches to Linear or Radial. Any other value yields an unchanged copy.
func (e *Engine) WithType(t Type) *Engine {
	switch t {
	case TypeLinear:
		return e.Linear()
	case TypeRadial:
		return e.Radial()
	default:
		return e.clone(nil)
	}
}

// AddStop appends a stop and re-sorts by position.
func (e *Engine) AddStop(color string, position float64) *Engine {
	return e.clone(func(d *Descriptor) {
		d.Stops = sortedStops(append(d.Stops, Stop{Color: color, Position: position}))
	})
}

// AddStops appends several stops and re-sorts by position.
func (e *Engine) AddStops(stops []Stop) *Engine {
	if len(stops) == 0 {
		return e.clone(nil)
	}
	return e.clone(func(d *Descriptor) {
		d.Stops = sortedStops(append(d.Stops, stops...))
	})
}

// WithStops replaces the stop list. The caller's slice is copied, never reordered in place.
func (e *Engine) WithStops(stops []Stop) *Engine {
	return e.clone(func(d *Descriptor) {
		d.Stops = sortedStops(stops)
	})
}

// Direction sets the linear direction (e.g. "to right", "45deg"). Ignored unless linear.
func (e *Engine) Direction(direction string) *Engine {
	return e.clone(func(d *Descriptor) {
		if d.Type == TypeLinear {
			d.Direction = direction
		}
	})
}

// Shape sets the radial shape ("circle" or "ellipse"). Ignored unless radial.
func (e *Engine) Shape(shape string) *Engine {
	return e.clone(func(d *Descriptor) {
		if d.Type == TypeRadial {
			d.Shape = shape
		}
	})
}

// Size sets the radial size keyword. Ignored unless radial.
func (e *Engine) Size(size string) *Engine {
	return e.clone(func(d *Descriptor) {
		if d.Type == TypeRadial {
			d.Size = size
		}
	})
}

// Position sets the radial center (e.g. "top left", "25% 75%"). Ignored unless radial.
func (e *Engine) Position(position string) *Engine {
	return e.clone(func(d *Descriptor) {
		if d.Type == TypeRadial {
			d.Position = position
		}
	})
}

// Type returns the configured gradient type.
func (e *Engine) Type() Type {
	return e.state.Type
}

// Stops returns a copy of the current stops.
func (e *Engine) Stops() []Stop {
	return cloneStops(e.state.Stops)
}

// State returns a deep copy of the descriptor.
func (e *Engine) State() Descriptor {
	return e.state.Clone()
}

// CSS renders the gradient as a CSS background-image value.
func (e *Engine) CSS() (string, error) {
	if e.state.Type == TypeUnset {
		return "", apperrors.NewConfigurationError("type", "gradient type must be set with Linear() or Radial() before rendering CSS")
	}
	if len(e.state.Stops) < 2 {
		return "", apperrors.NewValidationError("stops", fmt.Sprintf("at least two gradient stops are required, found %d", len(e.state.Stops)), nil)
	}

	var b strings.Builder
	switch e.state.Type {
	case TypeLinear:
		b.WriteString("linear-gradient(")
		b.WriteString(e.state.Direction)
	case TypeRadial:
		b.WriteString("radial-gradient(")
		b.WriteString(strings.TrimSpace(fmt.Sprintf("%s %s at %s", e.state.Shape, e.state.Size, e.state.Position)))
	default:
		return "", apperrors.NewValidationError("type", fmt.Sprintf("unsupported gradient type %q", e.state.Type), nil)
	}

	for _, stop := range e.state.Stops {
		b.WriteString(", ")
		b.WriteString(NormalizeColor(stop.Color))
		b.WriteByte(' ')
		b.WriteString(formatPercent(clampUnit(stop.Position)))
	}
	b.WriteByte(')')

	return b.String(), nil
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func formatPercent(unit float64) string {
	pct := math.Round(unit*100*1000) / 1000
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
