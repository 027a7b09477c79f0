package gradient

import (
	"encoding/json"
	"fmt"
	"sort"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Type identifies the gradient family. The zero value means "not yet configured".
type Type string

const (
	TypeUnset  Type = ""
	TypeLinear Type = "linear"
	TypeRadial Type = "radial"
)

// Defaults applied whenever the gradient type is switched.
const (
	DefaultDirection = "to bottom"
	DefaultShape     = "ellipse"
	DefaultSize      = "farthest-corner"
	DefaultPosition  = "center"
)

// Valid reports whether t is one of the known gradient types, including unset.
func (t Type) Valid() bool {
	switch t {
	case TypeUnset, TypeLinear, TypeRadial:
		return true
	default:
		return false
	}
}

// Stop is a color positioned along the gradient line, position in [0,1].
type Stop struct {
	Color    string  `json:"color"`
	Position float64 `json:"position"`
}

// Descriptor is the canonical, serializable gradient state.
type Descriptor struct {
	Type      Type   `json:"type,omitempty"`
	Stops     []Stop `json:"stops"`
	Direction string `json:"direction"`
	Shape     string `json:"shape"`
	Size      string `json:"size"`
	Position  string `json:"position"`
}

// DefaultDescriptor returns an unconfigured descriptor with every parameter at its default.
func DefaultDescriptor() Descriptor {
	return Descriptor{
		Stops:     []Stop{},
		Direction: DefaultDirection,
		Shape:     DefaultShape,
		Size:      DefaultSize,
		Position:  DefaultPosition,
	}
}

// Clone returns a deep copy of the descriptor.
func (d Descriptor) Clone() Descriptor {
	clone := d
	clone.Stops = cloneStops(d.Stops)
	return clone
}

// Configured reports whether a gradient type has been chosen.
func (d Descriptor) Configured() bool {
	return d.Type != TypeUnset
}

// UnmarshalJSON decodes both the canonical shape and the legacy angle/cssStyle shape.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	decoded, _, err := DecodeDescriptor(data)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}

type rawStop struct {
	Color    string   `json:"color"`
	Position *float64 `json:"position"`
	Pos      *float64 `json:"pos"`
}

type rawDescriptor struct {
	Type      Type      `json:"type"`
	Stops     []rawStop `json:"stops"`
	Direction string    `json:"direction"`
	Shape     string    `json:"shape"`
	Size      string    `json:"size"`
	Position  string    `json:"position"`

	// legacy shape
	Angle    *float64 `json:"angle"`
	CSSStyle *string  `json:"cssStyle"`
}

// DecodeDescriptor parses a persisted gradient. The boolean result reports whether the input used
// the legacy {stops[position 0..100], type, angle, cssStyle} shape and was converted.
func DecodeDescriptor(data []byte) (Descriptor, bool, error) {
	var raw rawDescriptor
	if err := json.Unmarshal(data, &raw); err != nil {
		return Descriptor{}, false, apperrors.NewValidationError("gradient", "malformed gradient record", err)
	}
	if !raw.Type.Valid() {
		return Descriptor{}, false, apperrors.NewValidationError("gradient.type", fmt.Sprintf("unsupported gradient type %q", raw.Type), nil)
	}

	legacy := raw.Angle != nil || raw.CSSStyle != nil

	desc := Descriptor{
		Type:      raw.Type,
		Stops:     make([]Stop, 0, len(raw.Stops)),
		Direction: raw.Direction,
		Shape:     raw.Shape,
		Size:      raw.Size,
		Position:  raw.Position,
	}

	for _, stop := range raw.Stops {
		var pos float64
		switch {
		case stop.Position != nil:
			pos = *stop.Position
		case stop.Pos != nil:
			pos = *stop.Pos
		}
		if legacy {
			pos /= 100
		}
		desc.Stops = append(desc.Stops, Stop{Color: stop.Color, Position: pos})
	}

	if legacy && raw.Angle != nil && desc.Direction == "" && desc.Type != TypeRadial {
		desc.Direction = fmt.Sprintf("%gdeg", *raw.Angle)
	}

	return normalize(desc), legacy, nil
}

func normalize(d Descriptor) Descriptor {
	if d.Direction == "" {
		d.Direction = DefaultDirection
	}
	if d.Shape == "" {
		d.Shape = DefaultShape
	}
	if d.Size == "" {
		d.Size = DefaultSize
	}
	if d.Position == "" {
		d.Position = DefaultPosition
	}
	d.Stops = sortedStops(d.Stops)
	return d
}

func cloneStops(stops []Stop) []Stop {
	clone := make([]Stop, len(stops))
	copy(clone, stops)
	return clone
}

// sortedStops returns a sorted copy; equal positions keep insertion order.
func sortedStops(stops []Stop) []Stop {
	sorted := cloneStops(stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}
