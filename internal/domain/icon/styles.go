package icon

import (
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
)

// Styles holds every visual parameter of a customized icon.
type Styles struct {
	GlyphColor      string  `json:"glyphColor"`
	BackgroundColor string  `json:"backgroundColor"`
	LabelColor      string  `json:"labelColor"`
	Label           string  `json:"label"`
	LabelVisible    bool    `json:"labelVisible"`
	LabelTypeface   string  `json:"labelTypeface"`
	LabelSize       float64 `json:"labelSize"`
	IconScale       float64 `json:"iconScale"`

	ImgX   float64 `json:"imgX"`
	ImgY   float64 `json:"imgY"`
	LabelX float64 `json:"labelX"`
	LabelY float64 `json:"labelY"`

	UseGradient bool                 `json:"useGradient"`
	Gradient    *gradient.Descriptor `json:"gradient"`
	GradientCSS string               `json:"gradientCss,omitempty"`
}

// Default style values for a freshly created icon.
const (
	DefaultGlyphColor      = "#38bdf8"
	DefaultBackgroundColor = "#0284c7"
	DefaultLabelColor      = "#ffffff"
	DefaultLabel           = "Label Text"
	DefaultLabelTypeface   = "VT323"
	DefaultLabelSize       = 16
	DefaultIconScale       = 1
)

// DefaultStyles returns the styles applied to an empty icon, including a configured but unused
// linear gradient.
func DefaultStyles() Styles {
	g := gradient.New().Linear().Direction("to right").
		AddStop("#ea62e5", 0).
		AddStop("#0000ff", 1).
		State()

	return Styles{
		GlyphColor:      DefaultGlyphColor,
		BackgroundColor: DefaultBackgroundColor,
		LabelColor:      DefaultLabelColor,
		Label:           DefaultLabel,
		LabelVisible:    true,
		LabelTypeface:   DefaultLabelTypeface,
		LabelSize:       DefaultLabelSize,
		IconScale:       DefaultIconScale,
		Gradient:        &g,
	}
}

// Clone returns a copy that shares no gradient state with s.
func (s Styles) Clone() Styles {
	clone := s
	if s.Gradient != nil {
		g := s.Gradient.Clone()
		clone.Gradient = &g
	}
	return clone
}

// StylePatch is a partial update; nil fields are left untouched.
type StylePatch struct {
	GlyphColor      *string
	BackgroundColor *string
	LabelColor      *string
	Label           *string
	LabelVisible    *bool
	LabelTypeface   *string
	LabelSize       *float64
	IconScale       *float64
	ImgX            *float64
	ImgY            *float64
	LabelX          *float64
	LabelY          *float64
	UseGradient     *bool
}

// Apply returns s with every non-nil field of p merged in.
func (p StylePatch) Apply(s Styles) Styles {
	next := s.Clone()
	setString(&next.GlyphColor, p.GlyphColor)
	setString(&next.BackgroundColor, p.BackgroundColor)
	setString(&next.LabelColor, p.LabelColor)
	setString(&next.Label, p.Label)
	setString(&next.LabelTypeface, p.LabelTypeface)
	setFloat(&next.LabelSize, p.LabelSize)
	setFloat(&next.IconScale, p.IconScale)
	setFloat(&next.ImgX, p.ImgX)
	setFloat(&next.ImgY, p.ImgY)
	setFloat(&next.LabelX, p.LabelX)
	setFloat(&next.LabelY, p.LabelY)
	if p.LabelVisible != nil {
		next.LabelVisible = *p.LabelVisible
	}
	if p.UseGradient != nil {
		next.UseGradient = *p.UseGradient
	}
	return next
}

// Empty reports whether the patch changes nothing.
func (p StylePatch) Empty() bool {
	return p == StylePatch{}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
