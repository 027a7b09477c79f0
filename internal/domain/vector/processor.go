// Package vector rewrites SVG markup: fill coloring and sizing normalization.
package vector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
)

const (
	noFill      = "none"
	initialFill = "black"
)

type fillOptions struct {
	preserveNested bool
}

// FillOption tunes ApplyFillColor.
type FillOption func(*fillOptions)

// PreserveNestedFills keeps fill attributes on descendant elements instead of stripping them.
func PreserveNestedFills() FillOption {
	return func(o *fillOptions) {
		o.preserveNested = true
	}
}

// ApplyFillColor sets fill on every <svg> element. Descendant fills equal to the root's previous
// fill (black when the root had none) or to color are removed so they inherit the new color.
// Other fills, and fill="none", are kept so multi-color artwork survives.
// On parse failure the original markup is returned with a ParseError.
func ApplyFillColor(markup, color string, opts ...FillOption) (string, error) {
	var o fillOptions
	for _, opt := range opts {
		opt(&o)
	}

	var previous string
	seenRoot := false
	return rewrite(markup, func(el *element) {
		if el.isSVG() {
			if !seenRoot {
				seenRoot = true
				previous = initialFill
				if fill, ok := el.get("fill"); ok {
					previous = fill
				}
			}
			el.set("fill", color)
			return
		}
		if o.preserveNested {
			return
		}
		fill, ok := el.get("fill")
		if !ok || strings.TrimSpace(fill) == noFill {
			return
		}
		if sameColor(fill, previous) || sameColor(fill, color) {
			el.remove("fill")
		}
	})
}

func sameColor(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if strings.EqualFold(a, b) {
		return true
	}
	ca, okA := gradient.ParseColor(a)
	cb, okB := gradient.ParseColor(b)
	return okA && okB && ca == cb
}

// NormalizeSizing drops width and height from <svg> elements so the glyph scales with its
// container. When both were present as plain lengths and no viewBox exists, one is synthesized
// from them.
func NormalizeSizing(markup string) (string, error) {
	return rewrite(markup, func(el *element) {
		if !el.isSVG() {
			return
		}
		width, hasWidth := el.get("width")
		height, hasHeight := el.get("height")
		el.remove("width")
		el.remove("height")

		if !hasWidth || !hasHeight {
			return
		}
		if _, ok := el.get("viewBox"); ok {
			return
		}
		w, okW := parseLength(width)
		h, okH := parseLength(height)
		if okW && okH && w > 0 && h > 0 {
			el.set("viewBox", fmt.Sprintf("0 0 %s %s", formatNumber(w), formatNumber(h)))
		}
	})
}

// Prepare runs the pipeline applied to freshly fetched glyphs. Homarr artwork carries its own
// coloring and only gets its sizing normalized.
func Prepare(markup string, origin icon.Origin, color string) (string, error) {
	if origin == icon.OriginHomarr {
		return NormalizeSizing(markup)
	}

	filled, err := ApplyFillColor(markup, color)
	if err != nil {
		return markup, err
	}
	return NormalizeSizing(filled)
}

func parseLength(value string) (float64, bool) {
	value = strings.TrimSuffix(strings.TrimSpace(value), "px")
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
