package raster

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
)

// paintBackground fills img with the gradient when it is enabled and
// renderable, otherwise with the solid background color.
func paintBackground(img *image.NRGBA, styles icon.Styles) {
	if styles.UseGradient && styles.Gradient != nil {
		engine := gradient.FromDescriptor(*styles.Gradient)
		if _, err := engine.CSS(); err == nil {
			paintGradient(img, engine)
			return
		}
	}

	fill, _ := gradient.ParseColor(styles.BackgroundColor)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
}

func paintGradient(img *image.NRGBA, engine *gradient.Engine) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	var sample func(px, py float64) float64
	state := engine.State()
	if state.Type == gradient.TypeRadial {
		sample = radialSampler(state, w, h)
	} else {
		sample = linearSampler(state.Direction, w, h)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := sample(float64(x-b.Min.X)+0.5, float64(y-b.Min.Y)+0.5)
			img.SetNRGBA(x, y, engine.ColorAt(t))
		}
	}
}

// linearSampler projects each pixel on the gradient line. The line length
// follows CSS: the gradient reaches the corners in the given direction.
func linearSampler(direction string, w, h float64) func(x, y float64) float64 {
	angle, ok := gradient.DirectionAngle(direction)
	if !ok {
		angle = 180
	}
	rad := angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	length := math.Abs(w*dx) + math.Abs(h*dy)
	if length == 0 {
		return func(float64, float64) float64 { return 0 }
	}
	return func(x, y float64) float64 {
		return ((x-w/2)*dx+(y-h/2)*dy)/length + 0.5
	}
}

func radialSampler(d gradient.Descriptor, w, h float64) func(x, y float64) float64 {
	fx, fy := parsePosition(d.Position)
	cx, cy := fx*w, fy*h
	rx, ry := radialExtent(d.Shape, d.Size, cx, cy, w, h)
	if rx <= 0 || ry <= 0 {
		return func(float64, float64) float64 { return 1 }
	}
	return func(x, y float64) float64 {
		return math.Hypot((x-cx)/rx, (y-cy)/ry)
	}
}

func radialExtent(shape, size string, cx, cy, w, h float64) (float64, float64) {
	nearX, farX := math.Min(cx, w-cx), math.Max(cx, w-cx)
	nearY, farY := math.Min(cy, h-cy), math.Max(cy, h-cy)
	circle := strings.EqualFold(strings.TrimSpace(shape), "circle")

	switch strings.ToLower(strings.TrimSpace(size)) {
	case "closest-side":
		if circle {
			r := math.Min(nearX, nearY)
			return r, r
		}
		return nearX, nearY
	case "farthest-side":
		if circle {
			r := math.Max(farX, farY)
			return r, r
		}
		return farX, farY
	case "closest-corner":
		if circle {
			r := math.Hypot(nearX, nearY)
			return r, r
		}
		return nearX * math.Sqrt2, nearY * math.Sqrt2
	default:
		if circle {
			r := math.Hypot(farX, farY)
			return r, r
		}
		return farX * math.Sqrt2, farY * math.Sqrt2
	}
}

// parsePosition reads keyword and percentage positions ("top left", "25% 75%")
// as fractions of the box. Anything else is treated as center.
func parsePosition(position string) (float64, float64) {
	x, y := 0.5, 0.5
	var percents []float64
	for _, token := range strings.Fields(strings.ToLower(position)) {
		switch token {
		case "left":
			x = 0
		case "right":
			x = 1
		case "top":
			y = 0
		case "bottom":
			y = 1
		case "center":
		default:
			if v, err := strconv.ParseFloat(strings.TrimSuffix(token, "%"), 64); err == nil && strings.HasSuffix(token, "%") {
				percents = append(percents, v/100)
			}
		}
	}
	if len(percents) > 0 {
		x = percents[0]
	}
	if len(percents) > 1 {
		y = percents[1]
	}
	return x, y
}

func parseColorOr(value string, fallback color.NRGBA) color.NRGBA {
	if c, ok := gradient.ParseColor(value); ok {
		return c
	}
	return fallback
}
