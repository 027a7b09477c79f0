package raster

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
)

// drawLabel renders the label with the built-in bitmap face, scaled to the
// label size and placed near the bottom edge. The typeface setting is not
// honored.
func drawLabel(canvas *image.NRGBA, styles icon.Styles) *image.NRGBA {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()

	width := font.MeasureString(face, styles.Label).Ceil()
	if width <= 0 {
		return canvas
	}

	text := image.NewNRGBA(image.Rect(0, 0, width, lineHeight))
	drawer := font.Drawer{
		Dst:  text,
		Src:  image.NewUniform(parseColorOr(styles.LabelColor, transparent)),
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	drawer.DrawString(styles.Label)

	scale := 1.0
	if styles.LabelSize > 0 {
		scale = styles.LabelSize / float64(lineHeight)
	}
	w := max(1, int(math.Round(float64(width)*scale)))
	h := max(1, int(math.Round(float64(lineHeight)*scale)))
	scaled := imaging.Resize(text, w, h, imaging.NearestNeighbor)

	size := canvas.Bounds().Dx()
	margin := size / 16
	at := image.Pt(
		(size-w)/2+int(math.Round(styles.LabelX)),
		size-h-margin+int(math.Round(styles.LabelY)),
	)
	return imaging.Overlay(canvas, scaled, at, 1)
}
