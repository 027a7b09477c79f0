package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	logginginfra "github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/iconsmith/pkg/dataurl"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

const testSize = 64

func plainIcon() icon.CustomizableIcon {
	ci := icon.MkEmpty()
	ci.Styles.BackgroundColor = "#000000"
	ci.Styles.LabelVisible = false
	return ci
}

func decode(t *testing.T, url string) *image.NRGBA {
	t.Helper()
	mime, data, err := dataurl.Decode(url)
	require.NoError(t, err)
	require.Equal(t, "image/png", mime)
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return imaging.Clone(img)
}

func render(t *testing.T, ci icon.CustomizableIcon) *image.NRGBA {
	t.Helper()
	r := NewRenderer(testSize, nil, logginginfra.NewNoOpLogger())
	url, err := r.Rasterize(context.Background(), ci)
	require.NoError(t, err)
	return decode(t, url)
}

func pngDataURL(t *testing.T, c color.NRGBA, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, c), imaging.PNG))
	return dataurl.Encode("image/png", buf.Bytes())
}

func TestRasterizeSolidBackground(t *testing.T) {
	t.Parallel()

	ci := plainIcon()
	ci.Styles.BackgroundColor = "rgb(10, 20, 30)"
	img := render(t, ci)

	assert.Equal(t, image.Rect(0, 0, testSize, testSize), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.NRGBAAt(testSize-1, testSize-1))
}

func TestRasterizeLinearGradient(t *testing.T) {
	t.Parallel()

	ci := plainIcon()
	desc := gradient.New().Linear().Direction("to right").AddStop("white", 0).AddStop("black", 1).State()
	ci.Styles.Gradient = &desc
	ci.Styles.UseGradient = true
	img := render(t, ci)

	left, right := img.NRGBAAt(0, testSize/2), img.NRGBAAt(testSize-1, testSize/2)
	assert.Greater(t, left.R, uint8(240))
	assert.Less(t, right.R, uint8(15))
	assert.Equal(t, img.NRGBAAt(0, 0), img.NRGBAAt(0, testSize-1), "columns share a color")
}

func TestRasterizeRadialGradient(t *testing.T) {
	t.Parallel()

	ci := plainIcon()
	desc := gradient.New().Radial().Shape("circle").Size("closest-side").AddStop("red", 0).AddStop("blue", 1).State()
	ci.Styles.Gradient = &desc
	ci.Styles.UseGradient = true
	img := render(t, ci)

	center := img.NRGBAAt(testSize/2, testSize/2)
	corner := img.NRGBAAt(0, 0)
	assert.Greater(t, center.R, uint8(240))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, corner)
}

func TestRasterizeFallsBackToSolidForIncompleteGradient(t *testing.T) {
	t.Parallel()

	ci := plainIcon()
	desc := gradient.New().Linear().AddStop("white", 0).State()
	ci.Styles.Gradient = &desc
	ci.Styles.UseGradient = true
	img := render(t, ci)

	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(testSize/2, testSize/2))
}

func TestRasterizeVectorGlyph(t *testing.T) {
	t.Parallel()

	ci := plainIcon()
	ci.SVGContent = `<svg viewBox="0 0 10 10"><rect width="10" height="10" fill="#ff0000"/></svg>`
	ci.Styles.IconScale = 0.5
	img := render(t, ci)

	center := img.NRGBAAt(testSize/2, testSize/2)
	assert.Greater(t, center.R, uint8(250))
	assert.Less(t, center.G, uint8(5))
	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(2, 2))
}

func TestRasterizeVectorGlyphOffset(t *testing.T) {
	t.Parallel()

	ci := plainIcon()
	ci.SVGContent = `<svg viewBox="0 0 10 10"><rect width="10" height="10" fill="#00ff00"/></svg>`
	ci.Styles.IconScale = 0.25
	ci.Styles.ImgX = -24
	ci.Styles.ImgY = -24
	img := render(t, ci)

	assert.Greater(t, img.NRGBAAt(8, 8).G, uint8(250))
	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(testSize/2, testSize/2))
}

func TestRasterizeRasterGlyph(t *testing.T) {
	t.Parallel()

	ci := plainIcon()
	ci.ImageURL = pngDataURL(t, color.NRGBA{B: 255, A: 255}, 4, 4)
	ci.Styles.IconScale = 0.5
	img := render(t, ci)

	center := img.NRGBAAt(testSize/2, testSize/2)
	assert.Greater(t, center.B, uint8(250))
	assert.Less(t, center.R, uint8(5))
	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(1, 1))
}

func TestRasterizeDownloadsRemoteGlyph(t *testing.T) {
	t.Parallel()

	_, payload, err := dataurl.Decode(pngDataURL(t, color.NRGBA{R: 255, G: 255, A: 255}, 8, 8))
	require.NoError(t, err)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)

	ci := plainIcon()
	ci.ImageURL = server.URL + "/png/plex.png"
	r := NewRenderer(testSize, server.Client(), logginginfra.NewNoOpLogger())
	url, err := r.Rasterize(context.Background(), ci)
	require.NoError(t, err)

	center := decode(t, url).NRGBAAt(testSize/2, testSize/2)
	assert.Greater(t, center.R, uint8(250))
	assert.Greater(t, center.G, uint8(250))
	assert.Less(t, center.B, uint8(5))
}

func TestRasterizeRejectsUnsupportedImageReference(t *testing.T) {
	t.Parallel()

	ci := plainIcon()
	ci.ImageURL = "ftp://example.com/a.png"
	_, err := NewRenderer(testSize, nil, logginginfra.NewNoOpLogger()).Rasterize(context.Background(), ci)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRasterizeDrawsVisibleLabel(t *testing.T) {
	t.Parallel()

	countLit := func(img *image.NRGBA) int {
		lit := 0
		for y := testSize / 2; y < testSize; y++ {
			for x := 0; x < testSize; x++ {
				if img.NRGBAAt(x, y).R > 200 {
					lit++
				}
			}
		}
		return lit
	}

	ci := plainIcon()
	ci.Styles.Label = "Hi"
	ci.Styles.LabelColor = "#ffffff"
	ci.Styles.LabelSize = 13

	assert.Zero(t, countLit(render(t, ci)), "hidden label")

	ci.Styles.LabelVisible = true
	assert.Positive(t, countLit(render(t, ci)))
}

func TestRasterizeHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRenderer(testSize, nil, logginginfra.NewNoOpLogger()).Rasterize(ctx, plainIcon())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThumbnail(t *testing.T) {
	t.Parallel()

	thumbs := NewThumbnailer(16)
	url, err := thumbs.Thumbnail(context.Background(), pngDataURL(t, color.NRGBA{R: 255, A: 255}, 64, 32))
	require.NoError(t, err)

	img := decode(t, url)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())

	_, err = thumbs.Thumbnail(context.Background(), "data:image/png;base64,AAAA")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestParsePosition(t *testing.T) {
	t.Parallel()

	cases := map[string][2]float64{
		"center":     {0.5, 0.5},
		"top left":   {0, 0},
		"bottom":     {0.5, 1},
		"25% 75%":    {0.25, 0.75},
		"right 10px": {1, 0.5},
	}
	for input, want := range cases {
		x, y := parsePosition(input)
		assert.Equal(t, want, [2]float64{x, y}, input)
	}
}
