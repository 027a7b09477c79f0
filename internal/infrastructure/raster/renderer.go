// Package raster renders customized icons to PNG.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	"github.com/alexisbeaulieu97/iconsmith/pkg/dataurl"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Default output dimensions in pixels.
const (
	DefaultSize          = 144
	DefaultThumbnailSize = 64

	// fallbackViewBox is used for markup that declares no viewBox.
	fallbackViewBox = 24
	maxImageBytes   = 16 << 20
)

// Renderer draws an icon onto a square canvas: background, glyph, then label.
type Renderer struct {
	size   int
	client *http.Client
	logger ports.Logger
}

// NewRenderer creates a renderer producing size x size images. client is used
// for raster glyphs referenced by http(s) URL; nil selects http.DefaultClient.
func NewRenderer(size int, client *http.Client, logger ports.Logger) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Renderer{
		size:   size,
		client: client,
		logger: logger.With("layer", "infrastructure", "component", "raster"),
	}
}

// Rasterize implements ports.Rasterizer and returns a PNG data URL.
func (r *Renderer) Rasterize(ctx context.Context, ci icon.CustomizableIcon) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, r.size, r.size))
	paintBackground(canvas, ci.Styles)

	var err error
	switch {
	case strings.TrimSpace(ci.SVGContent) != "":
		err = r.drawVector(canvas, ci)
	case ci.ImageURL != "":
		canvas, err = r.drawImage(ctx, canvas, ci)
	}
	if err != nil {
		return "", err
	}

	if ci.Styles.LabelVisible && strings.TrimSpace(ci.Styles.Label) != "" {
		canvas = drawLabel(canvas, ci.Styles)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	r.logger.Debug(ctx, "rendered icon", "icon_id", ci.IconID, "bytes", buf.Len())
	return dataurl.Encode("image/png", buf.Bytes()), nil
}

// glyphBox returns the square the glyph is drawn into, centered and shifted by
// the image offsets.
func (r *Renderer) glyphBox(styles icon.Styles) (x, y, side float64) {
	scale := styles.IconScale
	if scale <= 0 {
		scale = 1
	}
	side = float64(r.size) * scale
	x = (float64(r.size)-side)/2 + styles.ImgX
	y = (float64(r.size)-side)/2 + styles.ImgY
	return x, y, side
}

func (r *Renderer) drawVector(canvas *image.NRGBA, ci icon.CustomizableIcon) error {
	glyph, err := oksvg.ReadIconStream(strings.NewReader(ci.SVGContent), oksvg.IgnoreErrorMode)
	if err != nil {
		return apperrors.NewParseError("svg", 0, err)
	}
	if glyph.ViewBox.W <= 0 || glyph.ViewBox.H <= 0 {
		glyph.ViewBox.W, glyph.ViewBox.H = fallbackViewBox, fallbackViewBox
	}

	x, y, side := r.glyphBox(ci.Styles)
	glyph.SetTarget(x, y, side, side)

	bounds := canvas.Bounds()
	scanner := rasterx.NewScannerGV(bounds.Dx(), bounds.Dy(), canvas, bounds)
	dasher := rasterx.NewDasher(bounds.Dx(), bounds.Dy(), scanner)
	glyph.Draw(dasher, 1)
	return nil
}

func (r *Renderer) drawImage(ctx context.Context, canvas *image.NRGBA, ci icon.CustomizableIcon) (*image.NRGBA, error) {
	src, err := r.loadImage(ctx, ci.ImageURL)
	if err != nil {
		return nil, err
	}

	x, y, side := r.glyphBox(ci.Styles)
	n := int(math.Round(side))
	if n <= 0 {
		return canvas, nil
	}
	var fitted *image.NRGBA
	if sb := src.Bounds(); sb.Dx() >= sb.Dy() {
		fitted = imaging.Resize(src, n, 0, imaging.Lanczos)
	} else {
		fitted = imaging.Resize(src, 0, n, imaging.Lanczos)
	}
	fb := fitted.Bounds()
	at := image.Pt(
		int(math.Round(x))+(n-fb.Dx())/2,
		int(math.Round(y))+(n-fb.Dy())/2,
	)
	return imaging.Overlay(canvas, fitted, at, 1), nil
}

func (r *Renderer) loadImage(ctx context.Context, url string) (image.Image, error) {
	var data []byte
	switch {
	case dataurl.IsDataURL(url):
		_, payload, err := dataurl.Decode(url)
		if err != nil {
			return nil, err
		}
		data = payload
	case strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://"):
		payload, err := r.download(ctx, url)
		if err != nil {
			return nil, err
		}
		data = payload
	default:
		return nil, apperrors.NewValidationError("imageUrl", fmt.Sprintf("unsupported image reference %q", url), nil)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewValidationError("imageUrl", "image could not be decoded", err)
	}
	return img, nil
}

func (r *Renderer) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

var transparent = color.NRGBA{}
