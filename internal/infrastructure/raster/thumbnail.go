package raster

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/alexisbeaulieu97/iconsmith/pkg/dataurl"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Thumbnailer shrinks rendered icons for list previews.
type Thumbnailer struct {
	size int
}

// NewThumbnailer creates a thumbnailer fitting images into size x size.
func NewThumbnailer(size int) *Thumbnailer {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	return &Thumbnailer{size: size}
}

// Thumbnail implements ports.Thumbnailer.
func (t *Thumbnailer) Thumbnail(ctx context.Context, pngDataURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, data, err := dataurl.Decode(pngDataURL)
	if err != nil {
		return "", err
	}
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", apperrors.NewValidationError("png", "thumbnail source could not be decoded", err)
	}

	thumb := imaging.Fit(src, t.size, t.size, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return dataurl.Encode("image/png", buf.Bytes()), nil
}
