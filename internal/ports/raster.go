package ports

import (
	"context"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
)

// Rasterizer renders a customized icon to a PNG data URL.
type Rasterizer interface {
	Rasterize(ctx context.Context, ci icon.CustomizableIcon) (string, error)
}

// Thumbnailer derives a small preview from a PNG data URL.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, pngDataURL string) (string, error)
}

// ArchiveFile is a single entry handed to an ArchiveBuilder.
type ArchiveFile struct {
	Name    string
	DataURL string
}

// ArchiveBuilder bundles icon raster payloads into a downloadable archive.
type ArchiveBuilder interface {
	BuildArchive(ctx context.Context, name string, files []ArchiveFile) ([]byte, error)
}
