package ports

import (
	"context"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
)

// Content is the raw glyph payload returned by a catalog.
type Content struct {
	Data        []byte
	ContentType string
	// URL locates the glyph for raster content that is referenced rather than inlined.
	URL string
}

// ContentFetcher retrieves the content of a catalog glyph.
type ContentFetcher interface {
	FetchContent(ctx context.Context, entry icon.CatalogIcon) (Content, error)
}

// CatalogProvider lists and searches the glyphs of a single origin.
// Search must return entries sorted by relevance; an empty term lists everything.
type CatalogProvider interface {
	ContentFetcher
	Origin() icon.Origin
	FetchList(ctx context.Context) ([]icon.CatalogIcon, error)
	Search(ctx context.Context, term string) ([]icon.CatalogIcon, error)
}
