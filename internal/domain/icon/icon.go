// Package icon defines the glyph, customization and persisted collection models.
package icon

import "strings"

// Origin identifies the catalog a glyph was selected from.
type Origin string

const (
	OriginMDI        Origin = "mdi"
	OriginStreamDeck Origin = "streamdeck"
	OriginHomarr     Origin = "homarr"
)

// Valid reports whether o is a known origin.
func (o Origin) Valid() bool {
	switch o {
	case OriginMDI, OriginStreamDeck, OriginHomarr:
		return true
	default:
		return false
	}
}

// Content types produced by catalogs.
const (
	ContentTypeSVG  = "image/svg+xml"
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
	ContentTypeWebP = "image/webp"
)

// IsVector reports whether contentType denotes SVG markup. Parameters such as charset are ignored.
func IsVector(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), ContentTypeSVG)
}

// CatalogIcon is a selectable glyph as listed by a catalog provider.
type CatalogIcon struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Keywords    []string `json:"keywords"`
	Origin      Origin   `json:"origin"`
	ContentType string   `json:"contentType"`
	URL         string   `json:"url,omitempty"`
}
