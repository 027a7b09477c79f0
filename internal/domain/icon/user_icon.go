package icon

import (
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
	"github.com/alexisbeaulieu97/iconsmith/pkg/uuid"
)

// UserIcon is a customized icon persisted inside a collection.
type UserIcon struct {
	ID             string `json:"id"`
	CollectionID   string `json:"collectionId"`
	OriginalIconID string `json:"iconId"`

	Label         string  `json:"label"`
	LabelVisible  bool    `json:"labelVisible"`
	LabelColor    string  `json:"labelColor"`
	LabelTypeface string  `json:"labelTypeface"`
	LabelSize     float64 `json:"labelSize"`

	GlyphColor      string  `json:"glyphColor"`
	BackgroundColor string  `json:"backgroundColor"`
	IconScale       float64 `json:"iconScale"`

	ImgX   float64 `json:"imgX"`
	ImgY   float64 `json:"imgY"`
	LabelX float64 `json:"labelX"`
	LabelY float64 `json:"labelY"`

	PNGData         string `json:"pngData"`
	Base64Thumbnail string `json:"base64Thumbnail"`

	UseGradient bool                 `json:"useGradient"`
	Gradient    *gradient.Descriptor `json:"gradient"`

	SVGContent  string `json:"svgContent,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ContentType string `json:"contentType"`
	Origin      Origin `json:"origin"`
}

// HasID reports whether the icon carries an assigned identifier.
func (u UserIcon) HasID() bool {
	return !uuid.IsEmpty(u.ID)
}

// Clone returns a deep copy of the icon.
func (u UserIcon) Clone() UserIcon {
	clone := u
	if u.Gradient != nil {
		g := u.Gradient.Clone()
		clone.Gradient = &g
	}
	return clone
}

// Collection is a named group of user icons.
type Collection struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Icons []UserIcon `json:"icons"`
}

// Clone returns a deep copy of the collection. A nil icon list becomes empty.
func (c Collection) Clone() Collection {
	clone := Collection{ID: c.ID, Name: c.Name, Icons: make([]UserIcon, len(c.Icons))}
	for i, u := range c.Icons {
		clone.Icons[i] = u.Clone()
	}
	return clone
}

// IndexOf returns the position of the icon with the given id, or -1.
func (c Collection) IndexOf(iconID string) int {
	for i, u := range c.Icons {
		if u.ID == iconID {
			return i
		}
	}
	return -1
}

// CloneCollections deep-copies a list of collections.
func CloneCollections(collections []Collection) []Collection {
	clone := make([]Collection, len(collections))
	for i, c := range collections {
		clone[i] = c.Clone()
	}
	return clone
}
