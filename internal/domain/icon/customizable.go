package icon

import (
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
	"github.com/alexisbeaulieu97/iconsmith/pkg/uuid"
)

// CustomizableIcon is the in-progress, editable form of an icon.
type CustomizableIcon struct {
	IconID               string `json:"iconId"`
	UserIconID           string `json:"userIconId"`
	UserIconCollectionID string `json:"userIconCollectionId"`

	Styles Styles `json:"styles"`

	ContentType string `json:"contentType"`
	SVGContent  string `json:"svgContent,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Origin      Origin `json:"origin"`
}

// MkEmpty returns an icon with unset identifiers and default styles.
func MkEmpty() CustomizableIcon {
	return CustomizableIcon{
		IconID:               uuid.Empty,
		UserIconID:           uuid.Empty,
		UserIconCollectionID: uuid.Empty,
		Styles:               DefaultStyles(),
		ContentType:          ContentTypeSVG,
		Origin:               OriginMDI,
	}
}

// FromCatalog builds the stub shown while a catalog glyph's content is being fetched.
func FromCatalog(entry CatalogIcon) CustomizableIcon {
	ci := MkEmpty()
	ci.IconID = entry.ID
	ci.Origin = entry.Origin
	if entry.ContentType != "" {
		ci.ContentType = entry.ContentType
	}
	if !IsVector(ci.ContentType) {
		ci.ImageURL = entry.URL
	}
	return ci
}

// FromUserIcon rehydrates an editable icon from a persisted record.
func FromUserIcon(u UserIcon) (CustomizableIcon, error) {
	ci := CustomizableIcon{
		IconID:               u.OriginalIconID,
		UserIconID:           u.ID,
		UserIconCollectionID: u.CollectionID,
		ContentType:          u.ContentType,
		SVGContent:           u.SVGContent,
		ImageURL:             u.ImageURL,
		Origin:               u.Origin,
	}
	if err := copier.CopyWithOption(&ci.Styles, &u, copier.Option{DeepCopy: true}); err != nil {
		return CustomizableIcon{}, fmt.Errorf("copy styles from user icon %s: %w", u.ID, err)
	}
	if ci.Styles.Gradient != nil && ci.Styles.Gradient.Configured() {
		if css, err := gradient.FromDescriptor(*ci.Styles.Gradient).CSS(); err == nil {
			ci.Styles.GradientCSS = css
		}
	}
	return ci, nil
}

// ToUserIcon maps ci to its persisted form, carrying the supplied thumbnail and raster payload.
// Styles are copied field for field; unset identifiers stay the empty sentinel.
func ToUserIcon(ci CustomizableIcon, base64Thumbnail, pngData string) (UserIcon, error) {
	u := UserIcon{
		ID:              orEmpty(ci.UserIconID),
		CollectionID:    orEmpty(ci.UserIconCollectionID),
		OriginalIconID:  ci.IconID,
		PNGData:         pngData,
		Base64Thumbnail: base64Thumbnail,
		SVGContent:      ci.SVGContent,
		ImageURL:        ci.ImageURL,
		ContentType:     ci.ContentType,
		Origin:          ci.Origin,
	}
	if err := copier.CopyWithOption(&u, &ci.Styles, copier.Option{DeepCopy: true}); err != nil {
		return UserIcon{}, fmt.Errorf("copy styles to user icon: %w", err)
	}
	return u, nil
}

// Clone returns a deep copy of the icon.
func (ci CustomizableIcon) Clone() CustomizableIcon {
	clone := ci
	clone.Styles = ci.Styles.Clone()
	return clone
}

func orEmpty(id string) string {
	if id == "" {
		return uuid.Empty
	}
	return id
}
