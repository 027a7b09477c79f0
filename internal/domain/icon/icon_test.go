package icon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
	"github.com/alexisbeaulieu97/iconsmith/pkg/uuid"
)

func TestMkEmptyDefaults(t *testing.T) {
	t.Parallel()

	ci := MkEmpty()

	assert.Equal(t, uuid.Empty, ci.IconID)
	assert.Equal(t, uuid.Empty, ci.UserIconID)
	assert.Equal(t, uuid.Empty, ci.UserIconCollectionID)
	assert.Equal(t, "#38bdf8", ci.Styles.GlyphColor)
	assert.Equal(t, "#0284c7", ci.Styles.BackgroundColor)
	assert.Equal(t, "Label Text", ci.Styles.Label)
	assert.True(t, ci.Styles.LabelVisible)
	assert.False(t, ci.Styles.UseGradient)
	require.NotNil(t, ci.Styles.Gradient)
	assert.Equal(t, gradient.TypeLinear, ci.Styles.Gradient.Type)
	assert.Equal(t, "to right", ci.Styles.Gradient.Direction)
	assert.Len(t, ci.Styles.Gradient.Stops, 2)
	assert.Equal(t, ContentTypeSVG, ci.ContentType)
	assert.Equal(t, OriginMDI, ci.Origin)
}

func TestFromCatalog(t *testing.T) {
	t.Parallel()

	vector := FromCatalog(CatalogIcon{ID: "home", Origin: OriginMDI, ContentType: ContentTypeSVG, URL: "http://x/home.svg"})
	assert.Equal(t, "home", vector.IconID)
	assert.Empty(t, vector.ImageURL)

	raster := FromCatalog(CatalogIcon{ID: "plex", Origin: OriginHomarr, ContentType: ContentTypePNG, URL: "http://x/plex.png"})
	assert.Equal(t, OriginHomarr, raster.Origin)
	assert.Equal(t, ContentTypePNG, raster.ContentType)
	assert.Equal(t, "http://x/plex.png", raster.ImageURL)
}

func TestToUserIconCopiesStylesFieldForField(t *testing.T) {
	t.Parallel()

	ci := MkEmpty()
	ci.IconID = "home"
	ci.UserIconID = ""
	ci.SVGContent = "<svg/>"
	ci.Styles.Label = "Home"
	ci.Styles.LabelVisible = false
	ci.Styles.IconScale = 1.5
	ci.Styles.ImgX = 3
	ci.Styles.LabelY = -4
	ci.Styles.UseGradient = true

	u, err := ToUserIcon(ci, "thumb", "png")
	require.NoError(t, err)

	assert.Equal(t, uuid.Empty, u.ID)
	assert.Equal(t, uuid.Empty, u.CollectionID)
	assert.Equal(t, "home", u.OriginalIconID)
	assert.Equal(t, "Home", u.Label)
	assert.False(t, u.LabelVisible)
	assert.Equal(t, 1.5, u.IconScale)
	assert.Equal(t, 3.0, u.ImgX)
	assert.Equal(t, -4.0, u.LabelY)
	assert.True(t, u.UseGradient)
	assert.Equal(t, ci.Styles.GlyphColor, u.GlyphColor)
	assert.Equal(t, "thumb", u.Base64Thumbnail)
	assert.Equal(t, "png", u.PNGData)
	assert.Equal(t, "<svg/>", u.SVGContent)

	require.NotNil(t, u.Gradient)
	assert.NotSame(t, ci.Styles.Gradient, u.Gradient)
	u.Gradient.Stops[0].Color = "black"
	assert.Equal(t, "#ea62e5", ci.Styles.Gradient.Stops[0].Color)
}

func TestFromUserIconRoundTrip(t *testing.T) {
	t.Parallel()

	ci := MkEmpty()
	ci.IconID = "home"
	ci.UserIconID = "icon-1"
	ci.UserIconCollectionID = "col-1"
	ci.Styles.Label = "Home"
	ci.Styles.LabelSize = 20

	u, err := ToUserIcon(ci, "", "")
	require.NoError(t, err)

	back, err := FromUserIcon(u)
	require.NoError(t, err)

	assert.Equal(t, "home", back.IconID)
	assert.Equal(t, "icon-1", back.UserIconID)
	assert.Equal(t, "col-1", back.UserIconCollectionID)
	assert.Equal(t, "Home", back.Styles.Label)
	assert.Equal(t, 20.0, back.Styles.LabelSize)
	assert.Equal(t, "linear-gradient(to right, rgb(234,98,229) 0%, rgb(0,0,255) 100%)", back.Styles.GradientCSS)
}

func TestFromUserIconWithoutGradient(t *testing.T) {
	t.Parallel()

	back, err := FromUserIcon(UserIcon{ID: "a", Label: "Plain"})
	require.NoError(t, err)
	assert.Nil(t, back.Styles.Gradient)
	assert.Empty(t, back.Styles.GradientCSS)
}

func TestStylePatchMergesOnlySetFields(t *testing.T) {
	t.Parallel()

	base := DefaultStyles()
	label := "Updated"
	visible := false
	scale := 2.0

	next := StylePatch{Label: &label, LabelVisible: &visible, IconScale: &scale}.Apply(base)

	assert.Equal(t, "Updated", next.Label)
	assert.False(t, next.LabelVisible)
	assert.Equal(t, 2.0, next.IconScale)
	assert.Equal(t, base.GlyphColor, next.GlyphColor)
	assert.Equal(t, "Label Text", base.Label, "base must not change")
	assert.NotSame(t, base.Gradient, next.Gradient)
	assert.True(t, StylePatch{}.Empty())
}

func TestUserIconJSONFieldNames(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(UserIcon{ID: "a", OriginalIconID: "home", Origin: OriginMDI})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"id", "collectionId", "iconId", "label", "labelVisible", "labelColor", "labelTypeface", "glyphColor", "backgroundColor", "iconScale", "imgX", "imgY", "labelX", "labelY", "pngData", "base64Thumbnail", "useGradient", "gradient", "origin", "contentType"} {
		assert.Contains(t, fields, key)
	}
	assert.Nil(t, fields["gradient"])
}

func TestCollectionCloneIsDeep(t *testing.T) {
	t.Parallel()

	g := gradient.New().Linear().AddStop("red", 0).AddStop("blue", 1).State()
	c := Collection{ID: "c", Name: "C", Icons: []UserIcon{{ID: "a", Gradient: &g}}}

	clone := c.Clone()
	clone.Icons[0].Label = "changed"
	clone.Icons[0].Gradient.Stops[0].Color = "green"

	assert.Empty(t, c.Icons[0].Label)
	assert.Equal(t, "red", c.Icons[0].Gradient.Stops[0].Color)
	assert.Equal(t, 0, c.IndexOf("a"))
	assert.Equal(t, -1, c.IndexOf("missing"))
	assert.NotNil(t, Collection{}.Clone().Icons)
}

func TestIsVector(t *testing.T) {
	t.Parallel()

	assert.True(t, IsVector("image/svg+xml"))
	assert.True(t, IsVector("Image/SVG+XML; charset=utf-8"))
	assert.False(t, IsVector("image/png"))
	assert.True(t, OriginHomarr.Valid())
	assert.False(t, Origin("other").Valid())
}
