package dataurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	url := Encode("image/png", []byte("pixels"))
	assert.Equal(t, "data:image/png;base64,cGl4ZWxz", url)
	assert.True(t, IsDataURL(url))

	mime, data, err := Decode(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte("pixels"), data)
}

func TestDecodeKeepsOnlyMediaType(t *testing.T) {
	t.Parallel()

	mime, data, err := Decode("data:image/svg+xml;charset=utf-8;base64,PHN2Zy8+")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", mime)
	assert.Equal(t, "<svg/>", string(data))
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,@@@",
	} {
		_, _, err := Decode(input)
		require.Error(t, err, input)
		assert.True(t, apperrors.IsValidation(err), input)
	}
}
