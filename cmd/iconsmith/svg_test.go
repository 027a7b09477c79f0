package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

func TestSVGFillFromStdin(t *testing.T) {
	t.Parallel()

	out, err := runStateless(t, `<svg><path fill="#000"/><path fill="#f00"/><circle fill="none"/></svg>`, "svg", "fill", "#0f0")
	require.NoError(t, err)
	assert.Equal(t, `<svg fill="#0f0"><path/><path fill="#f00"/><circle fill="none"/></svg>`, out)
}

func TestSVGFillPreserveNested(t *testing.T) {
	t.Parallel()

	out, err := runStateless(t, `<svg><path fill="#f00"/></svg>`, "svg", "fill", "#0f0", "--preserve-nested")
	require.NoError(t, err)
	assert.Equal(t, `<svg fill="#0f0"><path fill="#f00"/></svg>`, out)
}

func TestSVGNormalizeFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "glyph.svg")
	require.NoError(t, os.WriteFile(path, []byte(`<svg width="48px" height="24"><path/></svg>`), 0o644))

	out, err := runStateless(t, "", "svg", "normalize", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, `viewBox="0 0 48 24"`)
	assert.NotContains(t, out, "width")
	assert.NotContains(t, out, "height")
}

func TestSVGPrepareHomarrKeepsColors(t *testing.T) {
	t.Parallel()

	out, err := runStateless(t, `<svg width="10" height="10"><path fill="#f00"/></svg>`, "svg", "prepare", "--origin", "homarr")
	require.NoError(t, err)
	assert.Contains(t, out, `fill="#f00"`)
	assert.NotContains(t, out, "width")
}

func TestSVGErrors(t *testing.T) {
	t.Parallel()

	_, err := runStateless(t, `<svg><path>`, "svg", "fill", "red")
	require.Error(t, err)
	assert.True(t, apperrors.IsParse(err))
	assert.Contains(t, err.Error(), "Check that the input is well-formed SVG.")

	_, err = runStateless(t, "", "svg", "prepare", "--origin", "clipart")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Use one of mdi, streamdeck or homarr.")

	_, err = runStateless(t, "", "svg", "normalize", "--file", filepath.Join(t.TempDir(), "missing.svg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to normalize svg: reading markup")
}

func TestSVGFillDiff(t *testing.T) {
	t.Parallel()

	out, err := runStateless(t, `<svg fill="red"><path/></svg>`, "svg", "fill", "blue", "--diff")
	require.NoError(t, err)
	assert.Equal(t, "--- input\n+++ output\n@@ -1,1 +1,1 @@\n-<svg fill=\"red\"><path/></svg>\n+<svg fill=\"blue\"><path/></svg>\n", out)

	out, err = runStateless(t, `<svg fill="blue"><path/></svg>`, "svg", "fill", "blue", "--diff")
	require.NoError(t, err)
	assert.Empty(t, out)
}
