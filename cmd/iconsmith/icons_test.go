package main

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

var addedIconPattern = regexp.MustCompile(`Added icon (.+) \((\S+)\) to collection (\S+)`)

func addIcon(t *testing.T, env cliEnv, args ...string) (label, id, collection string) {
	t.Helper()

	out, err := env.run(t, "", append([]string{"icons", "add"}, args...)...)
	require.NoError(t, err)
	m := addedIconPattern.FindStringSubmatch(out)
	require.Len(t, m, 4, "unexpected output %q", out)
	return m[1], m[2], m[3]
}

func showCollection(t *testing.T, env cliEnv, id string) collectionJSONEntry {
	t.Helper()

	out, err := env.run(t, "", "collections", "show", id, "--json")
	require.NoError(t, err)
	var entry collectionJSONEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	return entry
}

func TestIconsAddToDefaultCollection(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	label, id, collection := addIcon(t, env, "home", "--label", "Home", "--background", "#111827")
	assert.Equal(t, "Home", label)
	assert.NotEmpty(t, id)
	assert.Equal(t, "default", collection)

	entry := showCollection(t, env, "default")
	require.Equal(t, 1, entry.Count)
	stored := entry.Icons[0]
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "home", stored.Glyph)
	assert.Equal(t, "mdi", string(stored.Origin))
	assert.Equal(t, "#111827", stored.BackgroundColor)
	assert.True(t, stored.LabelVisible)
	assert.True(t, stored.Rendered)
	assert.False(t, stored.UseGradient)
}

func TestIconsAddDefaultsLabelToGlyphName(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	label, _, _ := addIcon(t, env, "home-assistant", "--hide-label")
	assert.Equal(t, "Home Assistant", label)

	entry := showCollection(t, env, "default")
	require.Len(t, entry.Icons, 1)
	assert.False(t, entry.Icons[0].LabelVisible)
}

func TestIconsAddWithGradient(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	_, err := env.run(t, "", "collections", "create", "Lights", "--id", "lights")
	require.NoError(t, err)

	_, _, collection := addIcon(t, env, "lightbulb",
		"--collection", "lights",
		"--gradient-stop", "red@0",
		"--gradient-stop", "blue@100%",
		"--direction", "45deg",
	)
	assert.Equal(t, "lights", collection)

	entry := showCollection(t, env, "lights")
	require.Len(t, entry.Icons, 1)
	assert.True(t, entry.Icons[0].UseGradient)
	assert.True(t, entry.Icons[0].Rendered)
	assert.Zero(t, showCollection(t, env, "default").Count)
}

func TestIconsAddErrors(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)

	cases := map[string]struct {
		args  []string
		check func(error) bool
	}{
		"unknown glyph":      {[]string{"nope"}, apperrors.IsNotFound},
		"origin mismatch":    {[]string{"home", "--origin", "homarr"}, apperrors.IsNotFound},
		"invalid origin":     {[]string{"home", "--origin", "fontawesome"}, apperrors.IsValidation},
		"unknown collection": {[]string{"home", "--collection", "missing"}, apperrors.IsNotFound},
		"bad gradient type":  {[]string{"home", "--gradient-stop", "red", "--gradient-type", "conic"}, apperrors.IsValidation},
		"single stop":        {[]string{"home", "--gradient-stop", "red@0"}, apperrors.IsValidation},
	}

	for name, tc := range cases {
		_, err := env.run(t, "", append([]string{"icons", "add"}, tc.args...)...)
		require.Error(t, err, name)
		assert.True(t, tc.check(err), "%s: unexpected error %v", name, err)
		assert.Contains(t, err.Error(), "Failed to add icon", name)
	}

	assert.Zero(t, showCollection(t, env, "default").Count)
}

func TestIconsLabelAndRemove(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	_, id, _ := addIcon(t, env, "home", "--label", "Home")

	out, err := env.run(t, "", "icons", "label", "default", id, "Living Room")
	require.NoError(t, err)
	assert.Equal(t, "Relabeled icon "+id+" to \"Living Room\"\n", out)

	entry := showCollection(t, env, "default")
	require.Len(t, entry.Icons, 1)
	assert.Equal(t, id, entry.Icons[0].ID)
	assert.Equal(t, "Living Room", entry.Icons[0].Label)
	assert.True(t, entry.Icons[0].Rendered)

	_, err = env.run(t, "", "icons", "label", "default", "missing", "x")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	out, err = env.run(t, "", "icons", "remove", "default", id)
	require.NoError(t, err)
	assert.Equal(t, "Removed icon "+id+" from collection default\n", out)
	assert.Zero(t, showCollection(t, env, "default").Count)

	_, err = env.run(t, "", "icons", "remove", "default", id)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestExportWritesArchive(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	addIcon(t, env, "home", "--label", "Home")
	addIcon(t, env, "home-assistant", "--label", "home")

	archive := filepath.Join(env.dir, "out.zip")
	out, err := env.run(t, "", "export", "default", "-o", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+archive)

	reader, err := zip.OpenReader(archive)
	require.NoError(t, err)
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"Default/", "Default/Home.png", "Default/home (2).png"}, names)
}

func TestExportUnknownCollection(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	_, err := env.run(t, "", "export", "missing", "-o", filepath.Join(env.dir, "x.zip"))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCatalogSearchRanksExactMatchFirst(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	out, err := env.run(t, "", "catalog", "search", "home", "--json")
	require.NoError(t, err)

	var payload catalogJSONPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, 2, payload.Count)
	assert.Equal(t, "home", payload.Glyphs[0].ID)
	assert.Equal(t, "home-assistant", payload.Glyphs[1].ID)
}

func TestCatalogListTableAndLimit(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	out, err := env.run(t, "", "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "KEYWORDS")
	assert.Contains(t, out, "lightbulb")
	assert.Contains(t, out, "image/svg+xml")

	out, err = env.run(t, "", "catalog", "list", "--limit", "1", "--json")
	require.NoError(t, err)
	var payload catalogJSONPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, 1, payload.Count)
	assert.Equal(t, "home", payload.Glyphs[0].ID)

	out, err = env.run(t, "", "catalog", "list", "--origin", "homarr")
	require.NoError(t, err)
	assert.Equal(t, "No glyphs found.\n", out)
}

func TestIconsAddFromStreamDeckCatalog(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/icons/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"mic-off","label":"Mic Off"}]`))
	})
	mux.HandleFunc("/api/icons/mic-off", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(homeGlyph))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	env := newCLIEnv(t)
	f, err := os.OpenFile(env.config, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = fmt.Fprintf(f, "  stream_deck:\n    enabled: true\n    endpoint: %s/api/icons\n", server.URL)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	label, _, collection := addIcon(t, env, "mic-off", "--origin", "streamdeck")
	assert.Equal(t, "Mic Off", label)
	assert.Equal(t, "default", collection)

	out, err := env.run(t, "", "catalog", "search", "mic off", "--origin", "streamdeck", "--json")
	require.NoError(t, err)
	var payload catalogJSONPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, 1, payload.Count)
	assert.Equal(t, "mic-off", payload.Glyphs[0].ID)
}
