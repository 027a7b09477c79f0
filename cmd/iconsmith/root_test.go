package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

const homeGlyph = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M10 20v-6h4v6h5v-8h3L12 3 2 12h3v8z"/></svg>`

type cliEnv struct {
	dir    string
	config string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()

	dir := t.TempDir()
	glyphs := filepath.Join(dir, "glyphs")
	require.NoError(t, os.MkdirAll(glyphs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(glyphs, "home.svg"), []byte(homeGlyph), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(glyphs, "home-assistant.svg"), []byte(homeGlyph), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(glyphs, "lightbulb.svg"), []byte(homeGlyph), 0o644))

	config := filepath.Join(dir, "iconsmith.yaml")
	content := fmt.Sprintf(`storage:
  driver: json
  path: %s
logging:
  level: error
catalog:
  local_dir: %s
  homarr:
    enabled: false
`, filepath.Join(dir, "collections.json"), glyphs)
	require.NoError(t, os.WriteFile(config, []byte(content), 0o644))

	return cliEnv{dir: dir, config: config}
}

// run executes one CLI invocation against a fresh AppContext, like a separate process would.
func (e cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	app := newAppContext()
	root := newRootCmd(app)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.config}, args...))

	err := root.Execute()
	app.Close()
	return out.String(), err
}

func TestCollectionsListBootstrapsDefault(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	out, err := env.run(t, "", "collections", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "Default")
	assert.Contains(t, out, "*")
}

func TestCollectionsLifecycle(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)

	out, err := env.run(t, "", "collections", "create", "Media", "--id", "media")
	require.NoError(t, err)
	assert.Equal(t, "Created collection Media (media)\n", out)

	out, err = env.run(t, "", "collections", "rename", "media", "Streaming")
	require.NoError(t, err)
	assert.Equal(t, "Renamed collection media to Streaming\n", out)

	out, err = env.run(t, "", "collections", "list", "--json")
	require.NoError(t, err)
	var payload collectionsJSONPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, 2, payload.Count)
	names := map[string]string{}
	for _, c := range payload.Collections {
		names[c.ID] = c.Name
	}
	assert.Equal(t, "Streaming", names["media"])
	assert.Equal(t, "Default", names["default"])

	out, err = env.run(t, "", "collections", "delete", "media")
	require.NoError(t, err)
	assert.Equal(t, "Deleted collection media\n", out)

	_, err = env.run(t, "", "collections", "show", "media")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "Suggestion: Run 'iconsmith collections list'")
}

func TestCollectionsCreateDuplicateID(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	_, err := env.run(t, "", "collections", "create", "Again", "--id", "default")
	require.Error(t, err)
	assert.True(t, apperrors.IsAlreadyExists(err))
	assert.Contains(t, err.Error(), "Choose another --id")
}

func TestCollectionsRenameRejectsBlankName(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	_, err := env.run(t, "", "collections", "rename", "default", "  ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Fix the name value")
}

func TestDeletingLastCollectionRecreatesDefault(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	_, err := env.run(t, "", "collections", "delete", "default")
	require.NoError(t, err)

	out, err := env.run(t, "", "collections", "show", "default")
	require.NoError(t, err)
	assert.Contains(t, out, "Collection: default")
	assert.Contains(t, out, "Icons:      0")
}

func TestInvalidConfigReportsSuggestion(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	require.NoError(t, os.WriteFile(env.config, []byte("storage:\n  driver: mongo\n"), 0o644))

	_, err := env.run(t, "", "collections", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to list collections: starting iconsmith")
	assert.Contains(t, err.Error(), "Fix the reported setting in "+env.config)
}

func TestMissingConfigFile(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	env.config = filepath.Join(env.dir, "missing.yaml")

	_, err := env.run(t, "", "collections", "list")
	require.Error(t, err)
	assert.True(t, apperrors.IsParse(err))
	assert.Contains(t, err.Error(), "Check that the configuration file exists")
}
