package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "default", cfg.Collections.DefaultID)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.Homarr.CacheTTL)
	assert.Equal(t, 100, cfg.Catalog.Homarr.CacheSize)
	assert.False(t, cfg.Catalog.StreamDeck.Enabled)
	assert.Equal(t, 100, cfg.Catalog.StreamDeck.PageSize)
	assert.False(t, cfg.Sync.Enabled)
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	validYAML := `storage:
  driver: json
  path: /tmp/collections.json
collections:
  default_id: home
  default_name: Home
logging:
  level: debug
  human_readable: true
catalog:
  local_dir: ./glyphs
  homarr:
    enabled: false
    cache_ttl: 30s
sync:
  enabled: true
  endpoint: https://sync.example.com/api/collections
export:
  size: 256
  thumbnail_size: 32
`

	cases := []struct {
		name     string
		contents string
		assert   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:     "valid configuration is parsed over defaults",
			contents: validYAML,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				assert.Equal(t, "json", cfg.Storage.Driver)
				assert.Equal(t, "home", cfg.Collections.DefaultID)
				assert.True(t, cfg.Logging.HumanReadable)
				assert.False(t, cfg.Catalog.Homarr.Enabled)
				assert.Equal(t, 30*time.Second, cfg.Catalog.Homarr.CacheTTL)
				assert.Equal(t, 100, cfg.Catalog.Homarr.CacheSize, "unset values keep their default")
				assert.Equal(t, 256, cfg.Export.Size)
				assert.True(t, cfg.Sync.Enabled)
			},
		},
		{
			name:     "empty document yields defaults",
			contents: "",
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				assert.Equal(t, Defaults(), cfg)
			},
		},
		{
			name:     "malformed yaml is a parse error with a line",
			contents: "storage:\n  driver: [sqlite\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				assert.True(t, apperrors.IsParse(err))
			},
		},
		{
			name:     "unknown driver",
			contents: "storage:\n  driver: mongo\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				var ve *apperrors.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "storage.driver", ve.Field)
			},
		},
		{
			name:     "postgres requires a dsn",
			contents: "storage:\n  driver: postgres\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var ve *apperrors.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "storage.dsn", ve.Field)
			},
		},
		{
			name:     "enabled sync requires an endpoint",
			contents: "sync:\n  enabled: true\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var ve *apperrors.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "sync.endpoint", ve.Field)
			},
		},
		{
			name:     "enabled stream deck catalog requires an endpoint",
			contents: "catalog:\n  stream_deck:\n    enabled: true\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var ve *apperrors.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "catalog.stream_deck.endpoint", ve.Field)
			},
		},
		{
			name:     "stream deck page size bounds",
			contents: "catalog:\n  stream_deck:\n    page_size: 5000\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var ve *apperrors.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "catalog.stream_deck.page_size", ve.Field)
			},
		},
		{
			name:     "stream deck catalog is read from yaml",
			contents: "catalog:\n  stream_deck:\n    enabled: true\n    endpoint: https://icons.example.com/api/icons\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				assert.True(t, cfg.Catalog.StreamDeck.Enabled)
				assert.Equal(t, "https://icons.example.com/api/icons", cfg.Catalog.StreamDeck.Endpoint)
				assert.Equal(t, 100, cfg.Catalog.StreamDeck.PageSize)
			},
		},
		{
			name:     "collection id pattern",
			contents: "collections:\n  default_id: \"has space\"\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var ve *apperrors.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "collections.default_id", ve.Field)
			},
		},
		{
			name:     "export size bounds",
			contents: "export:\n  size: 4\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				assert.True(t, apperrors.IsValidation(err))
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := parse("config.yaml", []byte(tc.contents), noEnv)
			tc.assert(t, cfg, err)
		})
	}
}

func TestParseConfigReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "iconsmith.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: json\n  path: c.json\n"), 0o644))

	cfg, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "c.json", cfg.Storage.Path)

	_, err = ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, apperrors.IsParse(err))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := parse("config.yaml", []byte("storage:\n  driver: json\n  path: a.json\n"), envMap(map[string]string{
		EnvStorageDriver:     "postgres",
		EnvStorageDSN:        "host=db user=icons",
		EnvDefaultCollection: "main",
		EnvLogLevel:          "warn",
		EnvCatalogDir:        "/srv/glyphs",
		EnvHomarrEnabled:     "false",
		EnvStreamDeckURL:     "http://localhost:8080/api/icons",
		EnvSyncEndpoint:      "http://localhost:9000/collections",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "host=db user=icons", cfg.Storage.DSN)
	assert.Equal(t, "main", cfg.Collections.DefaultID)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/srv/glyphs", cfg.Catalog.LocalDir)
	assert.False(t, cfg.Catalog.Homarr.Enabled)
	assert.True(t, cfg.Catalog.StreamDeck.Enabled)
	assert.Equal(t, "http://localhost:8080/api/icons", cfg.Catalog.StreamDeck.Endpoint)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "http://localhost:9000/collections", cfg.Sync.Endpoint)
}

func TestEnvironmentOverrideRejectsBadBool(t *testing.T) {
	t.Parallel()

	_, err := parse("config.yaml", nil, envMap(map[string]string{EnvHomarrEnabled: "maybe"}))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetValidatorIsShared(t *testing.T) {
	t.Parallel()

	assert.Same(t, GetValidator(), GetValidator())
}

func TestSnakeCase(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"DefaultID":     "default_id",
		"CacheTTL":      "cache_ttl",
		"MetadataURL":   "metadata_url",
		"Storage":       "storage",
		"ThumbnailSize": "thumbnail_size",
	}
	for input, want := range cases {
		assert.Equal(t, want, snakeCase(input), input)
	}
}
