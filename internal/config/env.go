package config

import (
	"fmt"
	"strconv"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Environment variables that override file settings.
const (
	EnvStorageDriver     = "ICONSMITH_STORAGE_DRIVER"
	EnvStoragePath       = "ICONSMITH_STORAGE_PATH"
	EnvStorageDSN        = "ICONSMITH_STORAGE_DSN"
	EnvDefaultCollection = "ICONSMITH_DEFAULT_COLLECTION_ID"
	EnvLogLevel          = "ICONSMITH_LOG_LEVEL"
	EnvCatalogDir        = "ICONSMITH_CATALOG_DIR"
	EnvHomarrEnabled     = "ICONSMITH_HOMARR_ENABLED"
	EnvStreamDeckURL     = "ICONSMITH_STREAMDECK_ENDPOINT"
	EnvSyncEndpoint      = "ICONSMITH_SYNC_ENDPOINT"
)

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	overrides := []struct {
		name   string
		target *string
	}{
		{EnvStorageDriver, &cfg.Storage.Driver},
		{EnvStoragePath, &cfg.Storage.Path},
		{EnvStorageDSN, &cfg.Storage.DSN},
		{EnvDefaultCollection, &cfg.Collections.DefaultID},
		{EnvLogLevel, &cfg.Logging.Level},
		{EnvCatalogDir, &cfg.Catalog.LocalDir},
	}
	for _, s := range overrides {
		if v, ok := lookup(s.name); ok {
			*s.target = v
		}
	}

	if v, ok := lookup(EnvHomarrEnabled); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return apperrors.NewValidationError(EnvHomarrEnabled, fmt.Sprintf("expected a boolean, got %q", v), err)
		}
		cfg.Catalog.Homarr.Enabled = enabled
	}

	// Setting an endpoint implies the feature is wanted.
	if v, ok := lookup(EnvStreamDeckURL); ok && v != "" {
		cfg.Catalog.StreamDeck.Endpoint = v
		cfg.Catalog.StreamDeck.Enabled = true
	}
	if v, ok := lookup(EnvSyncEndpoint); ok && v != "" {
		cfg.Sync.Endpoint = v
		cfg.Sync.Enabled = true
	}
	return nil
}
