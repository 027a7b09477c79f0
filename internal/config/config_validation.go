package config

import (
	"strings"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// ValidateConfig performs structural and cross-field validation on an entire configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return apperrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	switch cfg.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return apperrors.NewValidationError("storage.dsn", "dsn is required for the postgres driver", nil)
		}
	default:
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			return apperrors.NewValidationError("storage.path", "path is required for the "+cfg.Storage.Driver+" driver", nil)
		}
	}

	if cfg.Catalog.StreamDeck.Enabled && strings.TrimSpace(cfg.Catalog.StreamDeck.Endpoint) == "" {
		return apperrors.NewValidationError("catalog.stream_deck.endpoint", "endpoint is required when the stream deck catalog is enabled", nil)
	}

	if cfg.Sync.Enabled && strings.TrimSpace(cfg.Sync.Endpoint) == "" {
		return apperrors.NewValidationError("sync.endpoint", "endpoint is required when sync is enabled", nil)
	}

	return nil
}
