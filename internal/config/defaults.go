package config

import "time"

// Defaults returns the configuration used when no file is given. Values read
// from a file are layered on top of it.
func Defaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "iconsmith.db",
		},
		Collections: CollectionsConfig{
			DefaultID:   "default",
			DefaultName: "Default",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Catalog: CatalogConfig{
			Homarr: HomarrConfig{
				Enabled:     true,
				MetadataURL: "https://raw.githubusercontent.com/homarr-labs/dashboard-icons/main",
				ContentURL:  "https://cdn.jsdelivr.net/gh/homarr-labs/dashboard-icons",
				CacheTTL:    5 * time.Minute,
				CacheSize:   100,
				Timeout:     10 * time.Second,
			},
			StreamDeck: StreamDeckConfig{
				PageSize: 100,
				Timeout:  10 * time.Second,
			},
		},
		Sync: SyncConfig{
			Timeout: 10 * time.Second,
		},
		Export: ExportConfig{
			Size:          144,
			ThumbnailSize: 64,
		},
	}
}
