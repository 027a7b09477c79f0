package config

import "time"

// Config is the iconsmith configuration document.
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Collections CollectionsConfig `yaml:"collections"`
	Logging     LoggingConfig     `yaml:"logging"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Sync        SyncConfig        `yaml:"sync"`
	Export      ExportConfig      `yaml:"export"`
}

// StorageConfig selects where collections are persisted.
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=sqlite postgres json"`
	Path   string `yaml:"path,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

// CollectionsConfig names the collection that always exists.
type CollectionsConfig struct {
	DefaultID   string `yaml:"default_id" validate:"required,collection_id"`
	DefaultName string `yaml:"default_name" validate:"required,min=1,max=100"`
}

// LoggingConfig controls log verbosity and format.
type LoggingConfig struct {
	Level         string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	HumanReadable bool   `yaml:"human_readable,omitempty"`
}

// CatalogConfig lists the glyph sources.
type CatalogConfig struct {
	LocalDir   string           `yaml:"local_dir,omitempty"`
	Homarr     HomarrConfig     `yaml:"homarr"`
	StreamDeck StreamDeckConfig `yaml:"stream_deck"`
}

// HomarrConfig configures the dashboard icon catalog.
type HomarrConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MetadataURL string        `yaml:"metadata_url,omitempty" validate:"omitempty,http_url"`
	ContentURL  string        `yaml:"content_url,omitempty" validate:"omitempty,http_url"`
	CacheTTL    time.Duration `yaml:"cache_ttl,omitempty" validate:"min=0"`
	CacheSize   int           `yaml:"cache_size,omitempty" validate:"min=1,max=10000"`
	Timeout     time.Duration `yaml:"timeout,omitempty" validate:"min=0"`
}

// StreamDeckConfig configures the icon service catalog.
type StreamDeckConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint,omitempty" validate:"omitempty,http_url"`
	PageSize int           `yaml:"page_size,omitempty" validate:"min=1,max=1000"`
	Timeout  time.Duration `yaml:"timeout,omitempty" validate:"min=0"`
}

// SyncConfig configures mirroring of collections to a remote endpoint.
type SyncConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint,omitempty" validate:"omitempty,http_url"`
	Timeout  time.Duration `yaml:"timeout,omitempty" validate:"min=0"`
}

// ExportConfig sets the pixel sizes of rendered icons.
type ExportConfig struct {
	Size          int `yaml:"size" validate:"min=16,max=1024"`
	ThumbnailSize int `yaml:"thumbnail_size" validate:"min=8,max=512"`
}
