package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/iconsmith/internal/app/collections"
	"github.com/alexisbeaulieu97/iconsmith/internal/app/selection"
	"github.com/alexisbeaulieu97/iconsmith/internal/app/session"
	"github.com/alexisbeaulieu97/iconsmith/internal/config"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/catalog"
	"github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/export"
	"github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/raster"
	"github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/remotesync"
	"github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/store"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
)

// AppContext bundles long-lived services created at startup. Services are
// built on first use so that commands such as version or gradient never touch
// the store.
type AppContext struct {
	ConfigPath string
	Verbose    bool

	Config      *config.Config
	Logger      ports.Logger
	Store       ports.CollectionStore
	Repository  *collections.Repository
	Catalog     *catalog.Aggregate
	Renderer    *raster.Renderer
	Thumbnailer *raster.Thumbnailer
	Selection   *selection.Coordinator
	Syncer      *remotesync.Syncer

	buffer *logging.Buffer
	ready  bool
}

func newAppContext() *AppContext {
	buffer := logging.NewBuffer(0)
	return &AppContext{
		Logger: buffer.Logger(),
		buffer: buffer,
	}
}

// Init loads the configuration and wires every service. Entries logged before
// the configured logger exists are replayed into it.
func (a *AppContext) Init(ctx context.Context, logOutput io.Writer) error {
	if a.ready {
		return nil
	}

	a.Logger.Debug(ctx, "loading configuration", "config_path", a.ConfigPath)
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	level := cfg.Logging.Level
	if a.Verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{
		Writer:        logOutput,
		Level:         level,
		HumanReadable: cfg.Logging.HumanReadable,
		Layer:         "cli",
	})
	if err != nil {
		return err
	}
	a.buffer.Flush(logger)
	a.Logger = logger

	st, err := store.Open(ctx, store.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		DSN:    cfg.Storage.DSN,
	}, logger)
	if err != nil {
		return err
	}
	a.Store = st

	repo, err := collections.New(ctx, st, collections.Config{
		DefaultID:   cfg.Collections.DefaultID,
		DefaultName: cfg.Collections.DefaultName,
	}, logger, collections.WithArchiveBuilder(export.NewZipBuilder(logger)))
	if err != nil {
		_ = st.Close()
		return err
	}
	a.Repository = repo

	a.Catalog = catalog.NewAggregate(logger, providersFor(cfg.Catalog, logger)...)
	a.Renderer = raster.NewRenderer(cfg.Export.Size, &http.Client{Timeout: cfg.Catalog.Homarr.Timeout}, logger)
	a.Thumbnailer = raster.NewThumbnailer(cfg.Export.ThumbnailSize)

	coordinator, err := selection.New(ctx, repo, logger)
	if err != nil {
		_ = st.Close()
		return err
	}
	a.Selection = coordinator

	if cfg.Sync.Enabled {
		syncer, err := remotesync.Start(ctx, repo, remotesync.Options{
			Endpoint: cfg.Sync.Endpoint,
			Timeout:  cfg.Sync.Timeout,
		}, logger)
		if err != nil {
			a.Selection.Close()
			_ = st.Close()
			return err
		}
		a.Syncer = syncer
	}

	a.ready = true
	logger.Debug(ctx, "services ready", "driver", cfg.Storage.Driver, "sync", cfg.Sync.Enabled)
	return nil
}

func providersFor(cfg config.CatalogConfig, logger ports.Logger) []ports.CatalogProvider {
	var providers []ports.CatalogProvider
	if dir := strings.TrimSpace(cfg.LocalDir); dir != "" {
		providers = append(providers, catalog.NewLocalDir(dir, logger))
	}
	if cfg.Homarr.Enabled {
		providers = append(providers, catalog.NewHomarr(catalog.HomarrOptions{
			MetadataURL: cfg.Homarr.MetadataURL,
			ContentURL:  cfg.Homarr.ContentURL,
			Timeout:     cfg.Homarr.Timeout,
			Cache:       catalog.NewRequestCache(cfg.Homarr.CacheTTL, cfg.Homarr.CacheSize),
		}, logger))
	}
	if cfg.StreamDeck.Enabled {
		providers = append(providers, catalog.NewStreamDeck(catalog.StreamDeckOptions{
			Endpoint: cfg.StreamDeck.Endpoint,
			PageSize: cfg.StreamDeck.PageSize,
			Timeout:  cfg.StreamDeck.Timeout,
		}, logger))
	}
	return providers
}

// NewSession creates an editing session committing through the selection
// coordinator, so the committed collection becomes the active one.
func (a *AppContext) NewSession() *session.Session {
	return session.New(session.Dependencies{
		Fetcher:     a.Catalog,
		Rasterizer:  a.Renderer,
		Thumbnailer: a.Thumbnailer,
		Committer:   activeCommitter{coordinator: a.Selection},
		Logger:      a.Logger,
	})
}

// Close releases the services in reverse order of creation.
func (a *AppContext) Close() {
	if !a.ready {
		return
	}
	if a.Syncer != nil {
		a.Syncer.Stop()
	}
	a.Selection.Close()
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn(context.Background(), "closing store failed", "error", err)
	}
	a.ready = false
}

// CommandContext returns the command's context tagged with a fresh correlation
// id, and a logger scoped to the command.
func (a *AppContext) CommandContext(cmd *cobra.Command, name string) (context.Context, ports.Logger) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ports.WithCorrelationID(ctx, ports.GenerateCorrelationID())
	return ctx, a.Logger.With("command", name)
}

// services initializes the app for cmd and maps failures to a command error.
func (a *AppContext) services(cmd *cobra.Command, operation string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.Init(ctx, cmd.ErrOrStderr()); err != nil {
		return newCommandError(operation, "starting iconsmith", err, configSuggestion(a.ConfigPath))
	}
	return nil
}

func configSuggestion(path string) string {
	if path == "" {
		return "Pass --config <file> or set ICONSMITH_* environment variables to point at a valid storage location."
	}
	if _, err := os.Stat(path); err != nil {
		return "Check that the configuration file exists and is readable."
	}
	return "Fix the reported setting in " + path + " and try again."
}

type activeCommitter struct {
	coordinator *selection.Coordinator
}

func (c activeCommitter) AddIcon(ctx context.Context, collectionID string, u icon.UserIcon) (icon.UserIcon, error) {
	if _, err := c.coordinator.SelectCollection(ctx, collectionID); err != nil {
		return icon.UserIcon{}, err
	}
	return c.coordinator.AddIconToActiveCollection(ctx, u)
}
