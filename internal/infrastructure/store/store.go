// Package store provides the collection stores: gorm-backed sqlite or postgres,
// and a single JSON document on disk.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSON     = "json"
)

// Options selects and locates a store.
type Options struct {
	Driver string
	// Path is the database or JSON file for the embedded drivers.
	Path string
	// DSN is the connection string for postgres.
	DSN string
}

// Open creates the store described by opts.
func Open(ctx context.Context, opts Options, logger ports.Logger) (ports.CollectionStore, error) {
	logger = logger.With("component", "store", "driver", opts.Driver)

	switch strings.ToLower(opts.Driver) {
	case DriverSQLite, "":
		if strings.TrimSpace(opts.Path) == "" {
			return nil, apperrors.NewConfigurationError("storage.path", "sqlite driver requires a database path")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, apperrors.NewStorageError("create database directory", err)
		}
		logger.Debug(ctx, "opening sqlite store", "path", opts.Path)
		s, err := OpenSQL(ctx, sqlite.Open(opts.Path), logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, apperrors.NewConfigurationError("storage.dsn", "postgres driver requires a DSN")
		}
		logger.Debug(ctx, "opening postgres store")
		s, err := OpenSQL(ctx, postgres.Open(opts.DSN), logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverJSON:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, apperrors.NewConfigurationError("storage.path", "json driver requires a file path")
		}
		logger.Debug(ctx, "opening json store", "path", opts.Path)
		s, err := OpenFile(ctx, opts.Path, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, apperrors.NewConfigurationError("storage.driver", fmt.Sprintf("unsupported driver %q", opts.Driver))
	}
}
