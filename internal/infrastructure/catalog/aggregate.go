// Package catalog provides the glyph catalogs icons are picked from.
package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Aggregate fans list and search requests out to several providers and routes
// content requests to the provider owning the glyph's origin.
type Aggregate struct {
	providers []ports.CatalogProvider
	logger    ports.Logger
}

// NewAggregate combines providers. Results keep the order providers are given in.
func NewAggregate(logger ports.Logger, providers ...ports.CatalogProvider) *Aggregate {
	return &Aggregate{
		providers: providers,
		logger:    logger.With("layer", "infrastructure", "component", "catalog"),
	}
}

// FetchList lists every provider concurrently. Any failure fails the call.
func (a *Aggregate) FetchList(ctx context.Context) ([]icon.CatalogIcon, error) {
	return a.collect(ctx, func(ctx context.Context, p ports.CatalogProvider) ([]icon.CatalogIcon, error) {
		return p.FetchList(ctx)
	})
}

// Search queries every provider concurrently.
func (a *Aggregate) Search(ctx context.Context, term string) ([]icon.CatalogIcon, error) {
	return a.collect(ctx, func(ctx context.Context, p ports.CatalogProvider) ([]icon.CatalogIcon, error) {
		return p.Search(ctx, term)
	})
}

func (a *Aggregate) collect(ctx context.Context, call func(context.Context, ports.CatalogProvider) ([]icon.CatalogIcon, error)) ([]icon.CatalogIcon, error) {
	results := make([][]icon.CatalogIcon, len(a.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range a.providers {
		i, p := i, p
		g.Go(func() error {
			list, err := call(gctx, p)
			if err != nil {
				a.logger.Warn(gctx, "catalog provider failed", "origin", p.Origin(), "error", err)
				return fmt.Errorf("catalog %s: %w", p.Origin(), err)
			}
			results[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []icon.CatalogIcon
	for _, list := range results {
		out = append(out, list...)
	}
	return out, nil
}

// FetchContent implements ports.ContentFetcher.
func (a *Aggregate) FetchContent(ctx context.Context, entry icon.CatalogIcon) (ports.Content, error) {
	for _, p := range a.providers {
		if p.Origin() == entry.Origin {
			return p.FetchContent(ctx, entry)
		}
	}
	return ports.Content{}, apperrors.NewNotFoundError("catalog provider", string(entry.Origin))
}
