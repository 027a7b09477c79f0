// Package session holds the icon currently being customized.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/vector"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// IconCommitter persists a committed icon. The collection repository satisfies it.
type IconCommitter interface {
	AddIcon(ctx context.Context, collectionID string, u icon.UserIcon) (icon.UserIcon, error)
}

// Dependencies are the collaborators a Session works with. Rasterizer and
// Thumbnailer are optional; without them icons are committed with no raster
// payload.
type Dependencies struct {
	Fetcher     ports.ContentFetcher
	Rasterizer  ports.Rasterizer
	Thumbnailer ports.Thumbnailer
	Committer   IconCommitter
	Logger      ports.Logger
}

// Session owns the single CustomizableIcon being edited. All methods are safe
// for concurrent use. Every selection bumps a generation counter so that a
// content fetch finishing after a newer selection is discarded.
type Session struct {
	mu         sync.Mutex
	current    *icon.CustomizableIcon
	generation uint64

	fetcher     ports.ContentFetcher
	rasterizer  ports.Rasterizer
	thumbnailer ports.Thumbnailer
	committer   IconCommitter
	logger      ports.Logger
}

// New creates an empty session.
func New(deps Dependencies) *Session {
	return &Session{
		fetcher:     deps.Fetcher,
		rasterizer:  deps.Rasterizer,
		thumbnailer: deps.Thumbnailer,
		committer:   deps.Committer,
		logger:      deps.Logger.With("layer", "application", "component", "session"),
	}
}

// SelectFromCatalog shows a stub for entry immediately, then fetches its
// content in the background. The returned channel yields exactly one value,
// nil on success or when a newer selection superseded this one, and is then
// closed. On failure the stub stays selected.
func (s *Session) SelectFromCatalog(ctx context.Context, entry icon.CatalogIcon) <-chan error {
	stub := icon.FromCatalog(entry)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.current = &stub
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.loadContent(ctx, gen, entry)
	}()
	return done
}

func (s *Session) loadContent(ctx context.Context, gen uint64, entry icon.CatalogIcon) error {
	if s.fetcher == nil {
		return apperrors.NewConfigurationError("catalog", "no content fetcher configured")
	}

	content, err := s.fetcher.FetchContent(ctx, entry)
	if err != nil {
		s.logger.Warn(ctx, "glyph fetch failed", "icon_id", entry.ID, "origin", entry.Origin, "error", err)
		return fmt.Errorf("fetch content for %s: %w", entry.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen || s.current == nil {
		s.logger.Debug(ctx, "discarding superseded glyph content", "icon_id", entry.ID)
		return nil
	}

	contentType := content.ContentType
	if contentType == "" {
		contentType = entry.ContentType
	}

	if icon.IsVector(contentType) {
		prepared, err := vector.Prepare(string(content.Data), s.current.Origin, s.current.Styles.GlyphColor)
		if err != nil {
			s.logger.Warn(ctx, "glyph markup rejected", "icon_id", entry.ID, "error", err)
			return err
		}
		s.current.ContentType = contentType
		s.current.SVGContent = prepared
		s.current.ImageURL = ""
		return nil
	}

	url := content.URL
	if url == "" {
		url = entry.URL
	}
	s.current.ContentType = contentType
	s.current.ImageURL = url
	s.current.SVGContent = ""
	return nil
}

// SelectFromPersisted rehydrates the session from a stored icon without any fetch.
func (s *Session) SelectFromPersisted(u icon.UserIcon) error {
	ci, err := icon.FromUserIcon(u)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current = &ci
	return nil
}

// Clear drops the current icon.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current = nil
}

// Reset replaces the current icon with an empty one carrying default styles.
func (s *Session) Reset() {
	empty := icon.MkEmpty()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current = &empty
}

// Current returns a copy of the icon being edited.
func (s *Session) Current() (icon.CustomizableIcon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return icon.CustomizableIcon{}, false
	}
	return s.current.Clone(), true
}

// UpsertStyles merges every non-nil field of patch into the current styles.
func (s *Session) UpsertStyles(patch icon.StylePatch) error {
	return s.update(func(ci *icon.CustomizableIcon) error {
		ci.Styles = patch.Apply(ci.Styles)
		return nil
	})
}

// SetGlyphColor changes the glyph color and re-applies it to the vector
// content. If the markup cannot be processed the color is still recorded and
// the content is left as it was.
func (s *Session) SetGlyphColor(color string) error {
	return s.update(func(ci *icon.CustomizableIcon) error {
		ci.Styles.GlyphColor = color
		if ci.SVGContent == "" {
			return nil
		}
		recolored, err := vector.Prepare(ci.SVGContent, ci.Origin, color)
		if err != nil {
			return err
		}
		ci.SVGContent = recolored
		return nil
	})
}

// Commit renders the current icon and adds it to collectionID. On failure the
// in-memory icon is left untouched; on success it records the stored ids.
func (s *Session) Commit(ctx context.Context, collectionID string) (icon.UserIcon, error) {
	if s.committer == nil {
		return icon.UserIcon{}, apperrors.NewConfigurationError("repository", "no icon committer configured")
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return icon.UserIcon{}, errNoIcon()
	}
	snapshot := s.current.Clone()
	gen := s.generation
	s.mu.Unlock()

	var pngData, thumbnail string
	if s.rasterizer != nil {
		rendered, err := s.rasterizer.Rasterize(ctx, snapshot)
		if err != nil {
			return icon.UserIcon{}, fmt.Errorf("rasterize icon: %w", err)
		}
		pngData = rendered
	}
	if s.thumbnailer != nil && pngData != "" {
		thumb, err := s.thumbnailer.Thumbnail(ctx, pngData)
		if err != nil {
			return icon.UserIcon{}, fmt.Errorf("create thumbnail: %w", err)
		}
		thumbnail = thumb
	}

	record, err := icon.ToUserIcon(snapshot, thumbnail, pngData)
	if err != nil {
		return icon.UserIcon{}, err
	}
	if snapshot.UserIconCollectionID != collectionID {
		// A copy into another collection gets its own identity.
		record.ID = ""
	}

	stored, err := s.committer.AddIcon(ctx, collectionID, record)
	if err != nil {
		s.logger.Warn(ctx, "commit failed", "collection_id", collectionID, "error", err)
		return icon.UserIcon{}, err
	}

	s.mu.Lock()
	if s.generation == gen && s.current != nil {
		s.current.UserIconID = stored.ID
		s.current.UserIconCollectionID = collectionID
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "committed icon", "collection_id", collectionID, "icon_id", stored.ID)
	return stored, nil
}

func (s *Session) update(apply func(*icon.CustomizableIcon) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return errNoIcon()
	}
	return apply(s.current)
}

func errNoIcon() error {
	return apperrors.NewConfigurationError("icon", "no icon is selected")
}
