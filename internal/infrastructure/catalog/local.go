package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	"github.com/alexisbeaulieu97/iconsmith/pkg/dataurl"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

var extensions = []struct {
	ext         string
	contentType string
}{
	{".svg", icon.ContentTypeSVG},
	{".png", icon.ContentTypePNG},
}

func contentTypeForExt(ext string) (string, bool) {
	for _, e := range extensions {
		if e.ext == ext {
			return e.contentType, true
		}
	}
	return "", false
}

// LocalDir serves the glyphs of a directory of .svg and .png files.
type LocalDir struct {
	dir    string
	logger ports.Logger
}

// NewLocalDir creates a provider over dir. The directory is read on every call.
func NewLocalDir(dir string, logger ports.Logger) *LocalDir {
	return &LocalDir{
		dir:    dir,
		logger: logger.With("layer", "infrastructure", "component", "catalog.local"),
	}
}

// Origin implements ports.CatalogProvider.
func (l *LocalDir) Origin() icon.Origin {
	return icon.OriginMDI
}

// FetchList returns every glyph in the directory, sorted by id.
func (l *LocalDir) FetchList(ctx context.Context) ([]icon.CatalogIcon, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, apperrors.NewConfigurationError("catalog.local_dir", fmt.Sprintf("read glyph directory %s: %v", l.dir, err))
	}

	list := make([]icon.CatalogIcon, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		contentType, ok := contentTypeForExt(ext)
		if !ok {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		list = append(list, icon.CatalogIcon{
			ID:          id,
			Label:       labelFromName(id),
			Keywords:    nameParts(id),
			Origin:      icon.OriginMDI,
			ContentType: contentType,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	l.logger.Debug(ctx, "listed local glyphs", "dir", l.dir, "count", len(list))
	return list, nil
}

// Search ranks the directory listing against term.
func (l *LocalDir) Search(ctx context.Context, term string) ([]icon.CatalogIcon, error) {
	list, err := l.FetchList(ctx)
	if err != nil {
		return nil, err
	}
	return rank(list, term), nil
}

// FetchContent reads the glyph file. Raster files are sniffed and returned
// with a data URL.
func (l *LocalDir) FetchContent(ctx context.Context, entry icon.CatalogIcon) (ports.Content, error) {
	if strings.ContainsAny(entry.ID, `/\`) || entry.ID == ".." {
		return ports.Content{}, apperrors.NewValidationError("id", fmt.Sprintf("invalid glyph id %q", entry.ID), nil)
	}

	for _, e := range extensions {
		contentType := e.contentType
		if entry.ContentType != "" && entry.ContentType != contentType {
			continue
		}
		path := filepath.Join(l.dir, entry.ID+e.ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return ports.Content{}, fmt.Errorf("read glyph %s: %w", path, err)
		}
		if contentType == icon.ContentTypeSVG {
			return ports.Content{Data: data, ContentType: contentType}, nil
		}
		return rasterContent(data)
	}
	return ports.Content{}, apperrors.NewNotFoundError("glyph", entry.ID)
}

func rasterContent(data []byte) (ports.Content, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(data) {
		return ports.Content{}, apperrors.NewValidationError("content", "glyph is not a recognized image", err)
	}
	return ports.Content{Data: data, ContentType: kind.MIME.Value, URL: dataurl.Encode(kind.MIME.Value, data)}, nil
}
