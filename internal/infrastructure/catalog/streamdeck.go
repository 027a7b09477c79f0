package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	"github.com/alexisbeaulieu97/iconsmith/pkg/dataurl"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
	"github.com/alexisbeaulieu97/iconsmith/pkg/uuid"
)

// DefaultStreamDeckPageSize is the number of icons requested by FetchList.
const DefaultStreamDeckPageSize = 100

type streamDeckEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// StreamDeckOptions configures the icon service provider.
type StreamDeckOptions struct {
	// Endpoint is the icons resource, e.g. https://host/api/icons.
	Endpoint string
	PageSize int
	Timeout  time.Duration
	Client   *http.Client
	Cache    *RequestCache
}

// StreamDeck serves glyphs from an icon service exposing
// GET <endpoint>?page=&pageSize=, GET <endpoint>/search?searchTerm= and
// GET <endpoint>/<id>.
type StreamDeck struct {
	endpoint string
	pageSize int
	client   *http.Client
	cache    *RequestCache
	logger   ports.Logger
}

// NewStreamDeck creates the provider, filling unset options with the defaults.
func NewStreamDeck(opts StreamDeckOptions, logger ports.Logger) *StreamDeck {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultStreamDeckPageSize
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Cache == nil {
		opts.Cache = NewRequestCache(DefaultCacheTTL, DefaultCacheSize)
	}
	return &StreamDeck{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		pageSize: opts.PageSize,
		client:   opts.Client,
		cache:    opts.Cache,
		logger:   logger.With("layer", "infrastructure", "component", "catalog.streamdeck"),
	}
}

// Origin implements ports.CatalogProvider.
func (s *StreamDeck) Origin() icon.Origin {
	return icon.OriginStreamDeck
}

// FetchList returns the first page of icons in service order.
func (s *StreamDeck) FetchList(ctx context.Context) ([]icon.CatalogIcon, error) {
	return s.query(ctx, fmt.Sprintf("%s?page=1&pageSize=%d", s.endpoint, s.pageSize))
}

// Search delegates matching to the service and keeps its ordering. A blank
// term lists the first page.
func (s *StreamDeck) Search(ctx context.Context, term string) ([]icon.CatalogIcon, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.FetchList(ctx)
	}
	return s.query(ctx, s.endpoint+"/search?searchTerm="+url.QueryEscape(term))
}

func (s *StreamDeck) query(ctx context.Context, target string) ([]icon.CatalogIcon, error) {
	data, err := s.cache.Fetch(ctx, target, func(ctx context.Context) ([]byte, error) {
		s.logger.Debug(ctx, "querying icon service", "url", target)
		body, _, err := httpGet(ctx, s.client, target)
		return body, err
	})
	if err != nil {
		return nil, fmt.Errorf("query streamdeck icons: %w", err)
	}

	var entries []streamDeckEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.NewParseError(target, 0, err)
	}

	list := make([]icon.CatalogIcon, 0, len(entries))
	for _, entry := range entries {
		list = append(list, icon.CatalogIcon{
			ID:          entry.ID,
			Label:       entry.Label,
			Keywords:    strings.Fields(entry.Label),
			Origin:      icon.OriginStreamDeck,
			ContentType: icon.ContentTypeSVG,
		})
	}
	return list, nil
}

// FetchContent downloads <endpoint>/<id>. The response Content-Type decides
// whether the glyph is markup or a raster image.
func (s *StreamDeck) FetchContent(ctx context.Context, entry icon.CatalogIcon) (ports.Content, error) {
	if uuid.IsEmpty(entry.ID) {
		return ports.Content{}, apperrors.NewValidationError("id", "icon id must not be empty", nil)
	}

	target := s.endpoint + "/" + url.PathEscape(entry.ID)
	data, header, err := httpGet(ctx, s.client, target)
	if err != nil {
		return ports.Content{}, fmt.Errorf("fetch streamdeck icon %s: %w", entry.ID, err)
	}

	contentType, _, _ := strings.Cut(header, ";")
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" {
		return ports.Content{}, apperrors.NewValidationError("content_type", fmt.Sprintf("icon %s was served without a content type", entry.ID), nil)
	}
	if icon.IsVector(contentType) {
		return ports.Content{Data: data, ContentType: contentType, URL: target}, nil
	}
	return ports.Content{Data: data, ContentType: contentType, URL: dataurl.Encode(contentType, data)}, nil
}
