package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Public locations of the dashboard icon set.
const (
	DefaultHomarrMetadataURL = "https://raw.githubusercontent.com/homarr-labs/dashboard-icons/main"
	DefaultHomarrContentURL  = "https://cdn.jsdelivr.net/gh/homarr-labs/dashboard-icons"
)

type homarrEntry struct {
	Base       string   `json:"base"`
	Aliases    []string `json:"aliases"`
	Categories []string `json:"categories"`
}

// HomarrOptions configures the dashboard icon provider.
type HomarrOptions struct {
	MetadataURL string
	ContentURL  string
	Timeout     time.Duration
	Client      *http.Client
	Cache       *RequestCache
}

// Homarr lists dashboard icons from a metadata.json index and downloads
// their content from a CDN.
type Homarr struct {
	metadataURL string
	contentURL  string
	client      *http.Client
	cache       *RequestCache
	logger      ports.Logger
}

// NewHomarr creates the provider, filling unset options with the defaults.
func NewHomarr(opts HomarrOptions, logger ports.Logger) *Homarr {
	if opts.MetadataURL == "" {
		opts.MetadataURL = DefaultHomarrMetadataURL
	}
	if opts.ContentURL == "" {
		opts.ContentURL = DefaultHomarrContentURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Cache == nil {
		opts.Cache = NewRequestCache(DefaultCacheTTL, DefaultCacheSize)
	}
	return &Homarr{
		metadataURL: strings.TrimRight(opts.MetadataURL, "/"),
		contentURL:  strings.TrimRight(opts.ContentURL, "/"),
		client:      opts.Client,
		cache:       opts.Cache,
		logger:      logger.With("layer", "infrastructure", "component", "catalog.homarr"),
	}
}

// Origin implements ports.CatalogProvider.
func (h *Homarr) Origin() icon.Origin {
	return icon.OriginHomarr
}

func (h *Homarr) metadata(ctx context.Context) (map[string]homarrEntry, error) {
	url := h.metadataURL + "/metadata.json"
	data, err := h.cache.Fetch(ctx, url, func(ctx context.Context) ([]byte, error) {
		h.logger.Debug(ctx, "fetching icon metadata", "url", url)
		body, _, err := httpGet(ctx, h.client, url)
		return body, err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch homarr metadata: %w", err)
	}

	var index map[string]homarrEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, apperrors.NewParseError(url, 0, err)
	}
	return index, nil
}

func toCatalogIcon(name string, entry homarrEntry) icon.CatalogIcon {
	keywords := make([]string, 0, len(entry.Aliases)+len(entry.Categories))
	keywords = append(keywords, entry.Aliases...)
	keywords = append(keywords, entry.Categories...)
	return icon.CatalogIcon{
		ID:          name,
		Label:       labelFromName(name),
		Keywords:    keywords,
		Origin:      icon.OriginHomarr,
		ContentType: contentTypeForBase(entry.Base),
	}
}

func contentTypeForBase(base string) string {
	if base == "svg" {
		return icon.ContentTypeSVG
	}
	return icon.ContentTypePNG
}

// FetchList returns every icon in the index, sorted by name.
func (h *Homarr) FetchList(ctx context.Context) ([]icon.CatalogIcon, error) {
	index, err := h.metadata(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]icon.CatalogIcon, 0, len(names))
	for _, name := range names {
		list = append(list, toCatalogIcon(name, index[name]))
	}
	return list, nil
}

// Search matches term against icon names and aliases. Categories are listed
// as keywords but not searched.
func (h *Homarr) Search(ctx context.Context, term string) ([]icon.CatalogIcon, error) {
	index, err := h.metadata(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]icon.CatalogIcon, 0, len(index))
	for name, entry := range index {
		candidate := toCatalogIcon(name, entry)
		candidate.Keywords = entry.Aliases
		candidates = append(candidates, candidate)
	}
	ranked := rank(candidates, term)
	if strings.TrimSpace(term) == "" {
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].ID < ranked[j].ID })
	}

	for i := range ranked {
		ranked[i] = toCatalogIcon(ranked[i].ID, index[ranked[i].ID])
	}
	return ranked, nil
}

// FetchContent downloads the icon from <content_url>/<base>/<name>.<base>.
func (h *Homarr) FetchContent(ctx context.Context, entry icon.CatalogIcon) (ports.Content, error) {
	index, err := h.metadata(ctx)
	if err != nil {
		return ports.Content{}, err
	}
	meta, ok := index[entry.ID]
	if !ok {
		return ports.Content{}, apperrors.NewNotFoundError("homarr icon", entry.ID)
	}

	url := fmt.Sprintf("%s/%s/%s.%s", h.contentURL, meta.Base, entry.ID, meta.Base)
	data, _, err := httpGet(ctx, h.client, url)
	if err != nil {
		return ports.Content{}, fmt.Errorf("fetch homarr icon %s: %w", entry.ID, err)
	}
	return ports.Content{Data: data, ContentType: contentTypeForBase(meta.Base), URL: url}, nil
}
