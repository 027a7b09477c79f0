package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	logginginfra "github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/iconsmith/pkg/dataurl"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
	"github.com/alexisbeaulieu97/iconsmith/pkg/uuid"
)

func newStreamDeckServer(t *testing.T, listHits *int32) *httptest.Server {
	t.Helper()
	raster := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/icons", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(listHits, 1)
		if r.URL.Query().Get("page") != "1" || r.URL.Query().Get("pageSize") != "25" {
			http.Error(w, "bad paging", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"light-on","label":"Light On"},{"id":"mic-off","label":"Mic Off"}]`))
	})
	mux.HandleFunc("/api/icons/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("searchTerm") != "mic off" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"mic-off","label":"Mic Off"}]`))
	})
	mux.HandleFunc("/api/icons/mic-off", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
		_, _ = w.Write([]byte(`<svg id="mic-off"/>`))
	})
	mux.HandleFunc("/api/icons/light-on", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(raster)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newStreamDeck(server *httptest.Server) *StreamDeck {
	return NewStreamDeck(StreamDeckOptions{
		Endpoint: server.URL + "/api/icons/",
		PageSize: 25,
		Client:   server.Client(),
	}, logginginfra.NewNoOpLogger())
}

func TestStreamDeckFetchListPagesAndCaches(t *testing.T) {
	t.Parallel()

	var hits int32
	provider := newStreamDeck(newStreamDeckServer(t, &hits))
	ctx := context.Background()

	list, err := provider.FetchList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"light-on", "mic-off"}, ids(list))
	assert.Equal(t, "Light On", list[0].Label)
	assert.Equal(t, []string{"Light", "On"}, list[0].Keywords)
	assert.Equal(t, icon.OriginStreamDeck, list[0].Origin)

	_, err = provider.FetchList(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestStreamDeckSearchDelegatesToService(t *testing.T) {
	t.Parallel()

	var hits int32
	provider := newStreamDeck(newStreamDeckServer(t, &hits))
	ctx := context.Background()

	found, err := provider.Search(ctx, " mic off ")
	require.NoError(t, err)
	assert.Equal(t, []string{"mic-off"}, ids(found))

	found, err = provider.Search(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, found)

	all, err := provider.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStreamDeckFetchContentUsesResponseContentType(t *testing.T) {
	t.Parallel()

	var hits int32
	server := newStreamDeckServer(t, &hits)
	provider := newStreamDeck(server)
	ctx := context.Background()

	svg, err := provider.FetchContent(ctx, icon.CatalogIcon{ID: "mic-off", Origin: icon.OriginStreamDeck})
	require.NoError(t, err)
	assert.Equal(t, icon.ContentTypeSVG, svg.ContentType)
	assert.Equal(t, `<svg id="mic-off"/>`, string(svg.Data))

	raster, err := provider.FetchContent(ctx, icon.CatalogIcon{ID: "light-on", Origin: icon.OriginStreamDeck})
	require.NoError(t, err)
	assert.Equal(t, icon.ContentTypePNG, raster.ContentType)
	assert.True(t, dataurl.IsDataURL(raster.URL))

	for _, id := range []string{"", uuid.Empty} {
		_, err = provider.FetchContent(ctx, icon.CatalogIcon{ID: id})
		assert.True(t, apperrors.IsValidation(err))
	}

	_, err = provider.FetchContent(ctx, icon.CatalogIcon{ID: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestStreamDeckRejectsMalformedListing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	}))
	t.Cleanup(server.Close)

	provider := NewStreamDeck(StreamDeckOptions{Endpoint: server.URL, Client: server.Client()}, logginginfra.NewNoOpLogger())
	_, err := provider.FetchList(context.Background())
	assert.True(t, apperrors.IsParse(err))
}

func TestAggregateRoutesStreamDeckContent(t *testing.T) {
	t.Parallel()

	var hits int32
	agg := NewAggregate(logginginfra.NewNoOpLogger(), newStreamDeck(newStreamDeckServer(t, &hits)))

	content, err := agg.FetchContent(context.Background(), icon.CatalogIcon{ID: "mic-off", Origin: icon.OriginStreamDeck})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content.Data), "<svg"))
}
