package export

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logginginfra "github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	"github.com/alexisbeaulieu97/iconsmith/pkg/dataurl"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(body)
	}
	return out
}

func TestBuildArchiveLaysOutFolderAndDeduplicates(t *testing.T) {
	t.Parallel()

	builder := NewZipBuilder(logginginfra.NewNoOpLogger())
	data, err := builder.BuildArchive(context.Background(), "Home Lab", []ports.ArchiveFile{
		{Name: "Plex", DataURL: dataurl.Encode("image/png", []byte("one"))},
		{Name: "plex", DataURL: dataurl.Encode("image/png", []byte("two"))},
		{Name: "Plex", DataURL: dataurl.Encode("image/png", []byte("three"))},
		{Name: "a/b", DataURL: dataurl.Encode("image/png", []byte("four"))},
		{Name: "empty"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Home Lab/":             "",
		"Home Lab/Plex.png":     "one",
		"Home Lab/plex (2).png": "two",
		"Home Lab/Plex (3).png": "three",
		"Home Lab/a_b.png":      "four",
	}, readArchive(t, data))
}

func TestBuildArchiveRejectsBadPayload(t *testing.T) {
	t.Parallel()

	_, err := NewZipBuilder(logginginfra.NewNoOpLogger()).BuildArchive(context.Background(), "x", []ports.ArchiveFile{
		{Name: "bad", DataURL: "data:image/png;base64,***"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBuildArchiveDefaultsFolderName(t *testing.T) {
	t.Parallel()

	data, err := NewZipBuilder(logginginfra.NewNoOpLogger()).BuildArchive(context.Background(), " .. ", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"icons/": ""}, readArchive(t, data))
}
