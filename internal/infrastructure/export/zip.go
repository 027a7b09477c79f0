// Package export packages rendered icons for download.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	"github.com/alexisbeaulieu97/iconsmith/pkg/dataurl"
)

// ZipBuilder writes icons into a zip archive under a folder named after the
// collection. Files are named <label>.png; repeated labels get " (2)", " (3)"...
type ZipBuilder struct {
	logger ports.Logger
}

// NewZipBuilder creates an archive builder.
func NewZipBuilder(logger ports.Logger) *ZipBuilder {
	return &ZipBuilder{logger: logger.With("layer", "infrastructure", "component", "export")}
}

// BuildArchive implements ports.ArchiveBuilder. Files without a payload are skipped.
func (b *ZipBuilder) BuildArchive(ctx context.Context, name string, files []ports.ArchiveFile) ([]byte, error) {
	folder := sanitize(name)
	if folder == "" {
		folder = "icons"
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create(folder + "/"); err != nil {
		return nil, fmt.Errorf("create folder entry: %w", err)
	}

	used := make(map[string]int)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(f.DataURL) == "" {
			b.logger.Debug(ctx, "skipping archive entry without data", "name", f.Name)
			continue
		}
		_, data, err := dataurl.Decode(f.DataURL)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Name, err)
		}

		entry := folder + "/" + uniqueName(used, f.Name) + ".png"
		w, err := zw.Create(entry)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", entry, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write %s: %w", entry, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func uniqueName(used map[string]int, label string) string {
	base := sanitize(label)
	if base == "" {
		base = "icon"
	}
	key := strings.ToLower(base)
	used[key]++
	if n := used[key]; n > 1 {
		return fmt.Sprintf("%s (%d)", base, n)
	}
	return base
}

// sanitize drops path separators and control characters from a file name.
func sanitize(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r < 0x20:
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(name))
	return strings.Trim(cleaned, ". ")
}
