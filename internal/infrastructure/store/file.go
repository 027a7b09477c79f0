package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

const fileFormatVersion = "1.0"

type collectionsFile struct {
	Version     string           `json:"version"`
	Collections []storedDocument `json:"collections"`
}

type storedDocument struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Icons json.RawMessage `json:"icons"`
}

// FileStore keeps every collection in a single JSON document on disk. Each
// mutation rewrites the file atomically through a temporary file and rename.
type FileStore struct {
	path        string
	logger      ports.Logger
	mu          sync.RWMutex
	collections []icon.Collection
}

// OpenFile loads the document at path, creating its directory when needed. A
// missing file starts an empty store. Legacy gradient records are rewritten
// immediately.
func OpenFile(ctx context.Context, path string, logger ports.Logger) (*FileStore, error) {
	s := &FileStore{path: path, logger: logger, collections: []icon.Collection{}}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.NewStorageError("create store directory", err)
	}

	migrated, err := s.load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return s, nil
	}

	if migrated > 0 {
		s.mu.Lock()
		err := s.save()
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "migrated legacy gradient records", "collections", migrated, "path", path)
	}
	return s, nil
}

func (s *FileStore) load() (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, err
	}

	var file collectionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return 0, apperrors.NewParseError(s.path, 0, err)
	}

	collections := make([]icon.Collection, 0, len(file.Collections))
	migrated := 0
	for _, doc := range file.Collections {
		icons, legacy, err := decodeIcons(doc.Icons)
		if err != nil {
			return 0, apperrors.NewParseError(s.path, 0, fmt.Errorf("collection %s: %w", doc.ID, err))
		}
		if legacy {
			migrated++
		}
		collections = append(collections, icon.Collection{ID: doc.ID, Name: doc.Name, Icons: icons})
	}

	s.mu.Lock()
	s.collections = collections
	s.mu.Unlock()
	return migrated, nil
}

// save writes the document; callers hold the write lock.
func (s *FileStore) save() error {
	file := collectionsFile{
		Version:     fileFormatVersion,
		Collections: make([]storedDocument, 0, len(s.collections)),
	}
	for _, c := range s.collections {
		icons, err := encodeIcons(c.Icons)
		if err != nil {
			return apperrors.NewStorageError("save collections", err)
		}
		file.Collections = append(file.Collections, storedDocument{ID: c.ID, Name: c.Name, Icons: json.RawMessage(icons)})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("save collections", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return apperrors.NewStorageError("write temporary file", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewStorageError("rename temporary file", err)
	}
	return nil
}

func (s *FileStore) indexOf(id string) int {
	for i, c := range s.collections {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// List returns copies of every collection in insertion order.
func (s *FileStore) List(ctx context.Context) ([]icon.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return icon.CloneCollections(s.collections), nil
}

// Get returns a copy of one collection.
func (s *FileStore) Get(ctx context.Context, id string) (icon.Collection, error) {
	if err := ctx.Err(); err != nil {
		return icon.Collection{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.collections[i].Clone(), nil
	}
	return icon.Collection{}, apperrors.NewNotFoundError(collectionKind, id)
}

// Insert appends a new collection.
func (s *FileStore) Insert(ctx context.Context, c icon.Collection) error {
	return s.mutate(ctx, func() error {
		if s.indexOf(c.ID) >= 0 {
			return apperrors.NewAlreadyExistsError(collectionKind, c.ID)
		}
		s.collections = append(s.collections, c.Clone())
		return nil
	})
}

// Put replaces an existing collection.
func (s *FileStore) Put(ctx context.Context, c icon.Collection) error {
	return s.mutate(ctx, func() error {
		i := s.indexOf(c.ID)
		if i < 0 {
			return apperrors.NewNotFoundError(collectionKind, c.ID)
		}
		s.collections[i] = c.Clone()
		return nil
	})
}

// Delete removes a collection.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func() error {
		i := s.indexOf(id)
		if i < 0 {
			return apperrors.NewNotFoundError(collectionKind, id)
		}
		s.collections = append(s.collections[:i:i], s.collections[i+1:]...)
		return nil
	})
}

// Count returns the number of stored collections.
func (s *FileStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.collections)), nil
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error {
	return nil
}

// mutate applies change and persists the result, restoring the previous state
// when the write fails.
func (s *FileStore) mutate(ctx context.Context, change func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.collections
	s.collections = icon.CloneCollections(previous)
	if err := change(); err != nil {
		s.collections = previous
		return err
	}
	if err := s.save(); err != nil {
		s.collections = previous
		return err
	}
	return nil
}

var _ ports.CollectionStore = (*FileStore)(nil)
