package ports

import (
	"context"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
)

// CollectionStore is the embedded object store behind the collection
// repository, keyed by collection id. Implementations must be safe for
// concurrent use; they do not serialize conflicting writes. Error mapping:
//   - Missing records → NotFoundError (Get, Put, Delete)
//   - Duplicate keys on Insert → AlreadyExistsError
//   - Driver or I/O failures → StorageError with wrapped cause
type CollectionStore interface {
	List(ctx context.Context) ([]icon.Collection, error)
	Get(ctx context.Context, id string) (icon.Collection, error)
	Insert(ctx context.Context, collection icon.Collection) error
	Put(ctx context.Context, collection icon.Collection) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Close() error
}
