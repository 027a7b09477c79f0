// Package collections owns the persisted icon collections: CRUD over a
// ports.CollectionStore, the default-collection invariant and change
// notification.
package collections

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
	"github.com/alexisbeaulieu97/iconsmith/pkg/uuid"
)

const (
	kindCollection = "collection"
	kindIcon       = "icon"

	// DefaultCollectionName is used when the configuration leaves the name blank.
	DefaultCollectionName = "Default"
)

// Config identifies the default collection that is synthesized whenever the
// store would otherwise be empty.
type Config struct {
	DefaultID   string
	DefaultName string
}

// Option customizes a Repository.
type Option func(*Repository)

// WithPublisher replaces the default in-process broadcaster.
func WithPublisher(p ports.EventPublisher) Option {
	return func(r *Repository) {
		if p != nil {
			r.publisher = p
		}
	}
}

// WithArchiveBuilder enables Download.
func WithArchiveBuilder(b ports.ArchiveBuilder) Option {
	return func(r *Repository) {
		r.archiver = b
	}
}

// Repository is the sole authority over persisted collections.
//
// Methods are safe for concurrent use but conflicting writes are not
// serialized: two updates of the same collection race and the last writer
// wins. After every successful mutation the full list is re-read and
// published synchronously to subscribers before the method returns.
type Repository struct {
	store       ports.CollectionStore
	publisher   ports.EventPublisher
	archiver    ports.ArchiveBuilder
	defaultID   string
	defaultName string
	logger      ports.Logger
}

// New builds a repository and ensures the default collection exists.
func New(ctx context.Context, store ports.CollectionStore, cfg Config, logger ports.Logger, opts ...Option) (*Repository, error) {
	if store == nil {
		return nil, apperrors.NewConfigurationError("store", "collection store is required")
	}
	if uuid.IsEmpty(cfg.DefaultID) {
		return nil, apperrors.NewConfigurationError("collections.default_id", "default collection id must not be empty")
	}
	name := strings.TrimSpace(cfg.DefaultName)
	if name == "" {
		name = DefaultCollectionName
	}

	logger = logger.With("layer", "application", "component", "repository")
	r := &Repository{
		store:       store,
		defaultID:   cfg.DefaultID,
		defaultName: name,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.publisher == nil {
		r.publisher = events.NewBroadcaster(logger)
	}

	if _, err := r.BootstrapDefaultIfEmpty(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultID returns the well-known id of the default collection.
func (r *Repository) DefaultID() string {
	return r.defaultID
}

// BootstrapDefaultIfEmpty inserts the default collection when the store holds
// none. It reports whether a collection was created.
func (r *Repository) BootstrapDefaultIfEmpty(ctx context.Context) (bool, error) {
	n, err := r.store.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	err = r.store.Insert(ctx, icon.Collection{ID: r.defaultID, Name: r.defaultName, Icons: []icon.UserIcon{}})
	if apperrors.IsAlreadyExists(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	r.logger.Info(ctx, "bootstrapped default collection", "collection_id", r.defaultID)
	return true, nil
}

// List returns every collection.
func (r *Repository) List(ctx context.Context) ([]icon.Collection, error) {
	return r.store.List(ctx)
}

// Get returns one collection or a NotFoundError.
func (r *Repository) Get(ctx context.Context, id string) (icon.Collection, error) {
	return r.store.Get(ctx, id)
}

// CreateCollection stores a new collection. An empty id is replaced by a fresh
// one, as is every empty icon id; icons are stamped with the collection id.
func (r *Repository) CreateCollection(ctx context.Context, c icon.Collection) (icon.Collection, error) {
	if strings.TrimSpace(c.Name) == "" {
		return icon.Collection{}, apperrors.NewValidationError("name", "collection name must not be blank", nil)
	}

	c = c.Clone()
	if uuid.IsEmpty(c.ID) {
		c.ID = uuid.New()
	}
	if err := normalizeIcons(&c); err != nil {
		return icon.Collection{}, err
	}

	if err := r.store.Insert(ctx, c); err != nil {
		return icon.Collection{}, err
	}
	r.logger.Info(ctx, "created collection", "collection_id", c.ID, "icons", len(c.Icons))
	r.notify(ctx)
	return c, nil
}

// UpdateCollection overwrites a stored collection wholesale. Icons are
// normalized the same way CreateCollection does it.
func (r *Repository) UpdateCollection(ctx context.Context, c icon.Collection) error {
	if uuid.IsEmpty(c.ID) {
		return apperrors.NewValidationError("id", "collection id must be set to update a collection", nil)
	}
	c = c.Clone()
	if err := normalizeIcons(&c); err != nil {
		return err
	}
	if err := r.store.Put(ctx, c); err != nil {
		return err
	}
	r.logger.Debug(ctx, "updated collection", "collection_id", c.ID)
	r.notify(ctx)
	return nil
}

// normalizeIcons assigns ids to icons that have none, rejects duplicate ids and
// stamps every icon with the collection id.
func normalizeIcons(c *icon.Collection) error {
	seen := make(map[string]struct{}, len(c.Icons))
	for i := range c.Icons {
		if !c.Icons[i].HasID() {
			c.Icons[i].ID = uuid.New()
		}
		if _, dup := seen[c.Icons[i].ID]; dup {
			return apperrors.NewAlreadyExistsError(kindIcon, c.Icons[i].ID)
		}
		seen[c.Icons[i].ID] = struct{}{}
		c.Icons[i].CollectionID = c.ID
	}
	return nil
}

// DeleteCollection removes a collection, re-creating the default one if the
// store became empty, then notifies once.
func (r *Repository) DeleteCollection(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.Info(ctx, "deleted collection", "collection_id", id)
	if _, err := r.BootstrapDefaultIfEmpty(ctx); err != nil {
		return err
	}
	r.notify(ctx)
	return nil
}

// AddIcon appends u to the collection and returns the stored icon. An empty id
// is assigned; an id already present fails with AlreadyExistsError.
func (r *Repository) AddIcon(ctx context.Context, collectionID string, u icon.UserIcon) (icon.UserIcon, error) {
	c, err := r.store.Get(ctx, collectionID)
	if err != nil {
		return icon.UserIcon{}, err
	}

	u = u.Clone()
	if !u.HasID() {
		u.ID = uuid.New()
		for c.IndexOf(u.ID) >= 0 {
			u.ID = uuid.New()
		}
	} else if c.IndexOf(u.ID) >= 0 {
		return icon.UserIcon{}, apperrors.NewAlreadyExistsError(kindIcon, u.ID)
	}
	u.CollectionID = collectionID

	c.Icons = append(c.Icons, u)
	if err := r.store.Put(ctx, c); err != nil {
		return icon.UserIcon{}, err
	}
	r.logger.Info(ctx, "added icon", "collection_id", collectionID, "icon_id", u.ID)
	r.notify(ctx)
	return u.Clone(), nil
}

// RemoveIcon deletes an icon from a collection.
func (r *Repository) RemoveIcon(ctx context.Context, collectionID, iconID string) error {
	c, err := r.store.Get(ctx, collectionID)
	if err != nil {
		return err
	}
	i := c.IndexOf(iconID)
	if i < 0 {
		return apperrors.NewNotFoundError(kindIcon, iconID)
	}

	c.Icons = append(c.Icons[:i:i], c.Icons[i+1:]...)
	if err := r.store.Put(ctx, c); err != nil {
		return err
	}
	r.logger.Info(ctx, "removed icon", "collection_id", collectionID, "icon_id", iconID)
	r.notify(ctx)
	return nil
}

// UpdateIcon replaces the icon with the same id.
func (r *Repository) UpdateIcon(ctx context.Context, collectionID string, u icon.UserIcon) error {
	c, err := r.store.Get(ctx, collectionID)
	if err != nil {
		return err
	}
	i := c.IndexOf(u.ID)
	if i < 0 {
		return apperrors.NewNotFoundError(kindIcon, u.ID)
	}

	u = u.Clone()
	u.CollectionID = collectionID
	c.Icons[i] = u
	if err := r.store.Put(ctx, c); err != nil {
		return err
	}
	r.logger.Debug(ctx, "updated icon", "collection_id", collectionID, "icon_id", u.ID)
	r.notify(ctx)
	return nil
}

// TryGetIcon looks up an icon. A missing collection or icon is reported as
// found=false with a nil error; any other failure is returned.
func (r *Repository) TryGetIcon(ctx context.Context, collectionID, iconID string) (icon.UserIcon, bool, error) {
	c, err := r.store.Get(ctx, collectionID)
	if apperrors.IsNotFound(err) {
		return icon.UserIcon{}, false, nil
	}
	if err != nil {
		return icon.UserIcon{}, false, err
	}
	i := c.IndexOf(iconID)
	if i < 0 {
		return icon.UserIcon{}, false, nil
	}
	return c.Icons[i], true, nil
}

// Subscribe registers handler for change notifications and immediately calls
// it with the current list. Delivery happens on the mutating goroutine, in
// registration order; every handler gets its own copy of the same snapshot.
func (r *Repository) Subscribe(ctx context.Context, handler Handler) (ports.Subscription, error) {
	if handler == nil {
		return nil, apperrors.NewValidationError("handler", "subscription handler must not be nil", nil)
	}

	sub, err := r.publisher.Subscribe(ports.EventCollectionsChanged, func(ctx context.Context, event ports.DomainEvent) error {
		changed, ok := event.(ChangedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload %T", event)
		}
		handler(ctx, changed.Collections())
		return nil
	})
	if err != nil {
		return nil, err
	}

	current, err := r.store.List(ctx)
	if err != nil {
		sub.Unsubscribe()
		return nil, err
	}
	handler(ctx, current)
	return sub, nil
}

// Download writes an archive of the collection's rendered icons to w and
// returns the suggested file name.
func (r *Repository) Download(ctx context.Context, collectionID string, w io.Writer) (string, error) {
	if r.archiver == nil {
		return "", apperrors.NewConfigurationError("export", "no archive builder configured")
	}
	c, err := r.store.Get(ctx, collectionID)
	if err != nil {
		return "", err
	}

	files := make([]ports.ArchiveFile, 0, len(c.Icons))
	for _, u := range c.Icons {
		if u.PNGData == "" {
			r.logger.Debug(ctx, "skipping icon without raster data", "collection_id", c.ID, "icon_id", u.ID)
			continue
		}
		name := strings.TrimSpace(u.Label)
		if name == "" {
			name = u.ID
		}
		files = append(files, ports.ArchiveFile{Name: name, DataURL: u.PNGData})
	}

	data, err := r.archiver.BuildArchive(ctx, c.Name, files)
	if err != nil {
		return "", fmt.Errorf("build archive for collection %s: %w", c.ID, err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	r.logger.Info(ctx, "exported collection", "collection_id", c.ID, "files", len(files))
	return c.Name + ".zip", nil
}

// notify re-reads the list and publishes it. A failed re-read is logged; the
// mutation itself already succeeded.
func (r *Repository) notify(ctx context.Context) {
	list, err := r.store.List(ctx)
	if err != nil {
		r.logger.Error(ctx, "reload collections for notification failed", "error", err)
		return
	}
	if err := r.publisher.Publish(ctx, ChangedEvent{collections: list}); err != nil {
		r.logger.Warn(ctx, "publish collections change failed", "error", err)
	}
}
