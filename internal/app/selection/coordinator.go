// Package selection tracks which collection the user is working in.
package selection

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/iconsmith/internal/app/collections"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Source is the part of the collection repository the coordinator relies on.
type Source interface {
	DefaultID() string
	Get(ctx context.Context, id string) (icon.Collection, error)
	AddIcon(ctx context.Context, collectionID string, u icon.UserIcon) (icon.UserIcon, error)
	Subscribe(ctx context.Context, handler collections.Handler) (ports.Subscription, error)
}

// Coordinator caches the active collection and keeps it in step with the
// repository. Handlers run on the mutating goroutine, so the lock is never
// held while calling into the source.
type Coordinator struct {
	source Source
	logger ports.Logger
	sub    ports.Subscription

	mu     sync.RWMutex
	active *icon.Collection
}

// New subscribes to source. No collection is active until SelectDefault or
// SelectCollection is called.
func New(ctx context.Context, source Source, logger ports.Logger) (*Coordinator, error) {
	c := &Coordinator{
		source: source,
		logger: logger.With("layer", "application", "component", "selection"),
	}
	sub, err := source.Subscribe(ctx, c.onChange)
	if err != nil {
		return nil, err
	}
	c.sub = sub
	return c, nil
}

// Close stops following repository changes.
func (c *Coordinator) Close() {
	if c.sub != nil {
		c.sub.Unsubscribe()
	}
}

// SelectDefault activates the configured default collection.
func (c *Coordinator) SelectDefault(ctx context.Context) (icon.Collection, error) {
	return c.SelectCollection(ctx, c.source.DefaultID())
}

// SelectCollection activates the collection with the given id.
func (c *Coordinator) SelectCollection(ctx context.Context, id string) (icon.Collection, error) {
	col, err := c.source.Get(ctx, id)
	if err != nil {
		return icon.Collection{}, err
	}
	c.setActive(&col)
	c.logger.Debug(ctx, "collection selected", "collection_id", id)
	return col.Clone(), nil
}

// Active returns a copy of the active collection.
func (c *Coordinator) Active() (icon.Collection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return icon.Collection{}, false
	}
	return c.active.Clone(), true
}

// AddIconToActiveCollection stores u in the active collection and refreshes
// the cached view from the repository.
func (c *Coordinator) AddIconToActiveCollection(ctx context.Context, u icon.UserIcon) (icon.UserIcon, error) {
	active, ok := c.Active()
	if !ok {
		return icon.UserIcon{}, apperrors.NewConfigurationError("selection", "no collection is active")
	}

	stored, err := c.source.AddIcon(ctx, active.ID, u)
	if err != nil {
		return icon.UserIcon{}, err
	}

	refreshed, err := c.source.Get(ctx, active.ID)
	if err != nil {
		return icon.UserIcon{}, err
	}
	c.setActive(&refreshed)
	return stored, nil
}

func (c *Coordinator) setActive(col *icon.Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = col
}

func (c *Coordinator) onChange(ctx context.Context, list []icon.Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return
	}

	var fallback *icon.Collection
	defaultID := c.source.DefaultID()
	for i := range list {
		switch list[i].ID {
		case c.active.ID:
			c.active = &list[i]
			return
		case defaultID:
			fallback = &list[i]
		}
	}

	c.logger.Info(ctx, "active collection removed, falling back to default", "collection_id", c.active.ID, "default_id", defaultID)
	c.active = fallback
}
