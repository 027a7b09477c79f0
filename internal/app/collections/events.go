package collections

import (
	"context"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
)

// ChangedEvent carries the full collection list re-read after a mutation.
type ChangedEvent struct {
	collections []icon.Collection
}

// EventType implements ports.DomainEvent.
func (e ChangedEvent) EventType() string {
	return ports.EventCollectionsChanged
}

// Payload implements ports.DomainEvent.
func (e ChangedEvent) Payload() interface{} {
	return e
}

// Collections returns a private deep copy of the snapshot.
func (e ChangedEvent) Collections() []icon.Collection {
	return icon.CloneCollections(e.collections)
}

// LogFields summarizes the snapshot for the event log.
func (e ChangedEvent) LogFields() []interface{} {
	icons := 0
	for _, c := range e.collections {
		icons += len(c.Icons)
	}
	return []interface{}{"collections", len(e.collections), "icons", icons}
}

// Handler observes the collection list. It receives its own copy of the
// snapshot and must not mutate the repository from inside the call.
type Handler func(ctx context.Context, collections []icon.Collection)
