package events

import (
	"context"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
)

// LogFielder lets a payload choose how it is summarized in the event log
// instead of being dumped wholesale.
type LogFielder interface {
	LogFields() []interface{}
}

// Broadcaster delivers domain events to subscribers synchronously, in
// registration order, and records each event at debug level.
//
// Handlers run on the publishing goroutine outside the lock, over a copy of the
// handler list taken when Publish starts. A handler registered or removed during
// delivery therefore only affects later events. There is no reentrancy guard:
// a handler that triggers another Publish produces a nested delivery before the
// outer one finishes, so handlers must not mutate the state they observe.
type Broadcaster struct {
	logger ports.Logger
	subs   map[string][]subscriptionEntry
	nextID int
	mu     sync.RWMutex
}

// NewBroadcaster creates a publisher that logs through logger.
func NewBroadcaster(logger ports.Logger) *Broadcaster {
	return &Broadcaster{
		logger: logger,
		subs:   make(map[string][]subscriptionEntry),
	}
}

// Publish invokes every handler registered for the event type. Handler errors
// are logged and do not stop delivery to the remaining handlers.
func (b *Broadcaster) Publish(ctx context.Context, event ports.DomainEvent) error {
	if b == nil || event == nil {
		return nil
	}

	b.mu.RLock()
	handlers := append([]subscriptionEntry(nil), b.subs[event.EventType()]...)
	b.mu.RUnlock()

	if b.logger != nil {
		fields := []interface{}{"event_type", event.EventType(), "subscribers", len(handlers)}
		b.logger.Debug(ctx, "domain event", append(fields, payloadFields(event.Payload())...)...)
	}

	for _, entry := range handlers {
		if err := entry.handler(ctx, event); err != nil && b.logger != nil {
			b.logger.Warn(ctx, "event handler failed", "event_type", event.EventType(), "subscription", entry.id, "error", err)
		}
	}

	return nil
}

// Subscribe registers a handler for the provided event type.
func (b *Broadcaster) Subscribe(eventType string, handler ports.EventHandler) (ports.Subscription, error) {
	if b == nil || handler == nil {
		return noopSubscription{}, nil
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscriptionEntry{id: id, handler: handler})
	b.mu.Unlock()

	return &subscription{
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			current := b.subs[eventType]
			kept := make([]subscriptionEntry, 0, len(current))
			for _, entry := range current {
				if entry.id != id {
					kept = append(kept, entry)
				}
			}
			b.subs[eventType] = kept
		},
	}, nil
}

// Subscribers reports how many handlers are registered for eventType.
func (b *Broadcaster) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventType])
}

func payloadFields(payload interface{}) []interface{} {
	switch p := payload.(type) {
	case nil:
		return nil
	case LogFielder:
		return p.LogFields()
	case map[string]interface{}:
		keys := make([]string, 0, len(p))
		for key := range p {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields := make([]interface{}, 0, len(p)*2)
		for _, key := range keys {
			fields = append(fields, key, p[key])
		}
		return fields
	default:
		return []interface{}{"payload", p}
	}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

type subscriptionEntry struct {
	id      int
	handler ports.EventHandler
}

var _ ports.EventPublisher = (*Broadcaster)(nil)
