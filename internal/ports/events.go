package ports

import "context"

const (
	// EventCollectionsChanged is emitted after every successful mutation of the
	// persisted collection set. The payload is the full, re-read list.
	EventCollectionsChanged = "collections.changed"
)

// DomainEvent represents a significant occurrence within the domain or
// application layer. Events carry structured payloads that downstream
// subscribers can use for logging, UI updates, or integrations.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run, in registration order,
// so every subscriber has seen the last committed state when the mutating
// call returns. Implementations must be thread-safe but provide no reentrancy
// protection; a handler that publishes from inside its own body causes nested
// notification chains.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Handlers should avoid
// panicking; failures should be surfaced via returned errors so publishers can
// log diagnostics and continue delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events and release resources.
type Subscription interface {
	Unsubscribe()
}
