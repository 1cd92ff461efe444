// Package eventbus carries ledger events to the notification collaborator.
// Delivery is best-effort: the ledger neither retries delivery nor fails an
// operation when a handler errors.
package eventbus

import "context"

// Event is implemented by every event the ledger emits.
type Event interface {
	EventType() string
}

// EventBus defines the contract for publishing and subscribing to events.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType string, handler func(context.Context, Event))
}
