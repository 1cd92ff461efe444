package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// SimpleEventBus is a synchronous in-process bus. Handlers run on the
// publisher's goroutine; a panicking handler is recovered and logged so an
// unreliable notification sink can never fail a ledger operation.
type SimpleEventBus struct {
	handlers map[string][]func(context.Context, Event)
	mu       sync.RWMutex
}

// NewSimpleEventBus creates an empty bus.
func NewSimpleEventBus() *SimpleEventBus {
	return &SimpleEventBus{handlers: make(map[string][]func(context.Context, Event))}
}

// Publish delivers the event to every subscriber of its type.
func (b *SimpleEventBus) Publish(ctx context.Context, event Event) error {
	slog.Debug("eventbus publish", "event_type", event.EventType(), "concrete_type", fmt.Sprintf("%T", event))
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, handler := range b.handlers[event.EventType()] {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("event handler panicked", "event_type", event.EventType(), "panic", r)
				}
			}()
			handler(ctx, event)
		}()
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (b *SimpleEventBus) Subscribe(eventType string, handler func(context.Context, Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
