package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

// BaseEvent supplies the Event plumbing; concrete events embed it and add
// their typed fields on top.
type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) Payload() interface{}  { return e.Data }

type Handler func(ctx context.Context, event Event) error

// EventBus is the in-process pub/sub fabric between the guard, the account
// store and the audit trail. Subscriptions happen once at startup;
// publishing is concurrency-safe.
type EventBus struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	handlers map[string][]Handler
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

func (b *EventBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Info("subscribed", "event_type", eventType, "handlers", len(b.handlers[eventType]))
}

func (b *EventBus) subscribers(eventType string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.handlers[eventType]
}

// Publish dispatches to each subscriber on its own goroutine. Failures are
// logged, never returned: publishers on the request path must not block or
// fail on a slow subscriber.
func (b *EventBus) Publish(ctx context.Context, event Event) error {
	for _, handler := range b.subscribers(event.EventType()) {
		go func(h Handler) {
			if err := h(ctx, event); err != nil {
				b.logger.Error("event handler failed",
					"event_type", event.EventType(),
					"event_id", event.EventID(),
					"error", err)
			}
		}(handler)
	}
	return nil
}

// PublishSync runs subscribers inline and stops at the first failure.
func (b *EventBus) PublishSync(ctx context.Context, event Event) error {
	for _, handler := range b.subscribers(event.EventType()) {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("event handler failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
			return fmt.Errorf("handle %s: %w", event.EventType(), err)
		}
	}
	return nil
}
