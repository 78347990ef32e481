// Package messaging implements the in-process event bus used to observe
// state changes. Delivery is synchronous and in subscription order, so a
// subscriber always sees events in the order they were committed.
package messaging

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrEventBusClosed is returned when publishing to or subscribing on a closed bus.
var ErrEventBusClosed = errors.New("event bus is closed")

// Handler processes a single event. A returned error is logged and does not
// stop delivery to the remaining handlers.
type Handler[E any] func(event E) error

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus fans events out to subscribed handlers within the process.
type InMemoryEventBus[E any] struct {
	mu       sync.RWMutex
	nextID   uint64
	order    []uint64
	handlers map[uint64]Handler[E]
	logger   *slog.Logger
	closed   bool
}

// InMemoryEventBusConfig contains configuration for InMemoryEventBus.
type InMemoryEventBusConfig struct {
	// Logger for structured logging
	Logger *slog.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus[E any](config InMemoryEventBusConfig) *InMemoryEventBus[E] {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &InMemoryEventBus[E]{
		handlers: make(map[uint64]Handler[E]),
		logger:   config.Logger,
	}
}

// Subscribe registers a handler and returns a function that removes it.
// The returned function is safe to call more than once.
func (b *InMemoryEventBus[E]) Subscribe(handler Handler[E]) (func(), error) {
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrEventBusClosed
	}

	b.nextID++
	id := b.nextID
	b.handlers[id] = handler
	b.order = append(b.order, id)
	b.logger.Debug("subscribed handler", "subscription_id", id)

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}, nil
}

func (b *InMemoryEventBus[E]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers the event to every handler, in subscription order.
// Handlers run outside the bus lock and may subscribe or unsubscribe.
func (b *InMemoryEventBus[E]) Publish(event E) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}

	handlers := make([]Handler[E], 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			b.logger.Error("handler error", "error", err)
		}
	}

	return nil
}

// Len returns the number of active subscriptions.
func (b *InMemoryEventBus[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}

// Close drops every subscription. Further calls to Publish or Subscribe fail.
func (b *InMemoryEventBus[E]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.handlers = nil
	b.order = nil

	b.logger.Debug("event bus closed")
	return nil
}
