package eventbus

import (
	"FleetFuel/internal/core/ports"
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// InMemoryEventBus fans events out to subscriber goroutines.
// Delivery is best-effort: handler errors are logged and dropped.
type InMemoryEventBus struct {
	log         zerolog.Logger
	subscribers map[string][]ports.EventHandler
	mu          sync.RWMutex
	inflight    sync.WaitGroup
}

var _ ports.EventBus = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus creates a new, empty event bus
func NewInMemoryEventBus(baseLogger *zerolog.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		log:         baseLogger.With().Str("component", "in_memory_bus").Logger(),
		subscribers: make(map[string][]ports.EventHandler),
	}
}

// Publish sends an event to all subscribers of a topic
func (b *InMemoryEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	b.mu.RLock()
	handlers := append([]ports.EventHandler(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Warn().Str("topic", topic).Msg("Published event with no subscribers")
		return nil
	}

	event := ports.Event{Topic: topic, Data: data}

	// Handlers get a detached context so a finished update does not cancel them.
	detached := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		b.inflight.Add(1)
		go func(h ports.EventHandler) {
			defer b.inflight.Done()
			if err := h(detached, event); err != nil {
				b.log.Error().Err(err).Str("topic", topic).Msg("Event handler failed")
			}
		}(handler)
	}

	b.log.Debug().Str("topic", topic).Int("handlers", len(handlers)).Msg("Event published")
	return nil
}

// Subscribe registers a handler for a specific topic
func (b *InMemoryEventBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	b.log.Info().Str("topic", topic).Msg("New handler subscribed to topic")
}

// Wait blocks until every handler started so far has returned.
func (b *InMemoryEventBus) Wait() {
	b.inflight.Wait()
}
