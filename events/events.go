package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDatasetRefreshed EventType = "dataset_refreshed"
	EventTypeDatasetLoaded    EventType = "dataset_loaded"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DatasetRefreshedEvent fires when the dashboard swaps in a new snapshot
type DatasetRefreshedEvent struct {
	SnapshotID    uuid.UUID
	Seed          int64
	CustomerCount int
	MonthCount    int
	Trigger       string // "startup", "scheduled" or "manual"
}

func (e DatasetRefreshedEvent) Type() EventType {
	return EventTypeDatasetRefreshed
}

// DatasetLoadedEvent fires after a snapshot has been committed to the
// analytics database.
type DatasetLoadedEvent struct {
	RunID      uuid.UUID
	SnapshotID uuid.UUID
	RowsLoaded int
	Duration   time.Duration
}

func (e DatasetLoadedEvent) Type() EventType {
	return EventTypeDatasetLoaded
}

// Handler is a function that processes an event
type Handler func(ctx context.Context, event Event)

// Bus is a simple in-process publish/subscribe event bus
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously so a slow subscriber never blocks the publisher.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events published during a database transaction and
// flushes them to the underlying bus only after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after commit; uses a background
// context so event delivery outlives the transaction context.
func (b *TransactionalBus) Flush() {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events, called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
