package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Common event types
const (
	// Sync lifecycle events
	StateAdopted      Type = "sync.state_adopted"
	RecoveryCompleted Type = "sync.recovery_completed"
	DrainCompleted    Type = "sync.drain_completed"
	QueueDepthChanged Type = "sync.queue_depth_changed"
	MutationQueued    Type = "sync.mutation_queued"
)

// Typed event payloads for type safety

// StateAdoptedPayloadV1 is the typed payload for state adoption events
type StateAdoptedPayloadV1 struct {
	Students  int       `json:"students"`
	Records   int       `json:"records"`
	Optimized bool      `json:"optimized"`
	AdoptedAt time.Time `json:"adopted_at"`
}

// RecoveryCompletedPayloadV1 is the typed payload for legacy recovery events
type RecoveryCompletedPayloadV1 struct {
	RecoveredKeys []string `json:"recovered_keys"`
	NeedsSync     bool     `json:"needs_sync"`
}

// DrainCompletedPayloadV1 is the typed payload for queue drain events
type DrainCompletedPayloadV1 struct {
	Sent     int `json:"sent"`
	Dropped  int `json:"dropped"`
	Retained int `json:"retained"`
}

// QueueDepthChangedPayloadV1 is the typed payload for queue depth events
type QueueDepthChangedPayloadV1 struct {
	Depth int `json:"depth"`
}

// MutationQueuedPayloadV1 is the typed payload for deferred mutation events
type MutationQueuedPayloadV1 struct {
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
}

// Type-safe event constructors

// NewStateAdoptedEvent creates a new state adoption event
func NewStateAdoptedEvent(students, records int, optimized bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    StateAdopted,
		Payload: StateAdoptedPayloadV1{
			Students:  students,
			Records:   records,
			Optimized: optimized,
			AdoptedAt: time.Now(),
		},
	}
}

// NewRecoveryCompletedEvent creates a new legacy recovery event
func NewRecoveryCompletedEvent(recoveredKeys []string, needsSync bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RecoveryCompleted,
		Payload: RecoveryCompletedPayloadV1{
			RecoveredKeys: recoveredKeys,
			NeedsSync:     needsSync,
		},
	}
}

// NewDrainCompletedEvent creates a new drain completion event
func NewDrainCompletedEvent(sent, dropped, retained int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DrainCompleted,
		Payload: DrainCompletedPayloadV1{
			Sent:     sent,
			Dropped:  dropped,
			Retained: retained,
		},
	}
}

// NewQueueDepthChangedEvent creates a new queue depth event
func NewQueueDepthChangedEvent(depth int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    QueueDepthChanged,
		Payload: QueueDepthChangedPayloadV1{Depth: depth},
	}
}

// NewMutationQueuedEvent creates a new deferred mutation event
func NewMutationQueuedEvent(endpoint, method string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MutationQueued,
		Payload: MutationQueuedPayloadV1{Endpoint: endpoint, Method: method},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run
// synchronously; a handler error never prevents the remaining handlers
// from running.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
