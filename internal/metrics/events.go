package metrics

import (
	"context"

	"github.com/edudesk/edudesk/internal/event"
	"github.com/edudesk/edudesk/internal/logger"
)

// EventMetricsCollector subscribes to sync events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all sync event types
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.QueueDepthChanged,
		event.DrainCompleted,
		event.RecoveryCompleted,
		event.MutationQueued,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes sync events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	switch payload := evt.Payload.(type) {
	case event.QueueDepthChangedPayloadV1:
		QueueDepth.Set(float64(payload.Depth))

	case event.DrainCompletedPayloadV1:
		DrainPasses.Inc()
		DrainEntries.WithLabelValues(OutcomeSent).Add(float64(payload.Sent))
		DrainEntries.WithLabelValues(OutcomeDropped).Add(float64(payload.Dropped))
		DrainEntries.WithLabelValues(OutcomeRetained).Add(float64(payload.Retained))

	case event.RecoveryCompletedPayloadV1:
		if payload.NeedsSync {
			NeedsSync.Set(1)
		} else {
			NeedsSync.Set(0)
		}

	case event.MutationQueuedPayloadV1:
		// Depth gauge follows via QueueDepthChanged; nothing extra here.

	default:
		log.Debug(LogMsgUnknownEventPayload, "type", evt.Type)
	}

	return nil
}

// Log message constants
const (
	LogMsgUnknownEventPayload = "Event payload type not recognized for metrics"
)
