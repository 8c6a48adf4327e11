package observability

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Subscriber receives every event published on the bus.
type Subscriber interface {
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// EventBus implements the EventPublisher interface.
type EventBus struct {
	logger      *zap.Logger
	subscribers []Subscriber
}

// NewEventBus creates a new event bus. Nil subscribers are ignored.
func NewEventBus(logger *zap.Logger, subscribers ...Subscriber) *EventBus {
	active := make([]Subscriber, 0, len(subscribers))
	for _, s := range subscribers {
		if s != nil {
			active = append(active, s)
		}
	}

	return &EventBus{
		logger:      logger,
		subscribers: active,
	}
}

// Publish logs the event and forwards it to every subscriber.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if e.logger != nil {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]zap.Field, 0, len(data)+1)
		fields = append(fields, String("event", eventType))
		for _, k := range keys {
			fields = append(fields, Any(k, data[k]))
		}

		e.logger.Info("event published", fields...)
	}

	for _, s := range e.subscribers {
		s.Publish(ctx, eventType, data)
	}
}
