package messaging

import (
	"context"

	"sitegraph/application/ports"
	"sitegraph/domain/events"

	"go.uber.org/zap"
)

// LogPublisher emits domain events to the structured log. The activity and
// suggestion feeds poll the backing store directly, so in-process logging
// is the only fan-out the engine itself performs.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a log-backed event publisher
func NewLogPublisher(logger *zap.Logger) ports.EventPublisher {
	return &LogPublisher{logger: logger}
}

// Publish records the event
func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Info("Domain event",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
		zap.Time("timestamp", event.GetTimestamp()),
	)
	return nil
}
