package event

import (
	"context"

	"github.com/clothstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a log-only publisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger.Named("events")}
}

// Publish logs each event
func (p *LogPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.logger.Info("Domain event",
			zap.String("event_type", e.EventType()),
			zap.String("event_id", e.EventID().String()),
			zap.String("aggregate_type", e.AggregateType()),
			zap.String("aggregate_id", e.AggregateID().String()),
		)
	}
	return nil
}

var _ shared.EventPublisher = (*LogPublisher)(nil)
