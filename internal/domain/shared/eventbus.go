package shared

import "context"

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventPublisherFunc adapts a function to EventPublisher
type EventPublisherFunc func(ctx context.Context, events ...DomainEvent) error

// Publish calls f
func (f EventPublisherFunc) Publish(ctx context.Context, events ...DomainEvent) error {
	return f(ctx, events...)
}
