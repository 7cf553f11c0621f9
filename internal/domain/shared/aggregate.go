package shared

// BaseAggregateRoot collects domain events raised while an aggregate is mutated.
// Events are pulled by the application service once the write is durable.
type BaseAggregateRoot struct {
	BaseEntity
	pending []DomainEvent
}

// NewBaseAggregateRoot creates an aggregate root with a fresh identity
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity()}
}

// AddDomainEvent queues an event for publication
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// GetDomainEvents returns the queued events without draining them
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.pending
}

// PullDomainEvents returns the queued events and empties the queue
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
